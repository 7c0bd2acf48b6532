package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/inbound"
	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/PranavReddyGaddam/GitBridge/infrastructure/gin_interface/dto"
	"github.com/PranavReddyGaddam/GitBridge/middleware"
	"github.com/gin-gonic/gin"
)

type PodcastController interface {
	RegisterRoutes(g *gin.Engine)
}

type podcastController struct {
	logger        outbound.LoggerPort
	generator     inbound.PodcastGeneratorPort
	cacheManager  inbound.CacheManagerPort
	assembler     inbound.AudioAssemblerPort
	backend       outbound.StorageBackendPort
	migrateTarget outbound.StorageBackendPort
	urlTTL        time.Duration
	cleanupDays   int
}

// NewPodcastController exposes the generation pipeline and cache lifecycle
// over HTTP. migrateTarget may be nil when no object store is configured.
func NewPodcastController(logger outbound.LoggerPort, generator inbound.PodcastGeneratorPort,
	cacheManager inbound.CacheManagerPort, assembler inbound.AudioAssemblerPort,
	backend outbound.StorageBackendPort, migrateTarget outbound.StorageBackendPort,
	urlTTL time.Duration, cleanupDays int) PodcastController {
	return &podcastController{
		logger:        logger,
		generator:     generator,
		cacheManager:  cacheManager,
		assembler:     assembler,
		backend:       backend,
		migrateTarget: migrateTarget,
		urlTTL:        urlTTL,
		cleanupDays:   cleanupDays,
	}
}

func (p *podcastController) RegisterRoutes(g *gin.Engine) {
	api := g.Group("/api")
	api.POST("/generate-podcast", p.generatePodcast)
	api.POST("/generate-podcast-stream", middleware.SSEMiddleware(), p.generatePodcastStream)
	api.GET("/podcast-segment/:cache_key/:ordinal", p.servePodcastSegment)
	api.GET("/podcast-audio/:cache_key", p.servePodcastAudio)
	api.GET("/podcast-script/:cache_key", p.servePodcastScript)
	api.GET("/file-url", p.fileURL)
	api.GET("/cached-podcasts", p.cachedPodcasts)
	api.GET("/storage-stats", p.storageStats)
	api.DELETE("/cleanup-old-files", p.cleanupOldFiles)
	api.POST("/migrate-to-s3", p.migrateToS3)

	g.GET("/health/podcast", p.health)
}

func (p *podcastController) generatePodcast(c *gin.Context) {
	var request dto.GeneratePodcastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := p.generator.GenerateOnce(c.Request.Context(), inbound.GeneratePodcastParams{
		RepoURL:         request.RepoURL,
		DurationSeconds: request.DurationSeconds(),
		VoiceSettings:   request.DomainVoiceSettings(),
	})
	if err != nil {
		p.logger.Error(err, "Podcast generation failed")
		c.JSON(p.statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (p *podcastController) generatePodcastStream(c *gin.Context) {
	var request dto.GeneratePodcastRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, err := p.generator.GenerateStream(newCtx, inbound.GeneratePodcastParams{
		RepoURL:         request.RepoURL,
		DurationSeconds: request.DurationSeconds(),
		VoiceSettings:   request.DomainVoiceSettings(),
	})
	if err != nil {
		p.logger.Error(err, "Failed to start podcast stream")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	clientGone := c.Request.Context().Done()
	for event := range events {
		select {
		case <-clientGone:
			return
		default:
			c.SSEvent("progress", event)
			c.Writer.Flush()
		}
	}
}

func (p *podcastController) servePodcastSegment(c *gin.Context) {
	key := domain.CacheKey(c.Param("cache_key"))
	ordinal, err := strconv.Atoi(c.Param("ordinal"))
	if err != nil || ordinal < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segment ordinal"})
		return
	}

	ref := p.assembler.SegmentRef(key, ordinal)
	data, err := p.backend.Get(c.Request.Context(), ref)
	if errors.Is(err, domain.ErrRefNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "segment not found"})
		return
	}
	if err != nil {
		p.logger.Error(err, "Failed to read segment artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "audio/wav", data)
}

func (p *podcastController) servePodcastAudio(c *gin.Context) {
	p.serveArtifact(c, func(entry *domain.CacheEntry) (string, string) {
		return entry.Files.AudioRef, "audio/wav"
	})
}

func (p *podcastController) servePodcastScript(c *gin.Context) {
	p.serveArtifact(c, func(entry *domain.CacheEntry) (string, string) {
		return entry.Files.ScriptRef, "application/json"
	})
}

func (p *podcastController) serveArtifact(c *gin.Context, pick func(*domain.CacheEntry) (string, string)) {
	key := domain.CacheKey(c.Param("cache_key"))

	entry, err := p.cacheManager.Lookup(c.Request.Context(), key)
	if errors.Is(err, domain.ErrCacheMiss) {
		c.JSON(http.StatusNotFound, gin.H{"error": "podcast not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ref, contentType := pick(entry)
	data, err := p.backend.Get(c.Request.Context(), ref)
	if errors.Is(err, domain.ErrRefNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "artifact not found"})
		return
	}
	if err != nil {
		p.logger.Error(err, "Failed to read artifact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

func (p *podcastController) fileURL(c *gin.Context) {
	ref := c.Query("path")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}

	url, err := p.backend.URLFor(c.Request.Context(), ref, p.urlTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (p *podcastController) cachedPodcasts(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := p.cacheManager.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (p *podcastController) storageStats(c *gin.Context) {
	stats, err := p.cacheManager.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (p *podcastController) cleanupOldFiles(c *gin.Context) {
	days := p.cleanupDays
	if raw := c.Query("days_old"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days_old"})
			return
		}
		days = parsed
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	evicted, err := p.cacheManager.Evict(c.Request.Context(), cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"evicted": evicted, "days_old": days})
}

func (p *podcastController) migrateToS3(c *gin.Context) {
	if p.migrateTarget == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "S3 is not configured"})
		return
	}

	migrated, err := p.cacheManager.Migrate(c.Request.Context(), p.migrateTarget)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"migrated": migrated})
}

func (p *podcastController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "podcast"})
}

func (p *podcastController) statusFor(err error) int {
	var synthErr *domain.SynthesisError
	if errors.As(err, &synthErr) {
		switch synthErr.Kind {
		case domain.SynthesisRateLimited:
			return http.StatusTooManyRequests
		case domain.SynthesisAuthFailed:
			return http.StatusUnauthorized
		case domain.SynthesisTimedOut:
			return http.StatusRequestTimeout
		}
	}
	return http.StatusInternalServerError
}
