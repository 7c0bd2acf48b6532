package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/services"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/PranavReddyGaddam/GitBridge/infrastructure/adapters"
	mockcollaborators "github.com/PranavReddyGaddam/GitBridge/mock"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := adapters.NewZerologWrapper()
	backend, err := adapters.NewLocalStorageBackend(t.TempDir(), logger)
	require.NoError(t, err)

	workerPool, err := ants.NewPool(20)
	require.NoError(t, err)
	t.Cleanup(workerPool.Release)

	cacheManager := services.NewCacheEntryManager(logger, backend, "local")
	assembler := services.NewAudioAssembler(logger, backend)
	orchestrator := services.NewPodcastOrchestrator(logger, workerPool, cacheManager,
		mockcollaborators.NewScriptSource(logger), mockcollaborators.NewSpeechSynthesizer(logger),
		assembler, backend, nil)

	controller := NewPodcastController(logger, orchestrator, cacheManager, assembler,
		backend, nil, time.Hour, 30)

	router := gin.New()
	controller.RegisterRoutes(router)
	return router
}

func performJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestPodcastController_GenerateAndServe(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodPost, "/api/generate-podcast",
		`{"repo_url": "https://github.com/gin-gonic/gin"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var result domain.GenerationResult
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	require.Equal(t, "success", result.Status)
	require.False(t, result.FromCache)
	require.NotEmpty(t, result.CacheKey)

	// Artifacts are now downloadable.
	res = performJSON(router, http.MethodGet, "/api/podcast-audio/"+string(result.CacheKey), "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "audio/wav", res.Header().Get("Content-Type"))

	res = performJSON(router, http.MethodGet, "/api/podcast-script/"+string(result.CacheKey), "")
	require.Equal(t, http.StatusOK, res.Code)

	res = performJSON(router, http.MethodGet, "/api/podcast-segment/"+string(result.CacheKey)+"/0", "")
	require.Equal(t, http.StatusOK, res.Code)

	// The repeat request is a cache hit.
	res = performJSON(router, http.MethodPost, "/api/generate-podcast",
		`{"repo_url": "https://github.com/gin-gonic/gin"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &result))
	require.True(t, result.FromCache)
	require.Zero(t, result.EstimatedCost)
}

func TestPodcastController_GenerateRequiresRepoURL(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodPost, "/api/generate-podcast", `{"duration": 300}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPodcastController_StreamEmitsProgressEvents(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodPost, "/api/generate-podcast-stream",
		`{"repo_url": "https://github.com/gin-gonic/gin"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Header().Get("Content-Type"), "text/event-stream")

	body := res.Body.String()
	require.Contains(t, body, "event:progress")
	require.Contains(t, body, `"status":"segment_ready"`)
	require.Contains(t, body, `"status":"complete"`)
}

func TestPodcastController_NotFoundPaths(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodGet, "/api/podcast-audio/ffffffffffffffffffffffffffffffff", "")
	require.Equal(t, http.StatusNotFound, res.Code)

	res = performJSON(router, http.MethodGet, "/api/podcast-segment/ffffffffffffffffffffffffffffffff/0", "")
	require.Equal(t, http.StatusNotFound, res.Code)

	res = performJSON(router, http.MethodGet, "/api/podcast-segment/abc/notanumber", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPodcastController_CacheEndpoints(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodPost, "/api/generate-podcast",
		`{"repo_url": "https://github.com/rs/zerolog"}`)
	require.Equal(t, http.StatusOK, res.Code)

	res = performJSON(router, http.MethodGet, "/api/cached-podcasts", "")
	require.Equal(t, http.StatusOK, res.Code)
	var entries []domain.CacheEntry
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &entries))
	require.Len(t, entries, 1)

	res = performJSON(router, http.MethodGet, "/api/storage-stats", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"storage_type":"local"`)

	// Nothing is old enough to evict yet.
	res = performJSON(router, http.MethodDelete, "/api/cleanup-old-files", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"evicted":0`)

	res = performJSON(router, http.MethodDelete, "/api/cleanup-old-files?days_old=0", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPodcastController_MigrateWithoutTarget(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodPost, "/api/migrate-to-s3", "")
	require.Equal(t, http.StatusConflict, res.Code)
}

func TestPodcastController_Health(t *testing.T) {
	router := newTestRouter(t)

	res := performJSON(router, http.MethodGet, "/health/podcast", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "healthy")
}
