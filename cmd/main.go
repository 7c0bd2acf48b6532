package main

import (
	"fmt"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/application/services"
	"github.com/PranavReddyGaddam/GitBridge/config"
	"github.com/PranavReddyGaddam/GitBridge/infrastructure/adapters"
	"github.com/PranavReddyGaddam/GitBridge/infrastructure/gin_interface/controllers"
	mockcollaborators "github.com/PranavReddyGaddam/GitBridge/mock"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	storageConfig, err := config.GetStorageConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get storage config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	openRouterConfig, err := config.GetOpenRouterConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get open router config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	localBackend, err := adapters.NewLocalStorageBackend(storageConfig.LocalRoot, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create local storage backend")
	}

	var s3Backend outbound.StorageBackendPort
	if s3Config.Enabled() {
		sess := session.Must(session.NewSession(&aws.Config{
			Region: aws.String(s3Config.Region),
			Credentials: credentials.NewStaticCredentials(
				s3Config.AccessKeyID, s3Config.SecretAccessKey, ""),
		}))
		s3Backend = adapters.NewS3StorageBackend(s3.New(sess), s3Config, zeroLogger)
	}

	backend := localBackend
	storageType := "local"
	if storageConfig.Backend == "s3" || (storageConfig.Backend == "auto" && s3Backend != nil) {
		if s3Backend == nil {
			log.Fatal().Msg("STORAGE_BACKEND=s3 but S3 credentials are not configured")
		}
		backend = s3Backend
		storageType = "s3"
	}

	// Migration only makes sense from the local tree into S3, while the
	// process is still serving from local storage.
	var migrateTarget outbound.StorageBackendPort
	if storageType == "local" && s3Backend != nil {
		migrateTarget = s3Backend
	}

	cacheManager := services.NewCacheEntryManager(zeroLogger, backend, storageType)
	assembler := services.NewAudioAssembler(zeroLogger, backend)

	var scriptSource outbound.ScriptSourcePort
	var synthesizer outbound.SpeechSynthesizerPort

	if serverConfig.MockCollaborators {
		zeroLogger.Info("Using mock collaborators")
		scriptSource = mockcollaborators.NewScriptSource(zeroLogger)
		synthesizer = mockcollaborators.NewSpeechSynthesizer(zeroLogger)
	} else {
		contentFetcher := adapters.NewContentFetcher(zeroLogger)
		scriptSource = adapters.NewOpenRouterScriptSource(openRouterConfig, zeroLogger)
		synthesizer = adapters.NewElevenLabsSynthesizer(contentFetcher, elevenLabsConfig)
	}

	orchestrator := services.NewPodcastOrchestrator(zeroLogger, workerPool, cacheManager,
		scriptSource, synthesizer, assembler, backend, nil)

	podcastController := controllers.NewPodcastController(zeroLogger, orchestrator, cacheManager,
		assembler, backend, migrateTarget, s3Config.URLTTL, storageConfig.CleanupDays)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	podcastController.RegisterRoutes(router)

	if err := router.Run(serverConfig.Addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
