package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/inbound"
	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// perCharacterRate is the provider's approximate price per synthesized
// character, in USD.
const perCharacterRate = 0.00003

// progressCeiling reserves the top of the progress range for final assembly
// and persistence.
const progressCeiling = 0.9

type podcastOrchestrator struct {
	logger       outbound.LoggerPort
	workerPool   outbound.TaskDispatcher
	cacheManager inbound.CacheManagerPort
	scriptSource outbound.ScriptSourcePort
	synthesizer  outbound.SpeechSynthesizerPort
	assembler    inbound.AudioAssemblerPort
	backend      outbound.StorageBackendPort
	speakerNames map[domain.SpeakerRole]string
	flight       singleflight.Group
}

// NewPodcastOrchestrator drives the cache-checked generation pipeline.
// Concurrent requests for the same cache key share a single generation: the
// first caller runs the pipeline and streams progress, later callers block on
// the shared call and receive only its terminal result.
func NewPodcastOrchestrator(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	cacheManager inbound.CacheManagerPort, scriptSource outbound.ScriptSourcePort,
	synthesizer outbound.SpeechSynthesizerPort, assembler inbound.AudioAssemblerPort,
	backend outbound.StorageBackendPort, speakerNames map[domain.SpeakerRole]string) inbound.PodcastGeneratorPort {
	if speakerNames == nil {
		speakerNames = map[domain.SpeakerRole]string{
			domain.HostRole:   "Host",
			domain.ExpertRole: "Expert",
		}
	}
	return &podcastOrchestrator{
		logger:       logger,
		workerPool:   workerPool,
		cacheManager: cacheManager,
		scriptSource: scriptSource,
		synthesizer:  synthesizer,
		assembler:    assembler,
		backend:      backend,
		speakerNames: speakerNames,
	}
}

func (o *podcastOrchestrator) GenerateStream(ctx context.Context, params inbound.GeneratePodcastParams) (<-chan domain.ProgressEvent, error) {
	out := make(chan domain.ProgressEvent)

	err := o.workerPool.Submit(func() {
		defer close(out)
		_ = o.run(ctx, params, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// run executes one generation and reports every outcome twice: as the
// stream's single terminal event, and as the returned error for callers that
// need the typed failure.
func (o *podcastOrchestrator) run(ctx context.Context, params inbound.GeneratePodcastParams, out chan<- domain.ProgressEvent) error {
	if params.VoiceSettings == (domain.VoiceSettings{}) {
		params.VoiceSettings = domain.DefaultVoiceSettings()
	}

	key := domain.DeriveCacheKey(params.RepoURL, params.DurationSeconds, params.VoiceSettings)
	runID := uuid.NewString()

	// Cancellation is observed between sends only; an in-flight collaborator
	// call is never interrupted.
	emit := func(ev domain.ProgressEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	ok, err := o.cacheManager.Exists(ctx, key)
	if err != nil {
		o.logger.ErrorWithFields(err, "Cache check failed", map[string]interface{}{"run_id": runID})
		emit(errorEvent(key, err))
		return err
	}
	if ok {
		entry, err := o.cacheManager.Lookup(ctx, key)
		if err == nil {
			if err := o.cacheManager.RecordAccess(ctx, key); err != nil {
				o.logger.ErrorWithFields(err, "Failed to record cache access", map[string]interface{}{
					"cache_key": string(key),
				})
			}
			o.logger.InfoWithFields("Serving podcast from cache", map[string]interface{}{
				"run_id":    runID,
				"cache_key": string(key),
			})
			emit(completeEvent(key, entry, "Retrieved from cache"))
			return nil
		}
	}

	// Identical concurrent requests await one shared generation instead of
	// duplicating script and synthesis cost.
	v, err, _ := o.flight.Do(string(key), func() (interface{}, error) {
		return o.generate(ctx, key, runID, params, emit)
	})
	if err != nil {
		emit(errorEvent(key, err))
		return err
	}
	emit(completeEvent(key, v.(*domain.CacheEntry), "Podcast generation complete!"))
	return nil
}

func (o *podcastOrchestrator) generate(ctx context.Context, key domain.CacheKey, runID string,
	params inbound.GeneratePodcastParams, emit func(domain.ProgressEvent) bool) (*domain.CacheEntry, error) {

	if !emit(domain.ProgressEvent{
		Status:   domain.StatusGenerating,
		CacheKey: key,
		Progress: 0,
		Message:  "Generating podcast script...",
	}) {
		return nil, ctx.Err()
	}

	script, err := o.scriptSource.Produce(ctx, outbound.ProduceScriptParams{
		RepoURL:               params.RepoURL,
		RepoName:              repoNameFromURL(params.RepoURL),
		TargetDurationSeconds: params.DurationSeconds,
		SpeakerNames:          o.speakerNames,
	})
	if err != nil {
		var wrapped *domain.ScriptGenerationError
		if !errors.As(err, &wrapped) {
			err = &domain.ScriptGenerationError{Err: err}
		}
		return nil, err
	}

	total := len(script.Segments)
	estimatedCost := float64(script.TotalCharacters()) * perCharacterRate
	o.logger.InfoWithFields("Script ready, starting synthesis", map[string]interface{}{
		"run_id":         runID,
		"cache_key":      string(key),
		"total_segments": total,
		"estimated_cost": estimatedCost,
	})

	files := o.artifactRefs(key)

	audioSegments := make([]domain.AudioSegment, 0, total)
	for i, segment := range script.Segments {
		voiceID := params.VoiceSettings.VoiceFor(segment.Speaker)

		pcm, err := o.synthesizer.Synthesize(ctx, outbound.SynthesizeSpeechParams{
			Text:     segment.Text,
			VoiceID:  voiceID,
			Settings: params.VoiceSettings,
		})
		if err != nil {
			// Already-persisted segments for earlier ordinals stay on the
			// backend; the age-based sweep reclaims them.
			return nil, err
		}

		audioSegment, err := o.assembler.AssembleSegment(ctx, key, segment, pcm)
		if err != nil {
			return nil, err
		}
		audioSegments = append(audioSegments, *audioSegment)

		if !emit(domain.ProgressEvent{
			Status:        domain.StatusSegmentReady,
			CacheKey:      key,
			SegmentIndex:  i,
			TotalSegments: total,
			SegmentRef:    audioSegment.Ref,
			Progress:      progressCeiling * float64(i+1) / float64(total),
			DurationMs:    audioSegment.DurationMs,
			Message:       fmt.Sprintf("Segment %d/%d ready", i+1, total),
		}) {
			return nil, ctx.Err()
		}
	}

	if _, err := o.assembler.AssembleFinal(ctx, key, audioSegments, files.AudioRef); err != nil {
		return nil, err
	}

	metadata := domain.PodcastMetadata{
		RepoName:          script.RepoName,
		EpisodeTitle:      script.EpisodeTitle,
		EstimatedDuration: script.EstimatedDuration,
		KeyTopics:         script.KeyTopics,
		GeneratedAt:       time.Now().UTC(),
		ScriptLength:      total,
		ActualCost:        estimatedCost,
	}

	if err := o.persistScript(ctx, script, files.ScriptRef); err != nil {
		return nil, err
	}
	if err := o.persistMetadata(ctx, metadata, files.MetadataRef); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.CacheEntry{
		CacheKey:        key,
		RepoURL:         params.RepoURL,
		Duration:        params.DurationSeconds,
		VoiceSettings:   params.VoiceSettings,
		Files:           files,
		Metadata:        metadata,
		CreatedAt:       now,
		LastAccessed:    now,
		AccessCount:     1,
		RepoContentHash: domain.RepoContentHash(params.RepoURL),
		EstimatedCost:   estimatedCost,
	}

	if err := o.cacheManager.Create(ctx, entry); err != nil {
		return nil, err
	}

	o.logger.InfoWithFields("Podcast generation complete", map[string]interface{}{
		"run_id":    runID,
		"cache_key": string(key),
	})
	return entry, nil
}

func (o *podcastOrchestrator) GenerateOnce(ctx context.Context, params inbound.GeneratePodcastParams) (*domain.GenerationResult, error) {
	out := make(chan domain.ProgressEvent)
	runErr := make(chan error, 1)
	if err := o.workerPool.Submit(func() {
		defer close(out)
		runErr <- o.run(ctx, params, out)
	}); err != nil {
		return nil, err
	}

	var terminal domain.ProgressEvent
	generated := false
	for ev := range out {
		if ev.Status == domain.StatusGenerating || ev.Status == domain.StatusSegmentReady {
			generated = true
		}
		if ev.Terminal() {
			terminal = ev
		}
	}
	if err := <-runErr; err != nil {
		return nil, err
	}
	if terminal.Status != domain.StatusComplete {
		return nil, fmt.Errorf("podcast generation did not complete")
	}

	entry, err := o.cacheManager.Lookup(ctx, terminal.CacheKey)
	if err != nil {
		return nil, err
	}

	estimatedCost := entry.EstimatedCost
	if !generated {
		// No cost for a cached result.
		estimatedCost = 0
	}

	return &domain.GenerationResult{
		Status:        "success",
		CacheKey:      entry.CacheKey,
		Files:         entry.Files,
		Metadata:      entry.Metadata,
		EstimatedCost: estimatedCost,
		FromCache:     !generated,
	}, nil
}

func (o *podcastOrchestrator) artifactRefs(key domain.CacheKey) domain.ArtifactRefs {
	timestamp := time.Now().Format("20060102_150405")
	return domain.ArtifactRefs{
		AudioRef:    o.backend.BuildRef("audio", fmt.Sprintf("podcast_%s_%s.wav", key, timestamp)),
		ScriptRef:   o.backend.BuildRef("scripts", fmt.Sprintf("script_%s_%s.json", key, timestamp)),
		MetadataRef: o.backend.BuildRef("metadata", fmt.Sprintf("metadata_%s_%s.json", key, timestamp)),
	}
}

func (o *podcastOrchestrator) persistScript(ctx context.Context, script *domain.Script, ref string) error {
	data, err := json.MarshalIndent(script.Segments, "", "  ")
	if err != nil {
		return err
	}
	return o.backend.Put(ctx, ref, data, "application/json")
}

func (o *podcastOrchestrator) persistMetadata(ctx context.Context, metadata domain.PodcastMetadata, ref string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return o.backend.Put(ctx, ref, data, "application/json")
}

func errorEvent(key domain.CacheKey, err error) domain.ProgressEvent {
	return domain.ProgressEvent{
		Status:   domain.StatusError,
		CacheKey: key,
		Progress: 0,
		Message:  err.Error(),
	}
}

func completeEvent(key domain.CacheKey, entry *domain.CacheEntry, message string) domain.ProgressEvent {
	files := entry.Files
	return domain.ProgressEvent{
		Status:        domain.StatusComplete,
		CacheKey:      key,
		TotalSegments: entry.Metadata.ScriptLength,
		SegmentIndex:  entry.Metadata.ScriptLength,
		Progress:      1.0,
		Message:       message,
		Files:         &files,
	}
}

func repoNameFromURL(repoURL string) string {
	trimmed := strings.TrimPrefix(repoURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimSuffix(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 && idx < len(trimmed)-1 {
		return trimmed[idx+1:]
	}
	return trimmed
}
