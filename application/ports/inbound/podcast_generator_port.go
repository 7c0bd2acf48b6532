package inbound

import (
	"context"

	"github.com/PranavReddyGaddam/GitBridge/domain"
)

type GeneratePodcastParams struct {
	RepoURL         string
	DurationSeconds int
	VoiceSettings   domain.VoiceSettings
}

// PodcastGeneratorPort drives the cache-checked generation pipeline.
type PodcastGeneratorPort interface {
	// GenerateStream returns a finite event sequence ending in exactly one
	// terminal event. The channel is closed after the terminal event; the
	// stream is not restartable. Cancellation is observed between sends, not
	// inside an in-flight collaborator call.
	GenerateStream(ctx context.Context, params GeneratePodcastParams) (<-chan domain.ProgressEvent, error)

	// GenerateOnce drains the stream internally and returns only the terminal
	// result, with the derived cost estimate.
	GenerateOnce(ctx context.Context, params GeneratePodcastParams) (*domain.GenerationResult, error)
}
