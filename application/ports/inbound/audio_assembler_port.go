package inbound

import (
	"context"

	"github.com/PranavReddyGaddam/GitBridge/domain"
)

// AudioAssemblerPort turns synthesized speech into persisted episode audio.
type AudioAssemblerPort interface {
	// AssembleSegment appends the role-dependent trailing pause to one
	// synthesized clip and persists it under the (cache key, ordinal)
	// namespace.
	AssembleSegment(ctx context.Context, key domain.CacheKey, segment domain.ScriptSegment, pcm []byte) (*domain.AudioSegment, error)

	// AssembleFinal concatenates the segments in ordinal order, applies the
	// fade envelope and the tonal intro/outro, and persists the episode at
	// audioRef. Returns the final duration in milliseconds.
	AssembleFinal(ctx context.Context, key domain.CacheKey, segments []domain.AudioSegment, audioRef string) (int, error)

	// SegmentRef addresses one persisted per-segment artifact.
	SegmentRef(key domain.CacheKey, ordinal int) string
}
