package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/inbound"
	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/audio"
	"github.com/PranavReddyGaddam/GitBridge/domain"
)

const (
	hostPause    = 750 * time.Millisecond
	defaultPause = 500 * time.Millisecond

	fadeDuration  = time.Second
	introDuration = 2 * time.Second
	outroDuration = 2 * time.Second
	introFreq     = 440.0
	outroFreq     = 330.0
	toneGainDB    = -20.0
)

type audioAssembler struct {
	logger  outbound.LoggerPort
	backend outbound.StorageBackendPort
}

// NewAudioAssembler paces synthesized clips and stitches them into the final
// episode.
func NewAudioAssembler(logger outbound.LoggerPort, backend outbound.StorageBackendPort) inbound.AudioAssemblerPort {
	return &audioAssembler{
		logger:  logger,
		backend: backend,
	}
}

func (a *audioAssembler) SegmentRef(key domain.CacheKey, ordinal int) string {
	return a.backend.BuildRef("segments", string(key), fmt.Sprintf("segment_%03d.wav", ordinal))
}

func (a *audioAssembler) AssembleSegment(ctx context.Context, key domain.CacheKey, segment domain.ScriptSegment, pcm []byte) (*domain.AudioSegment, error) {
	// Hosts get a slightly longer pause for natural pacing.
	pause := defaultPause
	if segment.Speaker == domain.HostRole {
		pause = hostPause
	}
	paced := audio.Concat(pcm, audio.Silence(pause, audio.SampleRate))

	ref := a.SegmentRef(key, segment.Ordinal)
	if err := a.backend.Put(ctx, ref, audio.EncodeWAV(paced, audio.SampleRate), "audio/wav"); err != nil {
		return nil, err
	}

	a.logger.DebugWithFields("Segment audio persisted", map[string]interface{}{
		"cache_key": string(key),
		"ordinal":   segment.Ordinal,
		"ref":       ref,
	})

	return &domain.AudioSegment{
		Ordinal:    segment.Ordinal,
		Ref:        ref,
		DurationMs: audio.DurationMs(paced, audio.SampleRate),
		PCM:        paced,
	}, nil
}

func (a *audioAssembler) AssembleFinal(ctx context.Context, key domain.CacheKey, segments []domain.AudioSegment, audioRef string) (int, error) {
	ordered := make([]domain.AudioSegment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Ordinal < ordered[j].Ordinal })

	clips := make([][]byte, 0, len(ordered))
	for _, seg := range ordered {
		pcm := seg.PCM
		if pcm == nil {
			data, err := a.backend.Get(ctx, seg.Ref)
			if err != nil {
				return 0, err
			}
			pcm, _, err = audio.DecodeWAV(data)
			if err != nil {
				return 0, err
			}
		}
		clips = append(clips, pcm)
	}

	body := audio.Concat(clips...)
	audio.FadeIn(body, fadeDuration, audio.SampleRate)
	audio.FadeOut(body, fadeDuration, audio.SampleRate)

	intro := audio.Tone(introFreq, introDuration, audio.SampleRate, toneGainDB)
	outro := audio.Tone(outroFreq, outroDuration, audio.SampleRate, toneGainDB)
	final := audio.Concat(intro, body, outro)

	if err := a.backend.Put(ctx, audioRef, audio.EncodeWAV(final, audio.SampleRate), "audio/wav"); err != nil {
		return 0, err
	}

	return audio.DurationMs(final, audio.SampleRate), nil
}
