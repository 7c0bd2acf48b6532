package mock_collaborators

import (
	"context"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/audio"
)

const (
	synthesisDelay = 100 * time.Millisecond

	// Each character of text becomes this much audio, roughly matching a
	// conversational speaking rate.
	msPerCharacter = 60

	voiceFreq   = 220.0
	voiceGainDB = -24.0
)

type SpeechSynthesizer struct {
	logger outbound.LoggerPort
}

func NewSpeechSynthesizer(logger outbound.LoggerPort) *SpeechSynthesizer {
	return &SpeechSynthesizer{logger: logger}
}

// Synthesize returns a low tone sized to the text so downstream assembly and
// playback behave like the real provider.
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, params outbound.SynthesizeSpeechParams) ([]byte, error) {
	select {
	case <-time.After(synthesisDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	duration := time.Duration(len(params.Text)*msPerCharacter) * time.Millisecond
	pcm := audio.Tone(voiceFreq, duration, audio.SampleRate, voiceGainDB)

	s.logger.DebugWithFields("Synthesized mock audio", map[string]interface{}{
		"voice_id":    params.VoiceID,
		"characters":  len(params.Text),
		"duration_ms": audio.DurationMs(pcm, audio.SampleRate),
	})
	return pcm, nil
}
