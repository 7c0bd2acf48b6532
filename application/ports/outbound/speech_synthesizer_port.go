package outbound

import (
	"context"

	"github.com/PranavReddyGaddam/GitBridge/domain"
)

type SynthesizeSpeechParams struct {
	Text     string
	VoiceID  string
	Settings domain.VoiceSettings
}

// SpeechSynthesizerPort converts one segment of text into raw 16-bit mono PCM
// at audio.SampleRate. Failures are classified as *domain.SynthesisError.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, params SynthesizeSpeechParams) ([]byte, error)
}
