package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/config"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// pcmOutputFormat keeps the provider response aligned with audio.SampleRate.
const pcmOutputFormat = "pcm_22050"

type elevenLabsRequest struct {
	Text          string             `json:"text"`
	ModelId       string             `json:"model_id"`
	VoiceSettings elevenLabsSettings `json:"voice_settings"`
}

type elevenLabsSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type elevenLabsSynthesizer struct {
	ContentFetcher
	elevenLabsConfig *config.ElevenLabsConfig
	limiter          *rate.Limiter
}

// NewElevenLabsSynthesizer synthesizes speech through the ElevenLabs API,
// pacing requests with a process-wide limiter.
func NewElevenLabsSynthesizer(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig) outbound.SpeechSynthesizerPort {
	return &elevenLabsSynthesizer{
		ContentFetcher:   contentFetcher,
		elevenLabsConfig: elevenLabsConfig,
		limiter:          rate.NewLimiter(rate.Limit(elevenLabsConfig.RequestsPerSecond), 1),
	}
}

func (a *elevenLabsSynthesizer) Synthesize(ctx context.Context, params outbound.SynthesizeSpeechParams) ([]byte, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, &domain.SynthesisError{Kind: domain.SynthesisTimedOut, Err: err}
	}

	req, err := a.getRequest(ctx, params)
	if err != nil {
		log.Error().Err(err).Str("voice_id", params.VoiceID).Msg("Failed to construct the TTS request")
		return nil, &domain.SynthesisError{Kind: domain.SynthesisProvider, Err: err}
	}

	payload, err := a.FetchContent(req)
	if err != nil {
		return nil, classifySynthesisError(err)
	}
	return payload, nil
}

func (a *elevenLabsSynthesizer) getRequest(ctx context.Context, params outbound.SynthesizeSpeechParams) (*http.Request, error) {
	reqBody := elevenLabsRequest{
		Text:    params.Text,
		ModelId: a.elevenLabsConfig.ModelId,
		VoiceSettings: elevenLabsSettings{
			Stability:       params.Settings.Stability,
			SimilarityBoost: params.Settings.SimilarityBoost,
			Style:           params.Settings.Style,
			UseSpeakerBoost: params.Settings.UseSpeakerBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", a.elevenLabsConfig.ApiUrl, params.VoiceID, pcmOutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", a.elevenLabsConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func classifySynthesisError(err error) error {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests:
			return &domain.SynthesisError{Kind: domain.SynthesisRateLimited, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &domain.SynthesisError{Kind: domain.SynthesisAuthFailed, Err: err}
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return &domain.SynthesisError{Kind: domain.SynthesisTimedOut, Err: err}
		}
		return &domain.SynthesisError{Kind: domain.SynthesisProvider, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.SynthesisError{Kind: domain.SynthesisTimedOut, Err: err}
	}
	return &domain.SynthesisError{Kind: domain.SynthesisProvider, Err: err}
}
