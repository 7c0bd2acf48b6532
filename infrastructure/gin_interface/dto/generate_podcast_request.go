package dto

import "github.com/PranavReddyGaddam/GitBridge/domain"

const defaultDurationSeconds = 300

type VoiceSettings struct {
	HostVoiceID     string   `json:"host_voice_id"`
	ExpertVoiceID   string   `json:"expert_voice_id"`
	Stability       *float64 `json:"stability"`
	SimilarityBoost *float64 `json:"similarity_boost"`
	Style           *float64 `json:"style"`
	UseSpeakerBoost *bool    `json:"use_speaker_boost"`
}

type GeneratePodcastRequest struct {
	RepoURL       string         `json:"repo_url" binding:"required"`
	Duration      int            `json:"duration"`
	VoiceSettings *VoiceSettings `json:"voice_settings"`
}

// DurationSeconds falls back to the default episode length.
func (r *GeneratePodcastRequest) DurationSeconds() int {
	if r.Duration <= 0 {
		return defaultDurationSeconds
	}
	return r.Duration
}

// DomainVoiceSettings merges the request on top of the defaults, so partial
// settings still derive a stable cache key.
func (r *GeneratePodcastRequest) DomainVoiceSettings() domain.VoiceSettings {
	settings := domain.DefaultVoiceSettings()
	if r.VoiceSettings == nil {
		return settings
	}
	if r.VoiceSettings.HostVoiceID != "" {
		settings.HostVoiceID = r.VoiceSettings.HostVoiceID
	}
	if r.VoiceSettings.ExpertVoiceID != "" {
		settings.ExpertVoiceID = r.VoiceSettings.ExpertVoiceID
	}
	if r.VoiceSettings.Stability != nil {
		settings.Stability = *r.VoiceSettings.Stability
	}
	if r.VoiceSettings.SimilarityBoost != nil {
		settings.SimilarityBoost = *r.VoiceSettings.SimilarityBoost
	}
	if r.VoiceSettings.Style != nil {
		settings.Style = *r.VoiceSettings.Style
	}
	if r.VoiceSettings.UseSpeakerBoost != nil {
		settings.UseSpeakerBoost = *r.VoiceSettings.UseSpeakerBoost
	}
	return settings
}
