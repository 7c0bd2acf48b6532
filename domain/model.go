package domain

import "time"

type SpeakerRole string

const (
	HostRole   SpeakerRole = "HOST"
	ExpertRole SpeakerRole = "EXPERT"
)

const (
	DefaultHostVoiceID   = "zGjIP4SZlMnY9m93k97r"
	DefaultExpertVoiceID = "L0Dsvb3SLTyegXwtm47J"
)

type VoiceSettings struct {
	HostVoiceID     string  `json:"host_voice_id"`
	ExpertVoiceID   string  `json:"expert_voice_id"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		HostVoiceID:     DefaultHostVoiceID,
		ExpertVoiceID:   DefaultExpertVoiceID,
		Stability:       0.75,
		SimilarityBoost: 0.75,
		Style:           0.5,
		UseSpeakerBoost: true,
	}
}

// VoiceFor resolves the voice for a speaker role, falling back to the host
// voice for unmapped roles.
func (v VoiceSettings) VoiceFor(role SpeakerRole) string {
	switch role {
	case HostRole:
		return v.HostVoiceID
	case ExpertRole:
		return v.ExpertVoiceID
	default:
		return v.HostVoiceID
	}
}

// ScriptSegment is one line of dialogue. Ordinals are strictly increasing
// within a script, timestamps are non-decreasing.
type ScriptSegment struct {
	Ordinal   int         `json:"ordinal"`
	Timestamp string      `json:"timestamp"`
	Speaker   SpeakerRole `json:"speaker"`
	Text      string      `json:"text"`
}

// Script is the ordered dialogue produced by the script source, together with
// the episode-level facts extracted alongside it.
type Script struct {
	Segments          []ScriptSegment
	RepoName          string
	EpisodeTitle      string
	EstimatedDuration string
	KeyTopics         []string
}

func (s *Script) TotalCharacters() int {
	total := 0
	for _, seg := range s.Segments {
		total += len(seg.Text)
	}
	return total
}

// AudioSegment is the synthesized counterpart of one ScriptSegment, including
// its trailing pause. PCM carries the raw samples between pipeline stages and
// is never serialized.
type AudioSegment struct {
	Ordinal    int    `json:"ordinal"`
	Ref        string `json:"ref"`
	DurationMs int    `json:"duration_ms"`
	PCM        []byte `json:"-"`
}

// ArtifactRefs locates the three persisted artifacts of one generation. Each
// ref is opaque beyond its scheme tag: a local path or an s3://bucket/key URI.
type ArtifactRefs struct {
	AudioRef    string `json:"audio_file_path"`
	ScriptRef   string `json:"script_file_path"`
	MetadataRef string `json:"metadata_file_path"`
}

type PodcastMetadata struct {
	RepoName          string    `json:"repo_name"`
	EpisodeTitle      string    `json:"episode_title"`
	EstimatedDuration string    `json:"estimated_duration"`
	KeyTopics         []string  `json:"key_topics"`
	GeneratedAt       time.Time `json:"generated_at"`
	ScriptLength      int       `json:"script_length"`
	ActualCost        float64   `json:"actual_cost"`
}

// CacheEntry is the persisted record of a completed generation. It is written
// exactly once, after the run fully succeeds; afterwards only the access
// fields change until eviction removes it together with its artifacts.
type CacheEntry struct {
	CacheKey        CacheKey        `json:"cache_key"`
	RepoURL         string          `json:"repo_url"`
	Duration        int             `json:"duration"`
	VoiceSettings   VoiceSettings   `json:"voice_settings"`
	Files           ArtifactRefs    `json:"files"`
	Metadata        PodcastMetadata `json:"metadata"`
	CreatedAt       time.Time       `json:"created_at"`
	LastAccessed    time.Time       `json:"last_accessed"`
	AccessCount     int             `json:"access_count"`
	RepoContentHash string          `json:"repo_content_hash"`
	EstimatedCost   float64         `json:"estimated_cost"`
}

// GenerationResult is the terminal outcome of a non-streaming generation.
type GenerationResult struct {
	Status        string          `json:"status"`
	CacheKey      CacheKey        `json:"cache_key"`
	Files         ArtifactRefs    `json:"files"`
	Metadata      PodcastMetadata `json:"metadata"`
	EstimatedCost float64         `json:"estimated_cost"`
	FromCache     bool            `json:"from_cache"`
}
