package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// CacheKey is the deterministic identifier of a generation request. It is a
// pure function of the repo URL, the target duration and the voice settings.
type CacheKey string

// DeriveCacheKey hashes the canonical form of the request parameters. Voice
// settings are serialized through a map so the fields are always ordered by
// name, which makes the key independent of struct field ordering.
func DeriveCacheKey(repoURL string, durationSeconds int, settings VoiceSettings) CacheKey {
	canonical := map[string]interface{}{
		"repo_url": repoURL,
		"duration": durationSeconds,
		"voice_settings": map[string]interface{}{
			"host_voice_id":     settings.HostVoiceID,
			"expert_voice_id":   settings.ExpertVoiceID,
			"stability":         settings.Stability,
			"similarity_boost":  settings.SimilarityBoost,
			"style":             settings.Style,
			"use_speaker_boost": settings.UseSpeakerBoost,
		},
	}

	// json.Marshal emits map keys in sorted order, so equal logical inputs
	// always produce identical bytes.
	data, err := json.Marshal(canonical)
	if err != nil {
		// Only primitive types above; Marshal cannot fail.
		panic(err)
	}

	sum := md5.Sum(data)
	return CacheKey(hex.EncodeToString(sum[:]))
}

// RepoContentHash fingerprints a repository reference for the current day.
func RepoContentHash(repoURL string) string {
	content := fmt.Sprintf("%s_%s", repoURL, time.Now().Format("20060102"))
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
