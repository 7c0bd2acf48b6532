package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveCacheKey_Deterministic(t *testing.T) {
	t.Parallel()

	settings := DefaultVoiceSettings()
	first := DeriveCacheKey("https://github.com/gin-gonic/gin", 300, settings)
	second := DeriveCacheKey("https://github.com/gin-gonic/gin", 300, settings)

	require.Equal(t, first, second)
	require.Len(t, string(first), 32)
}

func TestDeriveCacheKey_SensitiveToEveryParameter(t *testing.T) {
	t.Parallel()

	settings := DefaultVoiceSettings()
	base := DeriveCacheKey("https://github.com/gin-gonic/gin", 300, settings)

	require.NotEqual(t, base, DeriveCacheKey("https://github.com/rs/zerolog", 300, settings))
	require.NotEqual(t, base, DeriveCacheKey("https://github.com/gin-gonic/gin", 600, settings))

	changed := settings
	changed.Stability = 0.9
	require.NotEqual(t, base, DeriveCacheKey("https://github.com/gin-gonic/gin", 300, changed))

	changed = settings
	changed.HostVoiceID = "other-voice"
	require.NotEqual(t, base, DeriveCacheKey("https://github.com/gin-gonic/gin", 300, changed))
}

func TestVoiceFor_FallsBackToHost(t *testing.T) {
	t.Parallel()

	settings := DefaultVoiceSettings()
	require.Equal(t, settings.HostVoiceID, settings.VoiceFor(HostRole))
	require.Equal(t, settings.ExpertVoiceID, settings.VoiceFor(ExpertRole))
	require.Equal(t, settings.HostVoiceID, settings.VoiceFor(SpeakerRole("NARRATOR")))
}

func TestRepoContentHash_StableWithinDay(t *testing.T) {
	t.Parallel()

	first := RepoContentHash("https://github.com/gin-gonic/gin")
	second := RepoContentHash("https://github.com/gin-gonic/gin")
	require.Equal(t, first, second)
	require.Len(t, first, 32)
}

func TestProgressEvent_Terminal(t *testing.T) {
	t.Parallel()

	require.False(t, ProgressEvent{Status: StatusGenerating}.Terminal())
	require.False(t, ProgressEvent{Status: StatusSegmentReady}.Terminal())
	require.True(t, ProgressEvent{Status: StatusComplete}.Terminal())
	require.True(t, ProgressEvent{Status: StatusError}.Terminal())
}
