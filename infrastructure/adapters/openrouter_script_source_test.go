package adapters

import (
	"testing"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/config"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/stretchr/testify/require"
)

func newTestScriptSource() *openRouterScriptSource {
	cfg := &config.OpenRouterConfig{Model: "openai/gpt-4o-mini"}
	return NewOpenRouterScriptSource(cfg, NewZerologWrapper()).(*openRouterScriptSource)
}

func testScriptParams() outbound.ProduceScriptParams {
	return outbound.ProduceScriptParams{
		RepoURL:               "https://github.com/gin-gonic/gin",
		RepoName:              "gin",
		TargetDurationSeconds: 300,
		SpeakerNames: map[domain.SpeakerRole]string{
			domain.HostRole:   "Alex",
			domain.ExpertRole: "Jordan",
		},
	}
}

func TestParseScript_Dialogue(t *testing.T) {
	t.Parallel()

	raw := `TITLE: Inside gin
TOPICS: routing, middleware, performance

[00:00] HOST: Welcome to the show.
[00:15] EXPERT: Glad to be here.
[00:42] HOST: Let's dive in.`

	script, err := newTestScriptSource().parseScript(raw, testScriptParams())
	require.NoError(t, err)

	require.Equal(t, "Inside gin", script.EpisodeTitle)
	require.Equal(t, []string{"routing", "middleware", "performance"}, script.KeyTopics)
	require.Len(t, script.Segments, 3)

	require.Equal(t, 0, script.Segments[0].Ordinal)
	require.Equal(t, domain.HostRole, script.Segments[0].Speaker)
	require.Equal(t, "Welcome to the show.", script.Segments[0].Text)
	require.Equal(t, "00:15", script.Segments[1].Timestamp)
	require.Equal(t, domain.ExpertRole, script.Segments[1].Speaker)
	require.Equal(t, 2, script.Segments[2].Ordinal)
}

func TestParseScript_SpeakerNamesResolveToRoles(t *testing.T) {
	t.Parallel()

	raw := `[00:00] Alex: Hello there.
[00:10] Jordan: Hello back.
[00:20] Narrator: Meanwhile.`

	script, err := newTestScriptSource().parseScript(raw, testScriptParams())
	require.NoError(t, err)
	require.Len(t, script.Segments, 3)
	require.Equal(t, domain.HostRole, script.Segments[0].Speaker)
	require.Equal(t, domain.ExpertRole, script.Segments[1].Speaker)
	require.Equal(t, domain.HostRole, script.Segments[2].Speaker)
}

func TestParseScript_RejectsDecreasingTimestamps(t *testing.T) {
	t.Parallel()

	raw := `[01:00] HOST: Later.
[00:30] EXPERT: Earlier.`

	_, err := newTestScriptSource().parseScript(raw, testScriptParams())
	require.Error(t, err)
}

func TestParseScript_RejectsEmptyDialogue(t *testing.T) {
	t.Parallel()

	_, err := newTestScriptSource().parseScript("TITLE: Nothing here\n", testScriptParams())
	require.Error(t, err)
}

func TestParseScript_SkipsUnparseableLines(t *testing.T) {
	t.Parallel()

	raw := `Here is your podcast script:
[00:00] HOST: The only real line.
(laughs)`

	script, err := newTestScriptSource().parseScript(raw, testScriptParams())
	require.NoError(t, err)
	require.Len(t, script.Segments, 1)
}

func TestParseScript_DefaultTitleAndDuration(t *testing.T) {
	t.Parallel()

	script, err := newTestScriptSource().parseScript("[00:00] HOST: Short.", testScriptParams())
	require.NoError(t, err)
	require.Equal(t, "Deep Dive: Understanding gin", script.EpisodeTitle)
	require.Equal(t, "1 minutes", script.EstimatedDuration)
}
