package mock_collaborators

import (
	"context"
	"fmt"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
)

// scriptDelay simulates the latency of a streamed completion.
const scriptDelay = 200 * time.Millisecond

var cannedLines = []struct {
	speaker domain.SpeakerRole
	text    string
}{
	{domain.HostRole, "Welcome back to the show. Today we are digging into %s."},
	{domain.ExpertRole, "Thanks for having me. This repository has a genuinely interesting architecture."},
	{domain.HostRole, "Let's start at the top. What does the project actually do?"},
	{domain.ExpertRole, "At its core it turns a repository into a narrated walkthrough, piece by piece."},
	{domain.HostRole, "And how does it hold up under load?"},
	{domain.ExpertRole, "Surprisingly well. Results are cached aggressively, so repeat requests are nearly free."},
	{domain.HostRole, "That is a great note to end on. Thanks for walking us through it."},
	{domain.ExpertRole, "My pleasure. Go read the source, it rewards the effort."},
}

type ScriptSource struct {
	logger outbound.LoggerPort
}

func NewScriptSource(logger outbound.LoggerPort) *ScriptSource {
	return &ScriptSource{logger: logger}
}

func (s *ScriptSource) Produce(ctx context.Context, params outbound.ProduceScriptParams) (*domain.Script, error) {
	select {
	case <-time.After(scriptDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	segments := make([]domain.ScriptSegment, 0, len(cannedLines))
	for i, line := range cannedLines {
		text := line.text
		if i == 0 {
			text = fmt.Sprintf(line.text, params.RepoName)
		}
		segments = append(segments, domain.ScriptSegment{
			Ordinal:   i,
			Timestamp: fmt.Sprintf("%02d:%02d", i/2, (i%2)*30),
			Speaker:   line.speaker,
			Text:      text,
		})
	}

	s.logger.InfoWithFields("Produced mock script", map[string]interface{}{
		"repo_name": params.RepoName,
		"segments":  len(segments),
	})

	return &domain.Script{
		Segments:          segments,
		RepoName:          params.RepoName,
		EpisodeTitle:      fmt.Sprintf("Inside %s", params.RepoName),
		EstimatedDuration: fmt.Sprintf("%d minutes", params.TargetDurationSeconds/60),
		KeyTopics:         []string{"architecture", "caching", "performance"},
	}, nil
}
