package outbound

import (
	"context"

	"github.com/PranavReddyGaddam/GitBridge/domain"
)

type ProduceScriptParams struct {
	RepoURL               string
	RepoName              string
	TargetDurationSeconds int
	SpeakerNames          map[domain.SpeakerRole]string
}

// ScriptSourcePort produces the ordered dialogue for one episode. Timestamps
// are non-decreasing and speaker roles are limited to the configured set.
type ScriptSourcePort interface {
	Produce(ctx context.Context, params ProduceScriptParams) (*domain.Script, error)
}
