package training

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// PolicyUpdater adjusts the agent configuration after each episode. The
// trainer records rewards regardless of the updater; plugging in a real
// optimizer only requires implementing this interface.
type PolicyUpdater interface {
	// Update receives the current configuration and the finished episode
	// and returns the configuration to use for the next one.
	Update(ctx context.Context, cfg domain.AgentConfig, episode domain.EpisodeRecord) (domain.AgentConfig, error)
}

// IdentityPolicy is the default updater: it leaves the configuration
// untouched, so training is pure measurement.
type IdentityPolicy struct{}

func (IdentityPolicy) Update(_ context.Context, cfg domain.AgentConfig, _ domain.EpisodeRecord) (domain.AgentConfig, error) {
	return cfg, nil
}
