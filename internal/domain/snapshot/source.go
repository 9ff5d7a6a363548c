package snapshot

import (
	"context"

	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/squad"
)

// Source describes the upstream reads the refresh path depends on.
type Source interface {
	FetchBootstrap(ctx context.Context) (*Bootstrap, error)
	FetchFixtures(ctx context.Context, gameweek *int) ([]fixture.Fixture, error)
	FetchManagerPicks(ctx context.Context, managerID, gameweek int) (squad.Squad, error)
	FetchMyTeam(ctx context.Context, managerID int) (squad.Squad, error)
	FetchMe(ctx context.Context) (int, error)
	HasToken() bool
}
