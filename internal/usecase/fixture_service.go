package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
)

// FixtureView is a fixture joined with both teams.
type FixtureView struct {
	Fixture fixture.Fixture
	Home    team.Team
	Away    team.Team
}

// UpcomingFixture is a fixture seen from one team's side.
type UpcomingFixture struct {
	Fixture    fixture.Fixture
	Opponent   team.Team
	IsHome     bool
	Difficulty int
}

type GameweekView struct {
	Gameweek gameweek.Gameweek
	Fixtures []FixtureView
}

type FixtureService struct {
	reader SnapshotReader
}

func NewFixtureService(reader SnapshotReader) *FixtureService {
	return &FixtureService{reader: reader}
}

// ListByGameweek returns the gameweek's fixtures in kickoff order.
func (s *FixtureService) ListByGameweek(ctx context.Context, gw int) ([]FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByGameweek", attribute.Int("fpl.gameweek", gw))
	defer span.End()

	if gw <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}
	fixtures, _, err := s.reader.Fixtures(ctx)
	if err != nil {
		return nil, err
	}
	items := fixtures.Where(func(f fixture.Fixture) bool { return f.InGameweek(gw) })
	return fixtureViews(fixtures.Bootstrap(), items), nil
}

// ListByTeam returns fixtures the team plays in, optionally for one gameweek.
func (s *FixtureService) ListByTeam(ctx context.Context, teamID int, gw *int) ([]FixtureView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByTeam")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}
	if gw != nil && *gw <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}
	fixtures, _, err := s.reader.Fixtures(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := fixtures.Bootstrap().Team(teamID); !ok {
		return nil, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}

	items := fixtures.Where(func(f fixture.Fixture) bool {
		if !f.Involves(teamID) {
			return false
		}
		return gw == nil || f.InGameweek(*gw)
	})
	return fixtureViews(fixtures.Bootstrap(), items), nil
}

// Upcoming returns the team's next n unfinished fixtures with the difficulty
// rating from the team's own side.
func (s *FixtureService) Upcoming(ctx context.Context, teamID, n int) ([]UpcomingFixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Upcoming")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be > 0", ErrInvalidInput)
	}
	fixtures, _, err := s.reader.Fixtures(ctx)
	if err != nil {
		return nil, err
	}
	b := fixtures.Bootstrap()
	if _, ok := b.Team(teamID); !ok {
		return nil, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}

	items := fixtures.Where(func(f fixture.Fixture) bool { return f.Involves(teamID) && !f.Finished })
	if len(items) > n {
		items = items[:n]
	}

	out := make([]UpcomingFixture, 0, len(items))
	for _, f := range items {
		difficulty, home := f.DifficultyFor(teamID)
		opponent, _ := b.Team(f.OpponentOf(teamID))
		out = append(out, UpcomingFixture{
			Fixture:    f,
			Opponent:   opponent,
			IsHome:     home,
			Difficulty: difficulty,
		})
	}
	return out, nil
}

// NextGameweeks returns up to n gameweeks starting at the next one, each with
// its fixtures. Fewer are returned near the end of the season.
func (s *FixtureService) NextGameweeks(ctx context.Context, n int) ([]GameweekView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.NextGameweeks")
	defer span.End()

	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be > 0", ErrInvalidInput)
	}
	fixtures, _, err := s.reader.Fixtures(ctx)
	if err != nil {
		return nil, err
	}
	b := fixtures.Bootstrap()

	next, ok := b.NextGameweek()
	if !ok {
		return []GameweekView{}, nil
	}

	out := make([]GameweekView, 0, n)
	for _, gw := range b.Gameweeks() {
		if gw.ID < next.ID {
			continue
		}
		if len(out) == n {
			break
		}
		id := gw.ID
		items := fixtures.Where(func(f fixture.Fixture) bool { return f.InGameweek(id) })
		out = append(out, GameweekView{Gameweek: gw, Fixtures: fixtureViews(b, items)})
	}
	return out, nil
}

func fixtureViews(b *snapshot.Bootstrap, items []fixture.Fixture) []FixtureView {
	out := make([]FixtureView, 0, len(items))
	for _, f := range items {
		home, _ := b.Team(f.HomeTeamID)
		away, _ := b.Team(f.AwayTeamID)
		out = append(out, FixtureView{Fixture: f, Home: home, Away: away})
	}
	return out
}
