package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
)

type TeamService struct {
	reader SnapshotReader
}

func NewTeamService(reader SnapshotReader) *TeamService {
	return &TeamService{reader: reader}
}

func (s *TeamService) GetByID(ctx context.Context, id int) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetByID", attribute.Int("fpl.team_id", id))
	defer span.End()

	if id <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id must be > 0", ErrInvalidInput)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return team.Team{}, err
	}
	t, ok := b.Team(id)
	if !ok {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, id)
	}
	return t, nil
}

// Search matches fragment against team name and short name.
func (s *TeamService) Search(ctx context.Context, fragment string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Search")
	defer span.End()

	needle := foldName(fragment)
	if needle == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]team.Team, 0)
	for _, t := range b.Teams() {
		if containsFolded(t.Name, needle) || containsFolded(t.ShortName, needle) {
			matches = append(matches, t)
		}
	}
	sortByStrength(matches)
	return matches, nil
}

// List returns every team, strongest first.
func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	b, _, err := s.reader.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	teams := b.Teams()
	sortByStrength(teams)
	return teams, nil
}

func sortByStrength(items []team.Team) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Strength != items[j].Strength {
			return items[i].Strength > items[j].Strength
		}
		return items[i].ID < items[j].ID
	})
}
