package usecase

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-mcp/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
)

func fixtureIDs(items []FixtureView) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Fixture.ID)
	}
	return out
}

func TestFixtureService_ListByGameweek_KickoffOrder(t *testing.T) {
	t.Parallel()

	svc := NewFixtureService(newStaticReader(t))

	got, err := svc.ListByGameweek(t.Context(), 2)
	if err != nil {
		t.Fatalf("list gameweek: %v", err)
	}
	if ids := fixtureIDs(got); !reflect.DeepEqual(ids, []int{202, 201}) {
		t.Fatalf("unexpected fixture order: %v", ids)
	}
	if got[0].Home.ShortName != "BRE" || got[0].Away.ShortName != "CHE" {
		t.Fatalf("unexpected team join: %+v", got[0])
	}

	empty, err := svc.ListByGameweek(t.Context(), 38)
	if err != nil {
		t.Fatalf("list empty gameweek: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no fixtures, got %v", fixtureIDs(empty))
	}

	if _, err := svc.ListByGameweek(t.Context(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFixtureService_ListByTeam(t *testing.T) {
	t.Parallel()

	svc := NewFixtureService(newStaticReader(t))

	got, err := svc.ListByTeam(t.Context(), 2, nil)
	if err != nil {
		t.Fatalf("list team: %v", err)
	}
	// unscheduled fixture sorts last
	if ids := fixtureIDs(got); !reflect.DeepEqual(ids, []int{101, 202, 302}) {
		t.Fatalf("unexpected fixtures: %v", ids)
	}

	got, err = svc.ListByTeam(t.Context(), 2, intPtr(3))
	if err != nil {
		t.Fatalf("list team gameweek: %v", err)
	}
	if ids := fixtureIDs(got); !reflect.DeepEqual(ids, []int{302}) {
		t.Fatalf("unexpected gameweek fixtures: %v", ids)
	}

	if _, err := svc.ListByTeam(t.Context(), 99, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtureService_Upcoming_DifficultyFromTeamSide(t *testing.T) {
	t.Parallel()

	svc := NewFixtureService(newStaticReader(t))

	got, err := svc.Upcoming(t.Context(), 1, 5)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 unfinished fixtures, got %d", len(got))
	}

	away := got[0]
	if away.Fixture.ID != 201 || away.IsHome || away.Opponent.ID != 4 || away.Difficulty != 3 {
		t.Fatalf("unexpected away fixture: %+v", away)
	}
	home := got[1]
	if home.Fixture.ID != 301 || !home.IsHome || home.Opponent.ID != 3 || home.Difficulty != 4 {
		t.Fatalf("unexpected home fixture: %+v", home)
	}

	limited, err := svc.Upcoming(t.Context(), 1, 1)
	if err != nil {
		t.Fatalf("upcoming limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Fixture.ID != 201 {
		t.Fatalf("expected only the next fixture, got %+v", limited)
	}

	if _, err := svc.Upcoming(t.Context(), 1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Upcoming(t.Context(), 99, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtureService_NextGameweeks(t *testing.T) {
	t.Parallel()

	svc := NewFixtureService(newStaticReader(t))

	got, err := svc.NextGameweeks(t.Context(), 5)
	if err != nil {
		t.Fatalf("next gameweeks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the 2 remaining gameweeks, got %d", len(got))
	}
	if got[0].Gameweek.ID != 2 || got[1].Gameweek.ID != 3 {
		t.Fatalf("unexpected gameweeks: %d, %d", got[0].Gameweek.ID, got[1].Gameweek.ID)
	}
	if ids := fixtureIDs(got[1].Fixtures); !reflect.DeepEqual(ids, []int{301, 302}) {
		t.Fatalf("unexpected gameweek 3 fixtures: %v", ids)
	}

	one, err := svc.NextGameweeks(t.Context(), 1)
	if err != nil {
		t.Fatalf("next gameweek: %v", err)
	}
	if len(one) != 1 || one[0].Gameweek.ID != 2 {
		t.Fatalf("expected only gameweek 2, got %+v", one)
	}
}

func TestFixtureService_NextGameweeks_SeasonOver(t *testing.T) {
	t.Parallel()

	b, err := snapshot.NewBootstrap(testPlayers(), testTeams(), []gameweek.Gameweek{
		{ID: 1, Deadline: seasonStart, Finished: true},
		{ID: 2, Deadline: seasonStart.Add(7 * 24 * time.Hour), IsCurrent: true},
	})
	if err != nil {
		t.Fatalf("build bootstrap: %v", err)
	}
	fixtures, err := snapshot.NewFixtures(nil, b)
	if err != nil {
		t.Fatalf("build fixtures: %v", err)
	}
	svc := NewFixtureService(&staticReader{bootstrap: b, fixtures: fixtures})

	got, err := svc.NextGameweeks(t.Context(), 3)
	if err != nil {
		t.Fatalf("next gameweeks: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no gameweeks after the last one, got %d", len(got))
	}
}
