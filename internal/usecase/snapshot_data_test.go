package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
)

var seasonStart = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func testTeams() []team.Team {
	return []team.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS", Strength: 5},
		{ID: 2, Name: "Brentford", ShortName: "BRE", Strength: 3},
		{ID: 3, Name: "Chelsea", ShortName: "CHE", Strength: 4},
		{ID: 4, Name: "Nottingham Forest", ShortName: "NFO", Strength: 3},
	}
}

func testPlayers() []player.Player {
	return []player.Player{
		{ID: 1, WebName: "Raya", TeamID: 1, Position: player.PositionGoalkeeper, Price: 55, TotalPoints: 90, Form: 4.0, PointsPerGame: 4.1, SelectedByPercent: 30.0, Minutes: 1800, Status: player.StatusAvailable},
		{ID: 2, WebName: "Saka", FirstName: "Bukayo", SecondName: "Saka", TeamID: 1, Position: player.PositionMidfielder, Price: 100, TotalPoints: 150, Form: 7.2, PointsPerGame: 6.0, SelectedByPercent: 45.3, Minutes: 2100, ExpectedGoals: 9.1, Status: player.StatusAvailable},
		{ID: 3, WebName: "Ødegaard", FirstName: "Martin", SecondName: "Ødegaard", TeamID: 1, Position: player.PositionMidfielder, Price: 85, TotalPoints: 110, Form: 5.5, PointsPerGame: 5.0, SelectedByPercent: 9.5, Minutes: 1700, Status: player.StatusDoubtful},
		{ID: 4, WebName: "Mbeumo", TeamID: 2, Position: player.PositionForward, Price: 80, TotalPoints: 120, Form: 6.0, PointsPerGame: 5.1, SelectedByPercent: 8.1, Minutes: 1900, ExpectedGoals: 10.2, Status: player.StatusAvailable},
		{ID: 5, WebName: "Wissa", TeamID: 2, Position: player.PositionForward, Price: 65, TotalPoints: 120, Form: 6.0, PointsPerGame: 4.8, SelectedByPercent: 3.2, Minutes: 1600, Status: player.StatusInjured},
		{ID: 6, WebName: "Palmer", TeamID: 3, Position: player.PositionMidfielder, Price: 105, TotalPoints: 160, Form: 8.1, PointsPerGame: 6.4, SelectedByPercent: 60.0, Minutes: 2200, Status: player.StatusAvailable},
		{ID: 7, WebName: "Jackson", TeamID: 3, Position: player.PositionForward, Price: 78, TotalPoints: 95, Form: 5.2, PointsPerGame: 4.2, SelectedByPercent: 6.0, Minutes: 1500, Status: player.StatusSuspended},
		{ID: 8, WebName: "Wood", TeamID: 4, Position: player.PositionForward, Price: 70, TotalPoints: 100, Form: 6.5, PointsPerGame: 4.9, SelectedByPercent: 12.0, Minutes: 1800, Status: player.StatusAvailable},
		{ID: 9, WebName: "Benchwarmer", TeamID: 4, Position: player.PositionDefender, Price: 40, TotalPoints: 0, Minutes: 0, Status: player.StatusAvailable},
		{ID: 10, WebName: "Freebie", TeamID: 4, Position: player.PositionDefender, Price: 0, TotalPoints: 5, Minutes: 90, Form: 1.0, Status: player.StatusAvailable},
	}
}

func testGameweeks() []gameweek.Gameweek {
	return []gameweek.Gameweek{
		{ID: 1, Deadline: seasonStart, IsCurrent: true},
		{ID: 2, Deadline: seasonStart.Add(7 * 24 * time.Hour), IsNext: true},
		{ID: 3, Deadline: seasonStart.Add(14 * 24 * time.Hour)},
	}
}

func testFixtures() []fixture.Fixture {
	at := func(days, hours int) *time.Time {
		ts := seasonStart.Add(time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour)
		return &ts
	}
	return []fixture.Fixture{
		{ID: 101, Gameweek: intPtr(1), HomeTeamID: 1, AwayTeamID: 2, KickoffAt: at(1, 4), Finished: true, HomeDifficulty: 2, AwayDifficulty: 4},
		{ID: 102, Gameweek: intPtr(1), HomeTeamID: 3, AwayTeamID: 4, KickoffAt: at(1, 4), Finished: true, HomeDifficulty: 2, AwayDifficulty: 3},
		{ID: 201, Gameweek: intPtr(2), HomeTeamID: 4, AwayTeamID: 1, KickoffAt: at(8, 6), HomeDifficulty: 5, AwayDifficulty: 3},
		{ID: 202, Gameweek: intPtr(2), HomeTeamID: 2, AwayTeamID: 3, KickoffAt: at(8, 2), HomeDifficulty: 4, AwayDifficulty: 2},
		{ID: 301, Gameweek: intPtr(3), HomeTeamID: 1, AwayTeamID: 3, KickoffAt: at(15, 4), HomeDifficulty: 4, AwayDifficulty: 5},
		{ID: 302, Gameweek: intPtr(3), HomeTeamID: 2, AwayTeamID: 4},
	}
}

func newTestBootstrap(t *testing.T) *snapshot.Bootstrap {
	t.Helper()
	b, err := snapshot.NewBootstrap(testPlayers(), testTeams(), testGameweeks())
	if err != nil {
		t.Fatalf("build bootstrap: %v", err)
	}
	return b
}

func newTestFixtures(t *testing.T, b *snapshot.Bootstrap) *snapshot.Fixtures {
	t.Helper()
	f, err := snapshot.NewFixtures(testFixtures(), b)
	if err != nil {
		t.Fatalf("build fixtures: %v", err)
	}
	return f
}

// staticReader serves one fixed generation.
type staticReader struct {
	bootstrap *snapshot.Bootstrap
	fixtures  *snapshot.Fixtures
	err       error
}

func newStaticReader(t *testing.T) *staticReader {
	t.Helper()
	b := newTestBootstrap(t)
	return &staticReader{bootstrap: b, fixtures: newTestFixtures(t, b)}
}

func (r *staticReader) Bootstrap(context.Context) (*snapshot.Bootstrap, Freshness, error) {
	if r.err != nil {
		return nil, Freshness{}, r.err
	}
	return r.bootstrap, Freshness{}, nil
}

func (r *staticReader) Fixtures(context.Context) (*snapshot.Fixtures, Freshness, error) {
	if r.err != nil {
		return nil, Freshness{}, r.err
	}
	return r.fixtures, Freshness{}, nil
}

func playerIDs(items []PlayerView) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Player.ID)
	}
	return out
}
