package fixture

import (
	"fmt"
	"time"
)

// Fixture represents one scheduled match. Gameweek is nil while unscheduled
// and KickoffAt is nil until a kickoff time is confirmed.
type Fixture struct {
	ID             int
	Gameweek       *int
	HomeTeamID     int
	AwayTeamID     int
	KickoffAt      *time.Time
	Started        bool
	Finished       bool
	HomeScore      *int
	AwayScore      *int
	HomeDifficulty int
	AwayDifficulty int
}

func (f Fixture) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("fixture id must be > 0")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return fmt.Errorf("fixture %d team ids must be > 0", f.ID)
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture %d home and away team are the same", f.ID)
	}

	return nil
}

func (f Fixture) InGameweek(gameweek int) bool {
	return f.Gameweek != nil && *f.Gameweek == gameweek
}

func (f Fixture) Involves(teamID int) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// DifficultyFor returns the difficulty rating from teamID's side of the
// fixture and whether that side is home.
func (f Fixture) DifficultyFor(teamID int) (difficulty int, home bool) {
	if f.HomeTeamID == teamID {
		return f.HomeDifficulty, true
	}
	return f.AwayDifficulty, false
}

// OpponentOf returns the other team's id.
func (f Fixture) OpponentOf(teamID int) int {
	if f.HomeTeamID == teamID {
		return f.AwayTeamID
	}
	return f.HomeTeamID
}

// Before orders fixtures by kickoff, then home team id, then fixture id.
// Fixtures without a kickoff time sort last.
func Before(a, b Fixture) bool {
	switch {
	case a.KickoffAt == nil && b.KickoffAt != nil:
		return false
	case a.KickoffAt != nil && b.KickoffAt == nil:
		return true
	case a.KickoffAt != nil && b.KickoffAt != nil && !a.KickoffAt.Equal(*b.KickoffAt):
		return a.KickoffAt.Before(*b.KickoffAt)
	}
	if a.HomeTeamID != b.HomeTeamID {
		return a.HomeTeamID < b.HomeTeamID
	}
	return a.ID < b.ID
}
