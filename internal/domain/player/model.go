package player

import (
	"fmt"
	"strings"
	"time"
)

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GKP"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// PositionFromElementType maps the upstream element_type code (1..4).
func PositionFromElementType(code int) (Position, bool) {
	switch code {
	case 1:
		return PositionGoalkeeper, true
	case 2:
		return PositionDefender, true
	case 3:
		return PositionMidfielder, true
	case 4:
		return PositionForward, true
	default:
		return "", false
	}
}

// ParsePosition accepts short codes and long names, case-insensitively.
func ParsePosition(value string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "gk", "gkp", "goalkeeper":
		return PositionGoalkeeper, nil
	case "def", "defender":
		return PositionDefender, nil
	case "mid", "midfielder":
		return PositionMidfielder, nil
	case "fwd", "forward", "striker":
		return PositionForward, nil
	default:
		return "", fmt.Errorf("invalid position: %q", value)
	}
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusDoubtful    Status = "doubtful"
	StatusInjured     Status = "injured"
	StatusSuspended   Status = "suspended"
	StatusUnavailable Status = "unavailable"
)

// StatusFromCode maps the upstream one-letter status code.
func StatusFromCode(code string) Status {
	switch code {
	case "a":
		return StatusAvailable
	case "d":
		return StatusDoubtful
	case "i":
		return StatusInjured
	case "s":
		return StatusSuspended
	default:
		return StatusUnavailable
	}
}

// Player is one selectable footballer. Price is in tenths of a million.
type Player struct {
	ID         int
	WebName    string
	FirstName  string
	SecondName string
	TeamID     int
	Position   Position
	Price      int

	TotalPoints       int
	PointsPerGame     float64
	Form              float64
	SelectedByPercent float64
	Minutes           int

	GoalsScored     int
	Assists         int
	CleanSheets     int
	GoalsConceded   int
	Saves           int
	Bonus           int
	YellowCards     int
	RedCards        int
	ExpectedGoals   float64
	ExpectedAssists float64
	// DefensiveContributionPer90 is only reported for outfield players.
	DefensiveContributionPer90 float64

	Status                   Status
	ChanceOfPlayingNextRound *int
	News                     string
	NewsAdded                *time.Time
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be > 0")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player %d team id must be > 0", p.ID)
	}
	if p.WebName == "" {
		return fmt.Errorf("player %d name is required", p.ID)
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("player %d has invalid position: %s", p.ID, p.Position)
	}

	return nil
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.SecondName)
}

// PriceMillions returns the price in whole-million units.
func (p Player) PriceMillions() float64 {
	return float64(p.Price) / 10
}

// IsAvailable reports whether the player is fully fit; doubtful counts as not.
func (p Player) IsAvailable() bool {
	return p.Status == StatusAvailable
}

// HasPlayed reports whether per-game metrics are defined for the player.
func (p Player) HasPlayed() bool {
	return p.Minutes > 0
}
