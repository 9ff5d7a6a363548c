package team

import "fmt"

// Team is a Premier League club with its upstream strength ratings.
type Team struct {
	ID        int
	Code      int
	Name      string
	ShortName string
	Strength  int

	StrengthOverallHome int
	StrengthOverallAway int
	StrengthAttackHome  int
	StrengthAttackAway  int
	StrengthDefenceHome int
	StrengthDefenceAway int
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be > 0")
	}
	if t.Name == "" {
		return fmt.Errorf("team %d name is required", t.ID)
	}

	return nil
}
