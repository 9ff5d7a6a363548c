package gameweek

import (
	"fmt"
	"time"
)

// Gameweek is one round of the season calendar.
type Gameweek struct {
	ID        int
	Name      string
	Deadline  time.Time
	IsCurrent bool
	IsNext    bool
	Finished  bool
}

func (g Gameweek) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("gameweek id must be > 0")
	}
	return nil
}

// ValidateSet checks the current/next flags across a whole season list.
func ValidateSet(items []Gameweek) error {
	var current, next *Gameweek
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return err
		}
		if items[i].IsCurrent {
			if current != nil {
				return fmt.Errorf("gameweeks %d and %d are both current", current.ID, items[i].ID)
			}
			current = &items[i]
		}
		if items[i].IsNext {
			if next != nil {
				return fmt.Errorf("gameweeks %d and %d are both next", next.ID, items[i].ID)
			}
			next = &items[i]
		}
	}
	if current != nil && next != nil && !next.Deadline.After(current.Deadline) {
		return fmt.Errorf("next gameweek %d deadline must be after current gameweek %d", next.ID, current.ID)
	}

	return nil
}
