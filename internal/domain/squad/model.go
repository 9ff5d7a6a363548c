package squad

import "fmt"

// Pick is one squad slot. Position 1-11 are starters, 12-15 the bench in
// substitution order.
type Pick struct {
	PlayerID      int
	Position      int
	Multiplier    int
	IsCaptain     bool
	IsViceCaptain bool
	// SellingPrice and PurchasePrice are only known on the authenticated view.
	SellingPrice  *int
	PurchasePrice *int
}

func (p Pick) IsBench() bool {
	return p.Position > 11
}

// BenchOrder returns 1..4 for bench picks and 0 for starters.
func (p Pick) BenchOrder() int {
	if !p.IsBench() {
		return 0
	}
	return p.Position - 11
}

type Chip struct {
	Name   string
	Status string
}

type Transfers struct {
	Limit  *int
	Made   int
	Bank   int
	Cost   int
	Status string
}

// Squad is a manager's 15 picks for one gameweek.
type Squad struct {
	ManagerID      int
	Gameweek       int
	Picks          []Pick
	GameweekPoints int
	TotalPoints    int
	Bank           int
	Value          int
	ActiveChip     string
	Chips          []Chip
	Transfers      *Transfers
	Authenticated  bool
}

func (s Squad) Validate() error {
	if s.ManagerID <= 0 {
		return fmt.Errorf("squad manager id must be > 0")
	}
	if len(s.Picks) == 0 {
		return fmt.Errorf("squad for manager %d has no picks", s.ManagerID)
	}
	captains := 0
	for _, p := range s.Picks {
		if p.PlayerID <= 0 {
			return fmt.Errorf("squad for manager %d has invalid pick player id %d", s.ManagerID, p.PlayerID)
		}
		if p.IsCaptain {
			captains++
		}
	}
	if captains > 1 {
		return fmt.Errorf("squad for manager %d has %d captains", s.ManagerID, captains)
	}

	return nil
}

func (s Squad) Captain() (Pick, bool) {
	for _, p := range s.Picks {
		if p.IsCaptain {
			return p, true
		}
	}
	return Pick{}, false
}
