package usecase

import (
	"fmt"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
)

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// PlayerFilter is the set of recognised filter_players criteria. Nil fields
// are not applied. Prices are in tenths of a million.
type PlayerFilter struct {
	Position      *string  `json:"position,omitempty"`
	Team          *int     `json:"team,omitempty"`
	MinPrice      *int     `json:"min_price,omitempty"`
	MaxPrice      *int     `json:"max_price,omitempty"`
	MinForm       *float64 `json:"min_form,omitempty"`
	MinPoints     *int     `json:"min_points,omitempty"`
	AvailableOnly *bool    `json:"available_only,omitempty"`
}

// DecodePlayerFilter parses criteria JSON and rejects unrecognised keys.
func DecodePlayerFilter(raw []byte) (PlayerFilter, error) {
	var out PlayerFilter
	if len(raw) == 0 {
		return out, nil
	}
	if err := strictJSON.Unmarshal(raw, &out); err != nil {
		return PlayerFilter{}, fmt.Errorf("%w: criteria: %v", ErrInvalidInput, err)
	}
	return out, nil
}

type compiledFilter struct {
	position      *player.Position
	team          *int
	minPrice      *int
	maxPrice      *int
	minForm       *float64
	minPoints     *int
	availableOnly bool
}

func (f PlayerFilter) compile() (compiledFilter, error) {
	out := compiledFilter{
		team:      f.Team,
		minPrice:  f.MinPrice,
		maxPrice:  f.MaxPrice,
		minForm:   f.MinForm,
		minPoints: f.MinPoints,
	}
	if f.Position != nil {
		position, err := player.ParsePosition(*f.Position)
		if err != nil {
			return compiledFilter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		out.position = &position
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return compiledFilter{}, fmt.Errorf("%w: min_price must be >= 0", ErrInvalidInput)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return compiledFilter{}, fmt.Errorf("%w: max_price must be >= 0", ErrInvalidInput)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return compiledFilter{}, fmt.Errorf("%w: min_price must be <= max_price", ErrInvalidInput)
	}
	if f.AvailableOnly != nil {
		out.availableOnly = *f.AvailableOnly
	}
	return out, nil
}

func (f compiledFilter) match(p player.Player) bool {
	if f.position != nil && p.Position != *f.position {
		return false
	}
	if f.team != nil && p.TeamID != *f.team {
		return false
	}
	if f.minPrice != nil && p.Price < *f.minPrice {
		return false
	}
	if f.maxPrice != nil && p.Price > *f.maxPrice {
		return false
	}
	if f.minForm != nil && p.Form < *f.minForm {
		return false
	}
	if f.minPoints != nil && p.TotalPoints < *f.minPoints {
		return false
	}
	if f.availableOnly && !p.IsAvailable() {
		return false
	}
	return true
}
