// Package snapshot holds immutable, internally consistent generations of
// league data. A generation is built once by New* and only read afterwards.
package snapshot

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
)

// Bootstrap is one generation of players, teams and gameweeks.
type Bootstrap struct {
	players   []player.Player
	teams     []team.Team
	gameweeks []gameweek.Gameweek

	playerByID map[int]int
	teamByID   map[int]int
}

// NewBootstrap validates the collections and indexes them. The slices are
// copied, so the caller may reuse its input.
func NewBootstrap(players []player.Player, teams []team.Team, gameweeks []gameweek.Gameweek) (*Bootstrap, error) {
	b := &Bootstrap{
		players:    append([]player.Player(nil), players...),
		teams:      append([]team.Team(nil), teams...),
		gameweeks:  append([]gameweek.Gameweek(nil), gameweeks...),
		playerByID: make(map[int]int, len(players)),
		teamByID:   make(map[int]int, len(teams)),
	}

	for i, t := range b.teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.teamByID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate team id %d", t.ID)
		}
		b.teamByID[t.ID] = i
	}
	for i, p := range b.players {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.playerByID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %d", p.ID)
		}
		if _, ok := b.teamByID[p.TeamID]; !ok {
			return nil, fmt.Errorf("player %d references unknown team %d", p.ID, p.TeamID)
		}
		b.playerByID[p.ID] = i
	}

	sort.SliceStable(b.gameweeks, func(i, j int) bool { return b.gameweeks[i].ID < b.gameweeks[j].ID })
	if err := gameweek.ValidateSet(b.gameweeks); err != nil {
		return nil, err
	}

	return b, nil
}

// BootstrapData is the exported form of a Bootstrap, used for persistence.
type BootstrapData struct {
	Players   []player.Player     `json:"players"`
	Teams     []team.Team         `json:"teams"`
	Gameweeks []gameweek.Gameweek `json:"gameweeks"`
}

func (b *Bootstrap) Data() BootstrapData {
	return BootstrapData{Players: b.Players(), Teams: b.Teams(), Gameweeks: b.Gameweeks()}
}

func NewBootstrapFromData(data BootstrapData) (*Bootstrap, error) {
	return NewBootstrap(data.Players, data.Teams, data.Gameweeks)
}

// Players returns a copy of all players in upstream order.
func (b *Bootstrap) Players() []player.Player {
	return append([]player.Player(nil), b.players...)
}

func (b *Bootstrap) Teams() []team.Team {
	return append([]team.Team(nil), b.teams...)
}

// Gameweeks returns all gameweeks ordered by id.
func (b *Bootstrap) Gameweeks() []gameweek.Gameweek {
	return append([]gameweek.Gameweek(nil), b.gameweeks...)
}

func (b *Bootstrap) Player(id int) (player.Player, bool) {
	i, ok := b.playerByID[id]
	if !ok {
		return player.Player{}, false
	}
	return b.players[i], true
}

func (b *Bootstrap) Team(id int) (team.Team, bool) {
	i, ok := b.teamByID[id]
	if !ok {
		return team.Team{}, false
	}
	return b.teams[i], true
}

func (b *Bootstrap) PlayerCount() int { return len(b.players) }

func (b *Bootstrap) TeamCount() int { return len(b.teams) }

func (b *Bootstrap) CurrentGameweek() (gameweek.Gameweek, bool) {
	for _, gw := range b.gameweeks {
		if gw.IsCurrent {
			return gw, true
		}
	}
	return gameweek.Gameweek{}, false
}

func (b *Bootstrap) NextGameweek() (gameweek.Gameweek, bool) {
	for _, gw := range b.gameweeks {
		if gw.IsNext {
			return gw, true
		}
	}
	return gameweek.Gameweek{}, false
}

// ActiveGameweek is the current gameweek, or the next one before the season
// starts.
func (b *Bootstrap) ActiveGameweek() (gameweek.Gameweek, bool) {
	if gw, ok := b.CurrentGameweek(); ok {
		return gw, true
	}
	return b.NextGameweek()
}

// Fixtures is one generation of fixtures, consistent with the Bootstrap it
// was validated against.
type Fixtures struct {
	items     []fixture.Fixture
	bootstrap *Bootstrap
}

// NewFixtures validates every fixture and checks that both teams resolve in
// bootstrap. Items are stored in kickoff order.
func NewFixtures(items []fixture.Fixture, bootstrap *Bootstrap) (*Fixtures, error) {
	if bootstrap == nil {
		return nil, fmt.Errorf("fixtures need a bootstrap to validate against")
	}
	out := append([]fixture.Fixture(nil), items...)
	seen := make(map[int]struct{}, len(out))
	for _, f := range out {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("duplicate fixture id %d", f.ID)
		}
		seen[f.ID] = struct{}{}
		if _, ok := bootstrap.Team(f.HomeTeamID); !ok {
			return nil, fmt.Errorf("fixture %d references unknown home team %d", f.ID, f.HomeTeamID)
		}
		if _, ok := bootstrap.Team(f.AwayTeamID); !ok {
			return nil, fmt.Errorf("fixture %d references unknown away team %d", f.ID, f.AwayTeamID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return fixture.Before(out[i], out[j]) })

	return &Fixtures{items: out, bootstrap: bootstrap}, nil
}

// Bootstrap returns the generation these fixtures were validated against.
// Team lookups for a fixture should go through it.
func (f *Fixtures) Bootstrap() *Bootstrap {
	return f.bootstrap
}

// All returns every fixture in kickoff order.
func (f *Fixtures) All() []fixture.Fixture {
	return append([]fixture.Fixture(nil), f.items...)
}

func (f *Fixtures) Len() int { return len(f.items) }

// Where returns the fixtures matching keep, in kickoff order.
func (f *Fixtures) Where(keep func(fixture.Fixture) bool) []fixture.Fixture {
	out := make([]fixture.Fixture, 0)
	for _, item := range f.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
