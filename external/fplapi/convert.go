package fplapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/squad"
	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

// markKind attaches a usecase error kind so callers can match it with errors.Is.
func markKind(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}

func malformed(err error, format string, args ...any) error {
	return markKind(usecase.ErrMalformedPayload, crerr.Wrapf(err, format, args...))
}

// errUnknownElementType marks elements that are not players, such as the
// manager elements FPL adds for some chips.
var errUnknownElementType = errors.New("unknown element_type")

// mapBootstrap converts the payload and returns the ids of elements it
// skipped because their element_type is not a player position.
func mapBootstrap(in bootstrapPayload) (*snapshot.Bootstrap, []int, error) {
	if len(in.Teams) == 0 || len(in.Elements) == 0 {
		return nil, nil, markKind(usecase.ErrMalformedPayload, crerr.Newf("bootstrap payload missing teams or elements (teams=%d elements=%d)", len(in.Teams), len(in.Elements)))
	}

	teams := make([]team.Team, 0, len(in.Teams))
	for _, t := range in.Teams {
		teams = append(teams, team.Team{
			ID:                  t.ID,
			Code:                t.Code,
			Name:                strings.TrimSpace(t.Name),
			ShortName:           strings.TrimSpace(t.ShortName),
			Strength:            t.Strength,
			StrengthOverallHome: t.StrengthOverallHome,
			StrengthOverallAway: t.StrengthOverallAway,
			StrengthAttackHome:  t.StrengthAttackHome,
			StrengthAttackAway:  t.StrengthAttackAway,
			StrengthDefenceHome: t.StrengthDefenceHome,
			StrengthDefenceAway: t.StrengthDefenceAway,
		})
	}

	players := make([]player.Player, 0, len(in.Elements))
	var skipped []int
	for _, e := range in.Elements {
		p, err := mapElement(e)
		if errors.Is(err, errUnknownElementType) {
			skipped = append(skipped, e.ID)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		players = append(players, p)
	}
	if len(players) == 0 {
		return nil, nil, markKind(usecase.ErrMalformedPayload, crerr.Newf("bootstrap payload has no player elements (skipped=%d)", len(skipped)))
	}

	gameweeks := make([]gameweek.Gameweek, 0, len(in.Events))
	for _, ev := range in.Events {
		deadline, err := parseTime(ev.DeadlineTime)
		if err != nil {
			return nil, nil, malformed(err, "event %d deadline_time", ev.ID)
		}
		gameweeks = append(gameweeks, gameweek.Gameweek{
			ID:        ev.ID,
			Name:      ev.Name,
			Deadline:  deadline,
			IsCurrent: ev.IsCurrent,
			IsNext:    ev.IsNext,
			Finished:  ev.Finished,
		})
	}

	out, err := snapshot.NewBootstrap(players, teams, gameweeks)
	if err != nil {
		return nil, nil, malformed(err, "bootstrap snapshot")
	}
	return out, skipped, nil
}

func mapElement(e elementPayload) (player.Player, error) {
	position, ok := player.PositionFromElementType(e.ElementType)
	if !ok {
		return player.Player{}, fmt.Errorf("element %d: %w %d", e.ID, errUnknownElementType, e.ElementType)
	}

	decimals := map[string]string{
		"points_per_game":     e.PointsPerGame,
		"form":                e.Form,
		"selected_by_percent": e.SelectedByPercent,
		"expected_goals":      e.ExpectedGoals,
		"expected_assists":    e.ExpectedAssists,
	}
	parsed := make(map[string]float64, len(decimals))
	for field, raw := range decimals {
		v, err := parseDecimal(raw)
		if err != nil {
			return player.Player{}, malformed(err, "element %d %s", e.ID, field)
		}
		parsed[field] = v
	}

	var newsAdded *time.Time
	if e.NewsAdded != nil && strings.TrimSpace(*e.NewsAdded) != "" {
		if ts, err := parseTime(*e.NewsAdded); err == nil {
			newsAdded = &ts
		}
	}

	return player.Player{
		ID:                         e.ID,
		WebName:                    strings.TrimSpace(e.WebName),
		FirstName:                  strings.TrimSpace(e.FirstName),
		SecondName:                 strings.TrimSpace(e.SecondName),
		TeamID:                     e.Team,
		Position:                   position,
		Price:                      e.NowCost,
		TotalPoints:                e.TotalPoints,
		PointsPerGame:              parsed["points_per_game"],
		Form:                       parsed["form"],
		SelectedByPercent:          parsed["selected_by_percent"],
		Minutes:                    e.Minutes,
		GoalsScored:                e.GoalsScored,
		Assists:                    e.Assists,
		CleanSheets:                e.CleanSheets,
		GoalsConceded:              e.GoalsConceded,
		Saves:                      e.Saves,
		Bonus:                      e.Bonus,
		YellowCards:                e.YellowCards,
		RedCards:                   e.RedCards,
		ExpectedGoals:              parsed["expected_goals"],
		ExpectedAssists:            parsed["expected_assists"],
		DefensiveContributionPer90: e.DefensiveContributionPer90,
		Status:                     player.StatusFromCode(e.Status),
		ChanceOfPlayingNextRound:   e.ChanceOfPlayingNextRound,
		News:                       strings.TrimSpace(e.News),
		NewsAdded:                  newsAdded,
	}, nil
}

func mapFixtures(in []fixturePayload) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(in))
	for _, f := range in {
		var kickoff *time.Time
		if f.KickoffTime != nil && strings.TrimSpace(*f.KickoffTime) != "" {
			ts, err := parseTime(*f.KickoffTime)
			if err != nil {
				return nil, malformed(err, "fixture %d kickoff_time", f.ID)
			}
			kickoff = &ts
		}
		started := f.Finished
		if f.Started != nil {
			started = *f.Started
		}
		out = append(out, fixture.Fixture{
			ID:             f.ID,
			Gameweek:       f.Event,
			HomeTeamID:     f.TeamH,
			AwayTeamID:     f.TeamA,
			KickoffAt:      kickoff,
			Started:        started,
			Finished:       f.Finished,
			HomeScore:      f.TeamHScore,
			AwayScore:      f.TeamAScore,
			HomeDifficulty: f.TeamHDifficulty,
			AwayDifficulty: f.TeamADifficulty,
		})
	}
	return out, nil
}

func mapPicks(items []pickPayload) []squad.Pick {
	out := make([]squad.Pick, 0, len(items))
	for _, p := range items {
		out = append(out, squad.Pick{
			PlayerID:      p.Element,
			Position:      p.Position,
			Multiplier:    p.Multiplier,
			IsCaptain:     p.IsCaptain,
			IsViceCaptain: p.IsViceCaptain,
			SellingPrice:  p.SellingPrice,
			PurchasePrice: p.PurchasePrice,
		})
	}
	return out
}

func mapPublicSquad(managerID, gw int, in picksPayload) (squad.Squad, error) {
	out := squad.Squad{
		ManagerID:      managerID,
		Gameweek:       gw,
		Picks:          mapPicks(in.Picks),
		GameweekPoints: in.EntryHistory.Points,
		TotalPoints:    in.EntryHistory.TotalPoints,
		Bank:           in.EntryHistory.Bank,
		Value:          in.EntryHistory.Value,
	}
	if in.ActiveChip != nil {
		out.ActiveChip = *in.ActiveChip
	}
	if err := out.Validate(); err != nil {
		return squad.Squad{}, malformed(err, "picks for manager %d", managerID)
	}
	return out, nil
}

func mapMyTeam(managerID int, in myTeamPayload) (squad.Squad, error) {
	out := squad.Squad{
		ManagerID:     managerID,
		Picks:         mapPicks(in.Picks),
		Authenticated: true,
	}
	for _, c := range in.Chips {
		out.Chips = append(out.Chips, squad.Chip{Name: c.Name, Status: c.StatusForEntry})
	}
	if in.Transfers != nil {
		out.Bank = in.Transfers.Bank
		out.Value = in.Transfers.Value
		out.Transfers = &squad.Transfers{
			Limit:  in.Transfers.Limit,
			Made:   in.Transfers.Made,
			Bank:   in.Transfers.Bank,
			Cost:   in.Transfers.Cost,
			Status: in.Transfers.Status,
		}
	}
	if err := out.Validate(); err != nil {
		return squad.Squad{}, malformed(err, "my-team for manager %d", managerID)
	}
	return out, nil
}

func parseDecimal(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseTime(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
