package mcptool

import (
	"time"

	"github.com/riskibarqy/fpl-mcp/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
	"github.com/riskibarqy/fpl-mcp/internal/domain/squad"
	"github.com/riskibarqy/fpl-mcp/internal/domain/team"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

type playerDTO struct {
	ID                         int        `json:"id"`
	WebName                    string     `json:"web_name"`
	FullName                   string     `json:"full_name"`
	TeamID                     int        `json:"team_id"`
	Team                       string     `json:"team"`
	TeamShortName              string     `json:"team_short_name"`
	Position                   string     `json:"position"`
	Price                      float64    `json:"price"`
	TotalPoints                int        `json:"total_points"`
	PointsPerGame              float64    `json:"points_per_game"`
	Form                       float64    `json:"form"`
	SelectedByPercent          float64    `json:"selected_by_percent"`
	Minutes                    int        `json:"minutes"`
	GoalsScored                int        `json:"goals_scored"`
	Assists                    int        `json:"assists"`
	CleanSheets                int        `json:"clean_sheets"`
	GoalsConceded              int        `json:"goals_conceded"`
	Saves                      int        `json:"saves,omitempty"`
	Bonus                      int        `json:"bonus"`
	YellowCards                int        `json:"yellow_cards"`
	RedCards                   int        `json:"red_cards"`
	ExpectedGoals              float64    `json:"expected_goals"`
	ExpectedAssists            float64    `json:"expected_assists"`
	DefensiveContributionPer90 float64    `json:"defensive_contribution_per_90,omitempty"`
	Status                     string     `json:"status"`
	ChanceOfPlayingNextRound   *int       `json:"chance_of_playing_next_round,omitempty"`
	News                       string     `json:"news,omitempty"`
	NewsAdded                  *time.Time `json:"news_added,omitempty"`
}

func toPlayerDTO(v usecase.PlayerView) playerDTO {
	p := v.Player
	out := playerDTO{
		ID:                       p.ID,
		WebName:                  p.WebName,
		FullName:                 p.FullName(),
		TeamID:                   p.TeamID,
		Team:                     v.Team.Name,
		TeamShortName:            v.Team.ShortName,
		Position:                 string(p.Position),
		Price:                    p.PriceMillions(),
		TotalPoints:              p.TotalPoints,
		PointsPerGame:            p.PointsPerGame,
		Form:                     p.Form,
		SelectedByPercent:        p.SelectedByPercent,
		Minutes:                  p.Minutes,
		GoalsScored:              p.GoalsScored,
		Assists:                  p.Assists,
		CleanSheets:              p.CleanSheets,
		GoalsConceded:            p.GoalsConceded,
		Bonus:                    p.Bonus,
		YellowCards:              p.YellowCards,
		RedCards:                 p.RedCards,
		ExpectedGoals:            p.ExpectedGoals,
		ExpectedAssists:          p.ExpectedAssists,
		Status:                   string(p.Status),
		ChanceOfPlayingNextRound: p.ChanceOfPlayingNextRound,
		News:                     p.News,
		NewsAdded:                p.NewsAdded,
	}
	if p.Position == player.PositionGoalkeeper {
		out.Saves = p.Saves
	} else {
		out.DefensiveContributionPer90 = p.DefensiveContributionPer90
	}
	return out
}

func toPlayerDTOs(items []usecase.PlayerView) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toPlayerDTO(item))
	}
	return out
}

type rankedPlayerDTO struct {
	Rank   int       `json:"rank"`
	Metric string    `json:"metric"`
	Score  float64   `json:"score"`
	Player playerDTO `json:"player"`
}

func toRankedDTOs(items []usecase.RankedPlayer) []rankedPlayerDTO {
	out := make([]rankedPlayerDTO, 0, len(items))
	for i, item := range items {
		out = append(out, rankedPlayerDTO{
			Rank:   i + 1,
			Metric: string(item.Metric),
			Score:  item.Score,
			Player: toPlayerDTO(item.PlayerView),
		})
	}
	return out
}

type teamDTO struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

func toTeamDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:                  t.ID,
		Name:                t.Name,
		ShortName:           t.ShortName,
		Strength:            t.Strength,
		StrengthOverallHome: t.StrengthOverallHome,
		StrengthOverallAway: t.StrengthOverallAway,
		StrengthAttackHome:  t.StrengthAttackHome,
		StrengthAttackAway:  t.StrengthAttackAway,
		StrengthDefenceHome: t.StrengthDefenceHome,
		StrengthDefenceAway: t.StrengthDefenceAway,
	}
}

func toTeamDTOs(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toTeamDTO(item))
	}
	return out
}

type fixtureDTO struct {
	ID             int        `json:"id"`
	Gameweek       *int       `json:"gameweek"`
	KickoffAt      *time.Time `json:"kickoff_at"`
	HomeTeamID     int        `json:"home_team_id"`
	HomeTeam       string     `json:"home_team"`
	AwayTeamID     int        `json:"away_team_id"`
	AwayTeam       string     `json:"away_team"`
	HomeDifficulty int        `json:"home_difficulty"`
	AwayDifficulty int        `json:"away_difficulty"`
	Started        bool       `json:"started"`
	Finished       bool       `json:"finished"`
	HomeScore      *int       `json:"home_score,omitempty"`
	AwayScore      *int       `json:"away_score,omitempty"`
}

func toFixtureDTO(v usecase.FixtureView) fixtureDTO {
	f := v.Fixture
	out := fixtureDTO{
		ID:             f.ID,
		Gameweek:       f.Gameweek,
		KickoffAt:      f.KickoffAt,
		HomeTeamID:     f.HomeTeamID,
		HomeTeam:       v.Home.ShortName,
		AwayTeamID:     f.AwayTeamID,
		AwayTeam:       v.Away.ShortName,
		HomeDifficulty: f.HomeDifficulty,
		AwayDifficulty: f.AwayDifficulty,
		Started:        f.Started,
		Finished:       f.Finished,
	}
	if f.Finished {
		out.HomeScore = f.HomeScore
		out.AwayScore = f.AwayScore
	}
	return out
}

func toFixtureDTOs(items []usecase.FixtureView) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toFixtureDTO(item))
	}
	return out
}

type upcomingFixtureDTO struct {
	FixtureID  int        `json:"fixture_id"`
	Gameweek   *int       `json:"gameweek"`
	KickoffAt  *time.Time `json:"kickoff_at"`
	OpponentID int        `json:"opponent_id"`
	Opponent   string     `json:"opponent"`
	Venue      string     `json:"venue"`
	Difficulty int        `json:"difficulty"`
}

func toUpcomingDTOs(items []usecase.UpcomingFixture) []upcomingFixtureDTO {
	out := make([]upcomingFixtureDTO, 0, len(items))
	for _, item := range items {
		venue := "away"
		if item.IsHome {
			venue = "home"
		}
		out = append(out, upcomingFixtureDTO{
			FixtureID:  item.Fixture.ID,
			Gameweek:   item.Fixture.Gameweek,
			KickoffAt:  item.Fixture.KickoffAt,
			OpponentID: item.Opponent.ID,
			Opponent:   item.Opponent.ShortName,
			Venue:      venue,
			Difficulty: item.Difficulty,
		})
	}
	return out
}

type gameweekDTO struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Deadline  time.Time    `json:"deadline"`
	IsCurrent bool         `json:"is_current"`
	IsNext    bool         `json:"is_next"`
	Finished  bool         `json:"finished"`
	Fixtures  []fixtureDTO `json:"fixtures"`
}

func toGameweekDTOs(items []usecase.GameweekView) []gameweekDTO {
	out := make([]gameweekDTO, 0, len(items))
	for _, item := range items {
		out = append(out, newGameweekDTO(item.Gameweek, toFixtureDTOs(item.Fixtures)))
	}
	return out
}

func newGameweekDTO(g gameweek.Gameweek, fixtures []fixtureDTO) gameweekDTO {
	return gameweekDTO{
		ID:        g.ID,
		Name:      g.Name,
		Deadline:  g.Deadline,
		IsCurrent: g.IsCurrent,
		IsNext:    g.IsNext,
		Finished:  g.Finished,
		Fixtures:  fixtures,
	}
}

type pickDTO struct {
	Slot          int      `json:"slot"`
	BenchOrder    int      `json:"bench_order,omitempty"`
	PlayerID      int      `json:"player_id"`
	WebName       string   `json:"web_name"`
	Team          string   `json:"team"`
	Position      string   `json:"position"`
	Price         float64  `json:"price"`
	Form          float64  `json:"form"`
	TotalPoints   int      `json:"total_points"`
	Status        string   `json:"status"`
	Multiplier    int      `json:"multiplier"`
	IsCaptain     bool     `json:"is_captain"`
	IsViceCaptain bool     `json:"is_vice_captain"`
	SellingPrice  *float64 `json:"selling_price,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
}

type chipDTO struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type transfersDTO struct {
	Limit  *int    `json:"limit,omitempty"`
	Made   int     `json:"made"`
	Bank   float64 `json:"bank"`
	Cost   int     `json:"cost"`
	Status string  `json:"status,omitempty"`
}

type squadDTO struct {
	ManagerID      int           `json:"manager_id"`
	Gameweek       int           `json:"gameweek"`
	Authenticated  bool          `json:"authenticated"`
	GameweekPoints int           `json:"gameweek_points"`
	TotalPoints    int           `json:"total_points"`
	Bank           float64       `json:"bank"`
	Value          float64       `json:"value"`
	ActiveChip     string        `json:"active_chip,omitempty"`
	Starters       []pickDTO     `json:"starters"`
	Bench          []pickDTO     `json:"bench"`
	Chips          []chipDTO     `json:"chips,omitempty"`
	Transfers      *transfersDTO `json:"transfers,omitempty"`
	FetchedAt      time.Time     `json:"fetched_at"`
	Stale          bool          `json:"stale"`
}

func toSquadDTO(v usecase.SquadView) squadDTO {
	s := v.Squad
	out := squadDTO{
		ManagerID:      s.ManagerID,
		Gameweek:       s.Gameweek,
		Authenticated:  s.Authenticated,
		GameweekPoints: s.GameweekPoints,
		TotalPoints:    s.TotalPoints,
		Bank:           tenths(s.Bank),
		Value:          tenths(s.Value),
		ActiveChip:     s.ActiveChip,
		Starters:       toPickDTOs(v.Starters),
		Bench:          toPickDTOs(v.Bench),
		FetchedAt:      v.Freshness.FetchedAt,
		Stale:          v.Freshness.Stale,
	}
	for _, chip := range s.Chips {
		out.Chips = append(out.Chips, chipDTO{Name: chip.Name, Status: chip.Status})
	}
	if t := s.Transfers; t != nil {
		out.Transfers = &transfersDTO{Limit: t.Limit, Made: t.Made, Bank: tenths(t.Bank), Cost: t.Cost, Status: t.Status}
	}
	return out
}

func toPickDTOs(items []usecase.PickView) []pickDTO {
	out := make([]pickDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toPickDTO(item.Pick, item.Player))
	}
	return out
}

func toPickDTO(pick squad.Pick, view usecase.PlayerView) pickDTO {
	return pickDTO{
		Slot:          pick.Position,
		BenchOrder:    pick.BenchOrder(),
		PlayerID:      pick.PlayerID,
		WebName:       view.Player.WebName,
		Team:          view.Team.ShortName,
		Position:      string(view.Player.Position),
		Price:         view.Player.PriceMillions(),
		Form:          view.Player.Form,
		TotalPoints:   view.Player.TotalPoints,
		Status:        string(view.Player.Status),
		Multiplier:    pick.Multiplier,
		IsCaptain:     pick.IsCaptain,
		IsViceCaptain: pick.IsViceCaptain,
		SellingPrice:  tenthsPtr(pick.SellingPrice),
		PurchasePrice: tenthsPtr(pick.PurchasePrice),
	}
}

type refreshResultDTO struct {
	Category  string     `json:"category"`
	OK        bool       `json:"ok"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Error     *errorBody `json:"error,omitempty"`
}

func toRefreshDTOs(items []usecase.CategoryResult) []refreshResultDTO {
	out := make([]refreshResultDTO, 0, len(items))
	for _, item := range items {
		dto := refreshResultDTO{Category: item.Category, OK: item.Err == nil}
		if !item.FetchedAt.IsZero() {
			fetchedAt := item.FetchedAt
			dto.FetchedAt = &fetchedAt
		}
		if item.Err != nil {
			body := newErrorBody(item.Err)
			dto.Error = &body
		}
		out = append(out, dto)
	}
	return out
}

type cacheEntryDTO struct {
	Category   string    `json:"category"`
	Scope      string    `json:"scope,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
	AgeSeconds float64   `json:"age_seconds"`
	TTLSeconds float64   `json:"ttl_seconds"`
	Fresh      bool      `json:"fresh"`
	Items      int       `json:"items"`
}

func toCacheEntryDTOs(items []usecase.EntryStatus) []cacheEntryDTO {
	out := make([]cacheEntryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, cacheEntryDTO{
			Category:   item.Category,
			Scope:      item.Scope,
			FetchedAt:  item.FetchedAt,
			AgeSeconds: item.Age.Round(time.Millisecond).Seconds(),
			TTLSeconds: item.TTL.Seconds(),
			Fresh:      item.Fresh,
			Items:      item.Items,
		})
	}
	return out
}

func tenths(v int) float64 {
	return float64(v) / 10
}

func tenthsPtr(v *int) *float64 {
	if v == nil {
		return nil
	}
	out := tenths(*v)
	return &out
}

