package mcptool

type PlayerIDArgs struct {
	PlayerID int `json:"player_id" jsonschema:"FPL player (element) id" validate:"gt=0"`
}

type SearchArgs struct {
	Query string `json:"query" jsonschema:"Name fragment, case and accent insensitive" validate:"required,max=100"`
}

type FilterPlayersArgs struct {
	Criteria map[string]any `json:"criteria,omitempty" jsonschema:"Filter options: position, team, min_price, max_price (tenths of a million, 80 = 8.0m), min_form, min_points, available_only"`
}

type TopPlayersArgs struct {
	Metric   string  `json:"metric" jsonschema:"points, form, points_per_game, expected_goals, expected_assists or value" validate:"required"`
	Limit    int     `json:"limit" jsonschema:"Number of players to return" validate:"gt=0"`
	Position *string `json:"position,omitempty" jsonschema:"GKP, DEF, MID or FWD"`
}

type DifferentialsArgs struct {
	MaxOwnership *float64 `json:"max_ownership" jsonschema:"Ownership percent upper bound, exclusive" validate:"required,gt=0"`
	MinForm      *float64 `json:"min_form" jsonschema:"Minimum form, inclusive" validate:"required,gte=0"`
	Limit        int      `json:"limit" jsonschema:"Number of players to return" validate:"gt=0"`
	Position     *string  `json:"position,omitempty" jsonschema:"GKP, DEF, MID or FWD"`
}

type CompareArgs struct {
	PlayerIDs []int `json:"player_ids" jsonschema:"Between 2 and 10 player ids" validate:"required,min=2,dive,gt=0"`
}

type TeamIDArgs struct {
	TeamID int `json:"team_id" jsonschema:"FPL team id" validate:"gt=0"`
}

type NoArgs struct{}

type GameweekArgs struct {
	Gameweek int `json:"gameweek" jsonschema:"Gameweek number (1-38)" validate:"gt=0"`
}

type TeamFixturesArgs struct {
	TeamID   int  `json:"team_id" jsonschema:"FPL team id" validate:"gt=0"`
	Gameweek *int `json:"gameweek,omitempty" jsonschema:"Restrict to one gameweek" validate:"omitempty,gt=0"`
}

type TeamUpcomingArgs struct {
	TeamID int `json:"team_id" jsonschema:"FPL team id" validate:"gt=0"`
	Count  int `json:"count" jsonschema:"Number of fixtures" validate:"gt=0"`
}

type NextGameweeksArgs struct {
	Count int `json:"count" jsonschema:"Number of gameweeks" validate:"gt=0"`
}

type MyTeamArgs struct {
	ManagerID *int `json:"manager_id,omitempty" jsonschema:"FPL manager (entry) id; defaults to the configured manager" validate:"omitempty,gt=0"`
}

type RefreshCacheArgs struct {
	Category string `json:"category,omitempty" jsonschema:"bootstrap, fixtures, manager_squad or all (default all)" validate:"omitempty,oneof=all bootstrap fixtures manager_squad"`
}
