package fplapi

type bootstrapPayload struct {
	Elements []elementPayload `json:"elements"`
	Teams    []teamPayload    `json:"teams"`
	Events   []eventPayload   `json:"events"`
}

type elementPayload struct {
	ID          int    `json:"id"`
	WebName     string `json:"web_name"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`

	TotalPoints       int    `json:"total_points"`
	PointsPerGame     string `json:"points_per_game"` // decimal as string
	Form              string `json:"form"`
	SelectedByPercent string `json:"selected_by_percent"`
	Minutes           int    `json:"minutes"`

	GoalsScored                int     `json:"goals_scored"`
	Assists                    int     `json:"assists"`
	CleanSheets                int     `json:"clean_sheets"`
	GoalsConceded              int     `json:"goals_conceded"`
	Saves                      int     `json:"saves"`
	Bonus                      int     `json:"bonus"`
	YellowCards                int     `json:"yellow_cards"`
	RedCards                   int     `json:"red_cards"`
	ExpectedGoals              string  `json:"expected_goals"`
	ExpectedAssists            string  `json:"expected_assists"`
	DefensiveContributionPer90 float64 `json:"defensive_contribution_per_90"`

	Status                   string  `json:"status"`
	ChanceOfPlayingNextRound *int    `json:"chance_of_playing_next_round"`
	News                     string  `json:"news"`
	NewsAdded                *string `json:"news_added"`
}

type teamPayload struct {
	ID                  int    `json:"id"`
	Code                int    `json:"code"`
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

type eventPayload struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DeadlineTime string `json:"deadline_time"`
	IsCurrent    bool   `json:"is_current"`
	IsNext       bool   `json:"is_next"`
	Finished     bool   `json:"finished"`
}

type fixturePayload struct {
	ID              int     `json:"id"`
	Event           *int    `json:"event"`
	TeamH           int     `json:"team_h"`
	TeamA           int     `json:"team_a"`
	KickoffTime     *string `json:"kickoff_time"`
	Started         *bool   `json:"started"`
	Finished        bool    `json:"finished"`
	TeamHScore      *int    `json:"team_h_score"`
	TeamAScore      *int    `json:"team_a_score"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
	TeamADifficulty int     `json:"team_a_difficulty"`
}

type picksPayload struct {
	ActiveChip   *string             `json:"active_chip"`
	EntryHistory entryHistoryPayload `json:"entry_history"`
	Picks        []pickPayload       `json:"picks"`
}

type entryHistoryPayload struct {
	Event              int `json:"event"`
	Points             int `json:"points"`
	TotalPoints        int `json:"total_points"`
	Bank               int `json:"bank"`
	Value              int `json:"value"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
}

type pickPayload struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
	SellingPrice  *int `json:"selling_price"`
	PurchasePrice *int `json:"purchase_price"`
}

type myTeamPayload struct {
	Picks     []pickPayload     `json:"picks"`
	Chips     []chipPayload     `json:"chips"`
	Transfers *transfersPayload `json:"transfers"`
}

type chipPayload struct {
	Name           string `json:"name"`
	StatusForEntry string `json:"status_for_entry"`
}

type transfersPayload struct {
	Cost   int    `json:"cost"`
	Status string `json:"status"`
	Limit  *int   `json:"limit"`
	Made   int    `json:"made"`
	Bank   int    `json:"bank"`
	Value  int    `json:"value"`
}

type mePayload struct {
	Player *struct {
		Entry *int `json:"entry"`
	} `json:"player"`
}
