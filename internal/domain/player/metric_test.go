package player

import "testing"

func TestMetric_Score(t *testing.T) {
	t.Parallel()

	played := Player{ID: 1, Price: 80, TotalPoints: 120, Minutes: 900, Form: 6.5, PointsPerGame: 5.2}
	benched := Player{ID: 2, Price: 45, TotalPoints: 0, Minutes: 0}
	free := Player{ID: 3, Price: 0, TotalPoints: 10, Minutes: 90}

	tests := []struct {
		name   string
		metric Metric
		player Player
		want   float64
		ok     bool
	}{
		{name: "value in points per million", metric: MetricValue, player: played, want: 15, ok: true},
		{name: "value excludes zero price", metric: MetricValue, player: free, ok: false},
		{name: "value excludes zero minutes", metric: MetricValue, player: benched, ok: false},
		{name: "form excludes zero minutes", metric: MetricForm, player: benched, ok: false},
		{name: "ppg excludes zero minutes", metric: MetricPointsPerGame, player: benched, ok: false},
		{name: "points defined for everyone", metric: MetricPoints, player: benched, want: 0, ok: true},
		{name: "form", metric: MetricForm, player: played, want: 6.5, ok: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.metric.Score(tc.player)
			if ok != tc.ok {
				t.Fatalf("ok mismatch: got %v want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("score mismatch: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseMetric_AcceptsAliases(t *testing.T) {
	t.Parallel()

	cases := map[string]Metric{
		"points":          MetricPoints,
		"Points-Per-Game": MetricPointsPerGame,
		"xG":              MetricExpectedGoals,
		"value":           MetricValue,
	}
	for in, want := range cases {
		got, err := ParseMetric(in)
		if err != nil || got != want {
			t.Fatalf("ParseMetric(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMetric("goals_per_shot"); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}
