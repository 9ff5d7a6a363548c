package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/riskibarqy/fpl-mcp/internal/domain/player"
)

func TestPlayerService_GetByID(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	got, err := svc.GetByID(t.Context(), 2)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if got.Player.WebName != "Saka" || got.Team.ShortName != "ARS" {
		t.Fatalf("unexpected player view: %+v", got)
	}

	if _, err := svc.GetByID(t.Context(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByID(t.Context(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_GetByID_PropagatesReaderError(t *testing.T) {
	t.Parallel()

	reader := newStaticReader(t)
	reader.err = errUpstreamDown
	svc := NewPlayerService(reader)

	if _, err := svc.GetByID(t.Context(), 2); KindOf(err) != KindUpstreamUnavailable {
		t.Fatalf("expected upstream_unavailable, got %v", err)
	}
}

func TestPlayerService_Search_FoldsAccentsAndCase(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	got, err := svc.Search(t.Context(), "ODEGAARD")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ids := playerIDs(got); !reflect.DeepEqual(ids, []int{3}) {
		t.Fatalf("unexpected matches: %v", ids)
	}

	got, err = svc.Search(t.Context(), "bukayo")
	if err != nil {
		t.Fatalf("search full name: %v", err)
	}
	if ids := playerIDs(got); !reflect.DeepEqual(ids, []int{2}) {
		t.Fatalf("unexpected full name matches: %v", ids)
	}

	got, err = svc.Search(t.Context(), "zzz")
	if err != nil {
		t.Fatalf("search without matches: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", playerIDs(got))
	}

	if _, err := svc.Search(t.Context(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestPlayerService_Suggest_ClosestFirst(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	got, err := svc.Suggest(t.Context(), "Sakka", 3)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) == 0 || got[0].Player.ID != 2 {
		t.Fatalf("expected Saka as closest suggestion, got %v", playerIDs(got))
	}
}

func TestPlayerService_Filter(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	tests := []struct {
		name     string
		criteria PlayerFilter
		want     []int
	}{
		{
			name:     "empty criteria returns everyone by points",
			criteria: PlayerFilter{},
			want:     []int{6, 2, 4, 5, 3, 8, 7, 1, 10, 9},
		},
		{
			name:     "team",
			criteria: PlayerFilter{Team: intPtr(2)},
			want:     []int{4, 5},
		},
		{
			name: "all criteria must hold",
			criteria: PlayerFilter{
				Position:      strPtr("FWD"),
				MaxPrice:      intPtr(75),
				AvailableOnly: boolPtr(true),
			},
			want: []int{8},
		},
		{
			name:     "price band and form",
			criteria: PlayerFilter{MinPrice: intPtr(80), MaxPrice: intPtr(100), MinForm: floatPtr(6)},
			want:     []int{2, 4},
		},
		{
			name:     "min points",
			criteria: PlayerFilter{MinPoints: intPtr(150)},
			want:     []int{6, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Filter(t.Context(), tc.criteria)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if ids := playerIDs(got); !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("unexpected ids: got %v want %v", ids, tc.want)
			}
		})
	}
}

func TestPlayerService_Filter_Errors(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	if _, err := svc.Filter(t.Context(), PlayerFilter{Team: intPtr(99)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown team, got %v", err)
	}
	if _, err := svc.Filter(t.Context(), PlayerFilter{MinPrice: intPtr(90), MaxPrice: intPtr(50)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted price band, got %v", err)
	}
	if _, err := svc.Filter(t.Context(), PlayerFilter{Position: strPtr("winger")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
}

func TestDecodePlayerFilter(t *testing.T) {
	t.Parallel()

	got, err := DecodePlayerFilter([]byte(`{"position":"MID","max_price":80,"available_only":true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Position == nil || *got.Position != "MID" || got.MaxPrice == nil || *got.MaxPrice != 80 {
		t.Fatalf("unexpected filter: %+v", got)
	}

	if _, err := DecodePlayerFilter([]byte(`{"position":"MID","colour":"red"}`)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown key, got %v", err)
	}

	empty, err := DecodePlayerFilter(nil)
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if !reflect.DeepEqual(empty, PlayerFilter{}) {
		t.Fatalf("expected zero filter, got %+v", empty)
	}
}

func TestPlayerService_Top(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))
	forwards := player.PositionForward

	tests := []struct {
		name     string
		metric   player.Metric
		limit    int
		position *player.Position
		want     []int
	}{
		{name: "points ties broken by id", metric: player.MetricPoints, limit: 4, want: []int{6, 2, 4, 5}},
		{name: "value skips free and unplayed players", metric: player.MetricValue, limit: 2, want: []int{5, 1}},
		{name: "form within position", metric: player.MetricForm, limit: 10, position: &forwards, want: []int{8, 4, 5, 7}},
		{name: "expected goals", metric: player.MetricExpectedGoals, limit: 2, want: []int{4, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Top(t.Context(), tc.metric, tc.limit, tc.position)
			if err != nil {
				t.Fatalf("top: %v", err)
			}
			ids := make([]int, 0, len(got))
			for _, item := range got {
				ids = append(ids, item.Player.ID)
				if item.Metric != tc.metric {
					t.Fatalf("expected metric %q on result, got %q", tc.metric, item.Metric)
				}
			}
			if !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("unexpected ranking: got %v want %v", ids, tc.want)
			}
		})
	}
}

func TestPlayerService_Top_IsDeterministic(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	first, err := svc.Top(t.Context(), player.MetricForm, 5, nil)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := svc.Top(t.Context(), player.MetricForm, 5, nil)
		if err != nil {
			t.Fatalf("top: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking changed between identical calls")
		}
	}
}

func TestPlayerService_Top_InvalidArguments(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	if _, err := svc.Top(t.Context(), player.MetricPoints, 0, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero limit, got %v", err)
	}
	if _, err := svc.Top(t.Context(), player.Metric("clean_sheets"), 5, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown metric, got %v", err)
	}
}

func TestPlayerService_Differentials(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	got, err := svc.Differentials(t.Context(), 10, 5, 10, nil)
	if err != nil {
		t.Fatalf("differentials: %v", err)
	}
	if ids := playerIDs(got); !reflect.DeepEqual(ids, []int{5, 4, 3, 7}) {
		t.Fatalf("unexpected differentials: %v", ids)
	}
	for _, item := range got {
		if item.Player.SelectedByPercent >= 10 || item.Player.Form < 5 {
			t.Fatalf("player %d violates thresholds", item.Player.ID)
		}
	}

	if _, err := svc.Differentials(t.Context(), 0, 5, 10, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero ownership, got %v", err)
	}
	if _, err := svc.Differentials(t.Context(), 10, -1, 10, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative form, got %v", err)
	}
}

func TestPlayerService_Compare(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(newStaticReader(t))

	got, err := svc.Compare(t.Context(), []int{6, 2, 6})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if ids := playerIDs(got); !reflect.DeepEqual(ids, []int{6, 2}) {
		t.Fatalf("expected request order without duplicates, got %v", ids)
	}

	got, err = svc.Compare(t.Context(), []int{2, 999})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no partial result, got %v", playerIDs(got))
	}

	if _, err := svc.Compare(t.Context(), []int{2, 2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a single distinct id, got %v", err)
	}
	if _, err := svc.Compare(t.Context(), []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for too many ids, got %v", err)
	}
}

func TestParsePositionArg(t *testing.T) {
	t.Parallel()

	got, err := ParsePositionArg("")
	if err != nil || got != nil {
		t.Fatalf("expected no position for blank input, got %v %v", got, err)
	}
	got, err = ParsePositionArg("goalkeeper")
	if err != nil || got == nil || *got != player.PositionGoalkeeper {
		t.Fatalf("expected GKP, got %v %v", got, err)
	}
	if _, err := ParsePositionArg("winger"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }
