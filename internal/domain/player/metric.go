package player

import (
	"fmt"
	"strings"
)

// Metric names a stat players can be ranked by.
type Metric string

const (
	MetricPoints          Metric = "points"
	MetricForm            Metric = "form"
	MetricPointsPerGame   Metric = "points_per_game"
	MetricExpectedGoals   Metric = "expected_goals"
	MetricExpectedAssists Metric = "expected_assists"
	MetricValue           Metric = "value"
)

var AllMetrics = []Metric{
	MetricPoints,
	MetricForm,
	MetricPointsPerGame,
	MetricExpectedGoals,
	MetricExpectedAssists,
	MetricValue,
}

func ParseMetric(value string) (Metric, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "total_points":
		return MetricPoints, nil
	case "ppg":
		return MetricPointsPerGame, nil
	case "xg":
		return MetricExpectedGoals, nil
	case "xa":
		return MetricExpectedAssists, nil
	}
	for _, m := range AllMetrics {
		if string(m) == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid metric: %q", value)
}

// Score returns the player's value for m. ok is false when the metric is
// undefined for this player: non-positive price for value, or no minutes for
// the per-game metrics.
func (m Metric) Score(p Player) (score float64, ok bool) {
	switch m {
	case MetricPoints:
		return float64(p.TotalPoints), true
	case MetricForm:
		if !p.HasPlayed() {
			return 0, false
		}
		return p.Form, true
	case MetricPointsPerGame:
		if !p.HasPlayed() {
			return 0, false
		}
		return p.PointsPerGame, true
	case MetricExpectedGoals:
		return p.ExpectedGoals, true
	case MetricExpectedAssists:
		return p.ExpectedAssists, true
	case MetricValue:
		if p.Price <= 0 || !p.HasPlayed() {
			return 0, false
		}
		return float64(p.TotalPoints) / p.PriceMillions(), true
	default:
		return 0, false
	}
}
