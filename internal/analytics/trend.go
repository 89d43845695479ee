package analytics

import (
	"math"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

type Direction string

const (
	DirectionNone Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type Trend struct {
	Direction Direction `json:"direction,omitempty"`
	Favorable bool      `json:"favorable"`
}

var higherIsBetter = map[string]bool{
	MetricImpressions: true,
	MetricClicks:      true,
	MetricCTR:         true,
	MetricCartRate:    true,
	MetricCR:          true,
	MetricOrders:      true,
	MetricAvgCheck:    true,
	MetricRevenue:     true,
	MetricROAS:        true,
}

// HigherIsBetter reports whether growth of the named metric is favorable.
func HigherIsBetter(name string) bool { return higherIsBetter[name] }

// CompareMetric reports how cur moved against prev. There is no trend when
// either side is not calculable or the values are equal.
func CompareMetric(name string, prev, cur models.Metric) Trend {
	if !finite(prev) || !finite(cur) || *prev.Value == *cur.Value {
		return Trend{}
	}
	up := *cur.Value > *prev.Value
	t := Trend{Direction: DirectionDown, Favorable: !up}
	if up {
		t.Direction = DirectionUp
	}
	if higherIsBetter[name] {
		t.Favorable = up
	}
	return t
}

// DayTrends compares every metric of cur against prev.
func DayTrends(prev, cur models.MetricSet) map[string]Trend {
	out := make(map[string]Trend, len(cur.Metrics))
	for name, m := range cur.Metrics {
		out[name] = CompareMetric(name, prev.Metrics[name], m)
	}
	return out
}

func finite(m models.Metric) bool {
	return m.Value != nil && !math.IsNaN(*m.Value) && !math.IsInf(*m.Value, 0)
}
