package analytics

import (
	"math"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// Classify maps a metric value to its traffic-light status. Pass NaN for a
// value that is not calculable. Metrics without thresholds are neutral.
func Classify(name string, v float64, cfg models.AnalyticsConfig) models.Status {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.StatusNeutral
	}
	def, ok := registry[name]
	if !ok || def.rule == nil {
		return models.StatusNeutral
	}
	return def.rule(v, cfg)
}

// atLeast: good when v >= good, warn when v >= warn.
func atLeast(good, warn float64) func(float64, models.AnalyticsConfig) models.Status {
	return func(v float64, _ models.AnalyticsConfig) models.Status {
		switch {
		case v >= good:
			return models.StatusGood
		case v >= warn:
			return models.StatusWarn
		default:
			return models.StatusBad
		}
	}
}

// below: good when v < good, warn when v <= warn.
func below(good, warn float64) func(float64, models.AnalyticsConfig) models.Status {
	return func(v float64, _ models.AnalyticsConfig) models.Status {
		switch {
		case v < good:
			return models.StatusGood
		case v <= warn:
			return models.StatusWarn
		default:
			return models.StatusBad
		}
	}
}

func drrStatus(v float64, cfg models.AnalyticsConfig) models.Status {
	if cfg.MarginPct <= 0 || math.IsNaN(cfg.MarginPct) {
		return below(0.10, 0.25)(v, cfg)
	}
	margin := cfg.MarginPct / 100
	green := 0.7 * margin
	switch {
	case v <= green:
		return models.StatusGood
	case v <= margin:
		return models.StatusWarn
	default:
		return models.StatusBad
	}
}
