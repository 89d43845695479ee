package analytics

import (
	"golang.org/x/text/language"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// Engine runs the analysis pipeline. It holds no state besides the
// display formatter, so one Engine may serve concurrent callers.
type Engine struct {
	fmt *Formatter
}

func NewEngine(tag language.Tag) *Engine {
	return &Engine{fmt: NewFormatter(tag)}
}

var defaultEngine = NewEngine(language.English)

// ComputeMetrics derives the fourteen metrics from t using English display formatting.
func ComputeMetrics(t models.Totals, cfg models.AnalyticsConfig) models.MetricSet {
	return defaultEngine.ComputeMetrics(t, cfg)
}

func (e *Engine) ComputeMetrics(t models.Totals, cfg models.AnalyticsConfig) models.MetricSet {
	// a campaign that never ran has no meaningful efficiency thresholds
	idle := t.Impressions == 0 && t.Spend.IsZero()

	out := make(map[string]models.Metric, len(MetricNames))
	for _, name := range MetricNames {
		def := registry[name]
		v, ok := def.value(t)

		m := models.Metric{Status: models.StatusNeutral}
		if ok {
			val := v
			m.Value = &val
			m.Status = Classify(name, v, cfg)
		}
		if idle && (name == MetricCPA || name == MetricROAS || name == MetricDRR) {
			m.Status = models.StatusNeutral
		}
		m.Display = e.display(def, t, v, ok)
		m.Tooltip = tooltip(def, m.Status, ok)
		out[name] = m
	}
	return models.MetricSet{Totals: t, Metrics: out}
}

func (e *Engine) display(def metricDef, t models.Totals, v float64, ok bool) string {
	if def.unit == unitCartRate {
		pct := Placeholder
		if ok {
			pct = e.fmt.Percent(v)
		}
		return e.fmt.Count(t.CartAdds) + " (" + pct + ")"
	}
	if !ok {
		return Placeholder
	}
	switch def.unit {
	case unitPercent:
		return e.fmt.Percent(v)
	case unitCurrency:
		return e.fmt.Currency(v)
	case unitRatio:
		return e.fmt.Ratio(v)
	default:
		return e.fmt.Count(int64(v))
	}
}

func tooltip(def metricDef, status models.Status, calculable bool) string {
	if !calculable {
		return def.nullTooltip + "\nFormula: " + def.formula
	}
	text := def.statusTexts[status]
	if def.simple {
		return text + "\n" + def.formula
	}
	return text + "\nFormula: " + def.formula
}
