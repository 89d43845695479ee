package models

import "github.com/shopspring/decimal"

// SelectorAll disables an equality selector in Filters.
const SelectorAll = "all"

type Status string

const (
	StatusGood    Status = "good"
	StatusWarn    Status = "warn"
	StatusBad     Status = "bad"
	StatusNeutral Status = "neutral"
	StatusInfo    Status = "info"
)

// RawRow is one parsed line of the marketplace ads export.
type RawRow struct {
	CampaignID    string
	TrafficSource string
	ProductID     string
	ProductName   string
	Date          string // YYYY-MM-DD or RFC3339
	Impressions   int64
	Clicks        int64
	CTR           float64 // as exported, informational only
	CartAdds      int64
	Orders        int64
	Spend         decimal.Decimal
	Revenue       decimal.Decimal
}

type Filters struct {
	CampaignID    string `json:"campaign_id"`
	ProductID     string `json:"product_id"`
	TrafficSource string `json:"traffic_source"`
	DateFrom      string `json:"date_from"`
	DateTo        string `json:"date_to"`
}

type AnalyticsConfig struct {
	MarginPct      float64 `json:"margin_pct"`
	MinClicksForCR int     `json:"min_clicks_for_cr"` // reserved
}

type Totals struct {
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	CartAdds    int64           `json:"cart_adds"`
	Orders      int64           `json:"orders"`
	Spend       decimal.Decimal `json:"spend"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Add returns the componentwise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Impressions: t.Impressions + o.Impressions,
		Clicks:      t.Clicks + o.Clicks,
		CartAdds:    t.CartAdds + o.CartAdds,
		Orders:      t.Orders + o.Orders,
		Spend:       t.Spend.Add(o.Spend),
		Revenue:     t.Revenue.Add(o.Revenue),
	}
}

// Equal compares money fields by value, not representation.
func (t Totals) Equal(o Totals) bool {
	return t.Impressions == o.Impressions &&
		t.Clicks == o.Clicks &&
		t.CartAdds == o.CartAdds &&
		t.Orders == o.Orders &&
		t.Spend.Equal(o.Spend) &&
		t.Revenue.Equal(o.Revenue)
}

// Metric value is nil when the metric is not calculable.
type Metric struct {
	Value   *float64 `json:"value"`
	Status  Status   `json:"status"`
	Display string   `json:"display"`
	Tooltip string   `json:"tooltip"`
}

func (m Metric) Calculable() bool { return m.Value != nil }

type MetricSet struct {
	Totals
	Metrics map[string]Metric `json:"metrics"`
}

type DailyMetricSet struct {
	Date string `json:"date"`
	MetricSet
}

type Banner struct {
	Status    Status `json:"status"`
	ShortText string `json:"short_text"`
	Tooltip   string `json:"tooltip"`
}

type AnalysisResult struct {
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	Banner       Banner           `json:"banner"`
	PeriodTotals MetricSet        `json:"period_totals"`
	Daily        []DailyMetricSet `json:"daily"`
}

// Options lists the distinct selector values present in a dataset.
type Options struct {
	CampaignIDs    []string `json:"campaign_ids"`
	ProductIDs     []string `json:"product_ids"`
	TrafficSources []string `json:"traffic_sources"`
}
