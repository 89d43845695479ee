package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// PlaceholderProductName is used when a product's rows carry no name.
const PlaceholderProductName = "(product name unavailable)"

const dayLayout = "2006-01-02"

var rowDateLayouts = []string{
	dayLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate accepts a calendar date with an optional time-of-day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range rowDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProductGroup holds one product's rows in encounter order.
type ProductGroup struct {
	ProductID string
	Rows      []models.RawRow
}

// FilterRows keeps rows inside the inclusive date range that match every
// active selector. A range with from after the end of to day, or an
// unparseable bound, yields no rows.
func FilterRows(rows []models.RawRow, f models.Filters) []models.RawRow {
	from, okFrom := ParseDate(f.DateFrom)
	to, okTo := ParseDate(f.DateTo)
	if !okFrom || !okTo {
		return []models.RawRow{}
	}
	end := endOfDay(to)
	if from.After(end) {
		return []models.RawRow{}
	}

	out := make([]models.RawRow, 0, len(rows))
	for _, r := range rows {
		d, ok := ParseDate(r.Date)
		if !ok || d.Before(from) || d.After(end) {
			continue
		}
		if !selectorMatch(f.CampaignID, r.CampaignID) ||
			!selectorMatch(f.ProductID, r.ProductID) ||
			!selectorMatch(f.TrafficSource, r.TrafficSource) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// GroupByProduct groups rows by product id in order of first occurrence.
// Rows without a product id are dropped.
func GroupByProduct(rows []models.RawRow) []ProductGroup {
	idx := map[string]int{}
	var groups []ProductGroup
	for _, r := range rows {
		if r.ProductID == "" {
			continue
		}
		i, ok := idx[r.ProductID]
		if !ok {
			i = len(groups)
			idx[r.ProductID] = i
			groups = append(groups, ProductGroup{ProductID: r.ProductID})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// Analyze runs the full pipeline with English display formatting.
func Analyze(rows []models.RawRow, f models.Filters, cfg models.AnalyticsConfig) []models.AnalysisResult {
	return defaultEngine.Analyze(rows, f, cfg)
}

// Analyze returns nil only when rows is nil (nothing loaded yet); a dataset
// filtered down to nothing yields an empty, non-nil slice. Results are
// ordered by period revenue, descending, ties in encounter order.
func (e *Engine) Analyze(rows []models.RawRow, f models.Filters, cfg models.AnalyticsConfig) []models.AnalysisResult {
	if rows == nil {
		return nil
	}
	groups := GroupByProduct(FilterRows(rows, f))
	results := make([]models.AnalysisResult, 0, len(groups))
	for _, g := range groups {
		results = append(results, e.analyzeProduct(g, cfg))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PeriodTotals.Revenue.GreaterThan(results[j].PeriodTotals.Revenue)
	})
	return results
}

func (e *Engine) analyzeProduct(g ProductGroup, cfg models.AnalyticsConfig) models.AnalysisResult {
	daily := e.dailyBreakdown(g.Rows, cfg)
	totals := Aggregate(g.Rows)
	period := e.ComputeMetrics(totals, cfg)

	name := g.Rows[0].ProductName
	if name == "" {
		name = PlaceholderProductName
	}
	return models.AnalysisResult{
		ProductID:    g.ProductID,
		ProductName:  name,
		Banner:       DeriveBanner(totals, period),
		PeriodTotals: period,
		Daily:        daily,
	}
}

// DayGroup holds one calendar day's rows.
type DayGroup struct {
	Date string
	Rows []models.RawRow
}

// GroupByDay groups rows by the date part of their timestamp, ascending.
// Rows with unparseable dates are dropped.
func GroupByDay(rows []models.RawRow) []DayGroup {
	byDay := map[string][]models.RawRow{}
	for _, r := range rows {
		d, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		key := d.Format(dayLayout)
		byDay[key] = append(byDay[key], r)
	}

	out := make([]DayGroup, 0, len(byDay))
	for day, rs := range byDay {
		out = append(out, DayGroup{Date: day, Rows: rs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (e *Engine) dailyBreakdown(rows []models.RawRow, cfg models.AnalyticsConfig) []models.DailyMetricSet {
	days := GroupByDay(rows)
	out := make([]models.DailyMetricSet, 0, len(days))
	for _, d := range days {
		out = append(out, models.DailyMetricSet{
			Date:      d.Date,
			MetricSet: e.ComputeMetrics(Aggregate(d.Rows), cfg),
		})
	}
	return out
}

func selectorMatch(selector, value string) bool {
	return selector == "" || selector == models.SelectorAll || selector == value
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
