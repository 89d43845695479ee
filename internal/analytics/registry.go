package analytics

import "github.com/AngelCh415/wb-ads-analytics/internal/models"

const (
	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
	MetricCTR         = "ctr"
	MetricCPC         = "cpc"
	MetricCPM         = "cpm"
	MetricCartRate    = "cart_rate"
	MetricOrders      = "orders"
	MetricCR          = "cr"
	MetricSpend       = "spend"
	MetricRevenue     = "revenue"
	MetricAvgCheck    = "avg_check"
	MetricCPA         = "cpa"
	MetricROAS        = "roas"
	MetricDRR         = "drr"
)

// MetricNames is the display order of the fourteen metrics.
var MetricNames = []string{
	MetricImpressions, MetricClicks, MetricCTR, MetricCPC, MetricCPM,
	MetricCartRate, MetricCR, MetricOrders, MetricAvgCheck, MetricRevenue,
	MetricSpend, MetricCPA, MetricROAS, MetricDRR,
}

type unit int

const (
	unitCount unit = iota
	unitPercent
	unitCurrency
	unitRatio
	unitCartRate
)

type metricDef struct {
	formula     string
	nullTooltip string
	statusTexts map[models.Status]string
	unit        unit
	simple      bool
	value       func(t models.Totals) (float64, bool)
	rule        func(v float64, cfg models.AnalyticsConfig) models.Status
}

var registry = map[string]metricDef{
	MetricImpressions: {
		formula: "Sum of impressions over the period.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "Enough impressions.",
			models.StatusWarn: "Too few impressions for representative statistics.",
			models.StatusBad:  "Few impressions: the product is losing the auction. Check CPM, limits and bid.",
		},
		unit:   unitCount,
		simple: true,
		value:  func(t models.Totals) (float64, bool) { return float64(t.Impressions), true },
		rule:   atLeast(5000, 2000),
	},
	MetricClicks: {
		formula: "Sum of clicks over the period.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "Enough clicks.",
			models.StatusWarn: "Too few clicks to make decisions.",
			models.StatusBad:  "Low engagement. If CTR is fine raise CPM; if CTR is low rework the photo and title.",
		},
		unit:   unitCount,
		simple: true,
		value:  func(t models.Totals) (float64, bool) { return float64(t.Clicks), true },
		rule:   atLeast(150, 50),
	},
	MetricCTR: {
		formula:     "CTR = Clicks / Impressions × 100%",
		nullTooltip: "No impressions: CTR cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "High CTR: the card attracts attention well.",
			models.StatusWarn: "Average CTR: the photo or title could be stronger.",
			models.StatusBad:  "Low CTR: nobody clicks the ad. Update the cover, price and text.",
		},
		unit: unitPercent,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(float64(t.Clicks), float64(t.Impressions))
		},
		rule: atLeast(0.025, 0.015),
	},
	MetricCPC: {
		formula:     "CPC = Spend / Clicks",
		nullTooltip: "No clicks: CPC cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "Cost per click is low.",
			models.StatusWarn: "Cost per click is average.",
			models.StatusBad:  "Clicks are expensive. The bid or auction is high.",
		},
		unit: unitCurrency,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(t.Spend.InexactFloat64(), float64(t.Clicks))
		},
		rule: below(10, 15),
	},
	MetricCPM: {
		formula:     "CPM = Spend / (Impressions / 1000)",
		nullTooltip: "No impressions: CPM cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusNeutral: "Cost of 1000 impressions. Helps judge competition and the auction bid.",
		},
		unit: unitCurrency,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(t.Spend.InexactFloat64(), float64(t.Impressions)/1000)
		},
	},
	MetricCartRate: {
		formula:     "Cart rate = Cart adds / Clicks × 100%",
		nullTooltip: "No clicks: interest after the click cannot be measured.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "How many people added the product to the cart after clicking.",
			models.StatusWarn: "How many people added the product to the cart after clicking. If low, price, stock or sizes may not fit.",
			models.StatusBad:  "How many people added the product to the cart after clicking. If low, price, stock or sizes may not fit.",
		},
		unit: unitCartRate,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(float64(t.CartAdds), float64(t.Clicks))
		},
		rule: atLeast(0.10, 0.05),
	},
	MetricOrders: {
		formula: "Sum of ordered items over the period.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "Enough orders for analysis.",
			models.StatusWarn: "Too few orders for confident conclusions.",
			models.StatusBad:  "Not enough data: avoid hard conclusions, widen reach or extend the test.",
		},
		unit:   unitCount,
		simple: true,
		value:  func(t models.Totals) (float64, bool) { return float64(t.Orders), true },
		rule:   atLeast(10, 3),
	},
	MetricCR: {
		formula:     "CR = Orders / Clicks × 100%",
		nullTooltip: "No clicks: CR cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusGood: "The card converts into orders well.",
			models.StatusWarn: "Average conversion.",
			models.StatusBad:  "Low conversion into orders: the card does not convince (price, reviews, photos, sizes).",
		},
		unit: unitPercent,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(float64(t.Orders), float64(t.Clicks))
		},
		rule: atLeast(0.05, 0.02),
	},
	MetricSpend: {
		formula: "Spend = sum of advertising costs.",
		statusTexts: map[models.Status]string{
			models.StatusNeutral: "How much was spent on advertising in the selected period.",
		},
		unit:   unitCurrency,
		simple: true,
		value:  func(t models.Totals) (float64, bool) { return t.Spend.InexactFloat64(), true },
	},
	MetricRevenue: {
		formula: "Sum of order revenue over the period.",
		statusTexts: map[models.Status]string{
			models.StatusNeutral: "Total revenue from orders attributed to advertising.",
		},
		unit:   unitCurrency,
		simple: true,
		value:  func(t models.Totals) (float64, bool) { return t.Revenue.InexactFloat64(), true },
	},
	MetricAvgCheck: {
		formula:     "Average check = Revenue / Orders",
		nullTooltip: "No orders: the average check cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusNeutral: "Average value of one order for this product.",
		},
		unit: unitCurrency,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(t.Revenue.InexactFloat64(), float64(t.Orders))
		},
	},
	MetricCPA: {
		formula:     "CPA = Spend / Orders",
		nullTooltip: "No orders from ads or ads were not running: CPA cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusGood:    "Cost per order is low.",
			models.StatusWarn:    "Cost per order is on the edge.",
			models.StatusBad:     "Orders are too expensive.",
			models.StatusNeutral: "No orders from ads or ads were not running: CPA cannot be calculated.",
		},
		unit: unitCurrency,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(t.Spend.InexactFloat64(), float64(t.Orders))
		},
		rule: below(200, 400),
	},
	MetricROAS: {
		formula:     "ROAS = Revenue / Spend",
		nullTooltip: "Ads were not running or there was no spend: ROAS cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusGood:    "Ads pay off.",
			models.StatusWarn:    "Payback is on the edge, keep an eye on bids.",
			models.StatusBad:     "Ads do not recover their cost.",
			models.StatusNeutral: "Ads were not running or there was no spend: ROAS cannot be calculated.",
		},
		unit: unitRatio,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(t.Revenue.InexactFloat64(), t.Spend.InexactFloat64())
		},
		rule: atLeast(8, 4),
	},
	MetricDRR: {
		formula:     "DRR = Spend / Revenue × 100%",
		nullTooltip: "No sales from ads or ads were not running: DRR cannot be calculated.",
		statusTexts: map[models.Status]string{
			models.StatusGood:    "Ad spend share is low: advertising is profitable.",
			models.StatusWarn:    "DRR is acceptable but needs optimisation.",
			models.StatusBad:     "DRR is too high: advertising eats the margin.",
			models.StatusNeutral: "No sales from ads or ads were not running: DRR cannot be calculated.",
		},
		unit: unitPercent,
		value: func(t models.Totals) (float64, bool) {
			return SafeDivide(t.Spend.InexactFloat64(), t.Revenue.InexactFloat64())
		},
		rule: drrStatus,
	},
}
