package analytics

import (
	"slices"
	"strings"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

const (
	LabelScaleUp        = "scale up"
	LabelNeedsAttention = "needs attention"
	LabelIneffective    = "ineffective"
	LabelNeedsReview    = "needs review"
	LabelNotDelivering  = "ad not delivering"
)

// keyMetrics drive the overall verdict.
var keyMetrics = []string{MetricCTR, MetricCR, MetricCPA, MetricROAS, MetricDRR}

// warnTips are appended per flagged metric in the "needs attention" tooltip.
var warnTips = []struct {
	metric string
	tip    string
}{
	{MetricCTR, "Low click-through. Check the first photo and the title (price, selling point)."},
	{MetricCPC, "Clicks are expensive. Try lowering CPM or moving the product into a separate campaign."},
	{MetricCR, "Average conversion. Improve the card: full-length photos, size chart, reviews, sizes in stock."},
	{MetricCPA, "Cost per order is high. Lower the bid or strengthen the card so it sells faster."},
	{MetricROAS, "Payback is on the edge. Lower CPC or raise the average check (bundles, accessories)."},
	{MetricDRR, "DRR is close to the margin. Do not scale until the card is improved."},
}

// DeriveBanner turns period totals and their metrics into one verdict.
func DeriveBanner(t models.Totals, ms models.MetricSet) models.Banner {
	status := overallStatus(t, ms)

	var label string
	if t.Impressions == 0 {
		label = LabelNotDelivering
		status = models.StatusWarn
	} else {
		switch status {
		case models.StatusGood:
			label = LabelScaleUp
		case models.StatusWarn:
			label = LabelNeedsAttention
		case models.StatusBad:
			label = LabelIneffective
		default:
			label = LabelNeedsReview
		}
	}

	return models.Banner{
		Status:    status,
		ShortText: label,
		Tooltip:   bannerTooltip(status, t, ms),
	}
}

func overallStatus(t models.Totals, ms models.MetricSet) models.Status {
	if t.Spend.IsPositive() && t.Orders == 0 {
		return models.StatusBad
	}
	statuses := make([]models.Status, 0, len(keyMetrics))
	for _, name := range keyMetrics {
		statuses = append(statuses, ms.Metrics[name].Status)
	}
	if slices.Contains(statuses, models.StatusBad) {
		return models.StatusBad
	}
	if slices.Contains(statuses, models.StatusWarn) {
		return models.StatusWarn
	}
	for _, name := range []string{MetricCPA, MetricROAS, MetricDRR, MetricCR} {
		if ms.Metrics[name].Status != models.StatusGood {
			return models.StatusNeutral
		}
	}
	return models.StatusGood
}

func bannerTooltip(status models.Status, t models.Totals, ms models.MetricSet) string {
	if t.Impressions == 0 {
		rows := []string{
			"Ads are not running: no impressions.",
			"Check the daily budget, the CPM bid and the campaign status (is it paused?).",
		}
		if t.Revenue.IsPositive() {
			rows = append(rows, "Sales in the table came organically, not from ads.")
		}
		return strings.Join(rows, "\n")
	}

	switch status {
	case models.StatusBad:
		first := "There is spend but no sales, or ads do not pay off."
		if t.Spend.IsPositive() && t.Orders == 0 {
			first = "Money is being spent with zero orders: the budget is leaking."
		}
		return strings.Join([]string{
			first,
			"Action: stop advertising this product.",
			"Before relaunching, improve the card: photos, reviews, price, sizes in stock, the offer.",
		}, "\n")
	case models.StatusGood:
		return strings.Join([]string{
			"Advertising pays off. The card sells steadily.",
			"Action: raise the budget or CPM by 10–20%, while watching ROAS and DRR.",
			"Make sure CPA does not grow and ad cost stays within the margin.",
		}, "\n")
	case models.StatusWarn:
		rows := []string{"Optimisation needed: some metrics are in the yellow or red zone."}
		for _, wt := range warnTips {
			if s := ms.Metrics[wt.metric].Status; s == models.StatusWarn || s == models.StatusBad {
				rows = append(rows, wt.tip)
			}
		}
		if len(rows) == 1 {
			rows = append(rows, "There is room to grow. Check the bid, the creative and the card.")
		}
		return strings.Join(rows, "\n")
	default:
		return "Status is undetermined. Check the data."
	}
}
