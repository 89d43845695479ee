package analytics

import (
	"math"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// Aggregate sums the six counters of rows. Money is summed as decimals so
// partition sums reconcile exactly with the sum of the union.
func Aggregate(rows []models.RawRow) models.Totals {
	var t models.Totals
	for _, r := range rows {
		t = t.Add(models.Totals{
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
			CartAdds:    r.CartAdds,
			Orders:      r.Orders,
			Spend:       r.Spend,
			Revenue:     r.Revenue,
		})
	}
	return t
}

// SafeDivide returns ok=false when the ratio is undefined: a non-zero
// numerator over zero, or any non-finite operand. 0/0 is 0.
func SafeDivide(num, den float64) (float64, bool) {
	if den == 0 {
		if num == 0 {
			return 0, true
		}
		return 0, false
	}
	if math.IsInf(num, 0) || math.IsNaN(num) || math.IsInf(den, 0) || math.IsNaN(den) {
		return 0, false
	}
	return num / den, true
}
