package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/wb-ads-analytics/internal/models"
)

// Column headers of the marketplace ads export.
const (
	HeaderCampaignID    = "ID кампании"
	HeaderTrafficSource = "Источник трафика"
	HeaderProductID     = "Артикул WB"
	HeaderProductName   = "Название товара"
	HeaderDate          = "Дата"
	HeaderImpressions   = "Показы"
	HeaderClicks        = "Клики"
	HeaderCTR           = "CTR %"
	HeaderSpend         = "Затраты, ₽"
	HeaderCartAdds      = "Добавления в корзину"
	HeaderOrders        = "Заказано товаров, шт"
	HeaderRevenue       = "Заказано на сумму, ₽"
)

var requiredHeaders = []string{
	HeaderCampaignID, HeaderTrafficSource, HeaderProductID, HeaderDate,
	HeaderImpressions, HeaderClicks, HeaderSpend, HeaderRevenue,
}

var ErrMissingHeaders = errors.New("csv must contain headers")

var dottedDateRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)

// ParseAdsCSV parses the ads export. Rows without a date or product id are
// dropped; unparseable numbers read as zero.
func ParseAdsCSV(text string) ([]models.RawRow, error) {
	rows, _, err := parseAdsCSV(text)
	return rows, err
}

func parseAdsCSV(text string) ([]models.RawRow, int, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "\uFEFF")

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return []models.RawRow{}, 0, nil
	}

	idx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := idx[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}

	get := func(rec []string, h string) string {
		i, ok := idx[h]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := make([]models.RawRow, 0, len(records)-1)
	dropped := 0
	for _, rec := range records[1:] {
		row := models.RawRow{
			CampaignID:    get(rec, HeaderCampaignID),
			TrafficSource: get(rec, HeaderTrafficSource),
			ProductID:     get(rec, HeaderProductID),
			ProductName:   get(rec, HeaderProductName),
			Date:          normalizeDate(get(rec, HeaderDate)),
			Impressions:   parseNumber(get(rec, HeaderImpressions)).IntPart(),
			Clicks:        parseNumber(get(rec, HeaderClicks)).IntPart(),
			CTR:           parseNumber(get(rec, HeaderCTR)).InexactFloat64(),
			CartAdds:      parseNumber(get(rec, HeaderCartAdds)).IntPart(),
			Orders:        parseNumber(get(rec, HeaderOrders)).IntPart(),
			Spend:         parseNumber(get(rec, HeaderSpend)),
			Revenue:       parseNumber(get(rec, HeaderRevenue)),
		}
		if row.Date == "" || row.ProductID == "" {
			dropped++
			continue
		}
		out = append(out, row)
	}
	return out, dropped, nil
}

// parseNumber accepts a decimal comma and space digit grouping.
func parseNumber(s string) decimal.Decimal {
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	s = strings.Replace(s, ",", ".", 1)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// normalizeDate rewrites DD.MM.YYYY as YYYY-MM-DD.
func normalizeDate(s string) string {
	if m := dottedDateRe.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return s
}
