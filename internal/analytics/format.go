package analytics

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// Placeholder is displayed for metrics that cannot be calculated.
	Placeholder    = "—"
	CurrencySuffix = "₽"
)

// Formatter renders metric values for display in a given locale.
type Formatter struct {
	p *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

func (f *Formatter) Count(v int64) string { return f.p.Sprintf("%d", v) }

func (f *Formatter) Currency(v float64) string {
	return f.p.Sprintf("%.1f", v) + " " + CurrencySuffix
}

func (f *Formatter) Percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}

func (f *Formatter) Ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
