package export

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders amounts as symbol + Japanese digit grouping, e.g. ¥1,234.5
type CurrencyFormatter struct {
	symbol  string
	printer *message.Printer
}

// NewCurrencyFormatter creates a formatter using symbol as prefix
func NewCurrencyFormatter(symbol string) *CurrencyFormatter {
	return &CurrencyFormatter{
		symbol:  symbol,
		printer: message.NewPrinter(language.Japanese),
	}
}

// Format renders v with at most three fraction digits
func (f *CurrencyFormatter) Format(v float64) string {
	return f.symbol + f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// formatPlain renders a number the shortest way that round-trips, e.g. 2 or 10.5
func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
