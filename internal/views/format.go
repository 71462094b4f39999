package views

import (
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var funcs = template.FuncMap{
	"usd":    USD,
	"number": Number,
}

// Number formats n with US thousands separators.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// USD formats an amount as US dollars with cents, e.g. "$65,000.50".
func USD(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	whole := amount.Truncate(0)
	cents := amount.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", whole.IntPart()), cents)
}
