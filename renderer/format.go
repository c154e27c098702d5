package renderer

import (
	"strconv"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/etnz/whatif"
	"github.com/shopspring/decimal"
)

// funcs are the formatting functions available to every template.
var funcs = template.FuncMap{
	"money":         formatMoney,
	"signedMoney":   signedMoney,
	"percent":       func(p whatif.Percent) string { return p.String() },
	"signedPercent": func(p whatif.Percent) string { return p.SignedString() },
	"shares":        formatShares,
}

// formatMoney formats a USD amount, like $1,234.56.
func formatMoney(v float64) string {
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// signedMoney is like formatMoney with an explicit sign. Zero is "-".
func signedMoney(v float64) string {
	s := formatMoney(v)
	switch {
	case s == formatMoney(0):
		return "-"
	case v > 0:
		return "+" + s
	}
	return s
}

func formatShares(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
