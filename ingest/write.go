package ingest

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/whatif"
)

// genericHeader is the header row of the generic dialect.
var genericHeader = []string{"date", "type", "ticker", "shares", "price", "amount"}

// WriteGeneric writes trades and cash flows in the generic dialect, sorted by date.
// On a given day trades come before cash flows.
func WriteGeneric(w io.Writer, trades []whatif.Trade, cashFlows []whatif.CashFlow) error {
	records := make([][]string, 0, len(trades)+len(cashFlows))
	for _, t := range trades {
		price := ""
		if t.Price != nil {
			price = formatNumber(*t.Price)
		}
		records = append(records, []string{t.Date, string(t.Side), t.Ticker, formatNumber(t.Shares), price, ""})
	}
	for _, cf := range cashFlows {
		records = append(records, []string{cf.Date, string(cf.Type), cf.Ticker, "", "", formatNumber(cf.Amount)})
	}
	slices.SortStableFunc(records, func(a, b []string) int { return strings.Compare(a[0], b[0]) })

	cw := csv.NewWriter(w)
	if err := cw.Write(genericHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

func formatNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
