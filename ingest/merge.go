package ingest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/whatif"
)

// Merge concatenates several imports, typically overlapping exports of the same
// account, and removes the entries that appear in more than one of them.
//
// Within a single import every entry is kept, even identical ones: two identical
// buys on the same day are two buys. Across imports an entry is kept as many times
// as the import that holds it the most. Output is sorted by date, stable.
func Merge(imports ...*Import) ([]whatif.Trade, []whatif.CashFlow) {
	trades := make([]whatif.Trade, 0)
	flows := make([]whatif.CashFlow, 0)
	keptTrades := make(map[string]int)
	keptFlows := make(map[string]int)

	for _, imp := range imports {
		if imp == nil {
			continue
		}
		seen := make(map[string]int)
		for _, t := range imp.Trades {
			k := tradeKey(t)
			seen[k]++
			if seen[k] > keptTrades[k] {
				keptTrades[k]++
				trades = append(trades, t)
			}
		}
		seen = make(map[string]int)
		for _, cf := range imp.CashFlows {
			k := cashFlowKey(cf)
			seen[k]++
			if seen[k] > keptFlows[k] {
				keptFlows[k]++
				flows = append(flows, cf)
			}
		}
	}

	slices.SortStableFunc(trades, func(a, b whatif.Trade) int { return strings.Compare(a.Date, b.Date) })
	slices.SortStableFunc(flows, func(a, b whatif.CashFlow) int { return strings.Compare(a.Date, b.Date) })
	return trades, flows
}

func tradeKey(t whatif.Trade) string {
	price := "-"
	if t.Price != nil {
		price = fmt.Sprint(*t.Price)
	}
	return fmt.Sprintf("%s|%s|%s|%v|%s", t.Date, t.Ticker, t.Side, t.Shares, price)
}

func cashFlowKey(cf whatif.CashFlow) string {
	return fmt.Sprintf("%s|%s|%s|%v", cf.Date, cf.Type, cf.Ticker, cf.Amount)
}
