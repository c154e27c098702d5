package whatif

import "slices"

// ResolveTradePrices returns a copy of trades where every trade without a price gets
// the intraday high of its ticker on that day (on or before, like every lookup).
//
// Provider highs are split-adjusted while trade share counts are not, so the high is
// first un-adjusted with splitsByTicker. Trades of a ticker without prices keep an
// unknown price. The result shares no memory with trades.
func ResolveTradePrices(trades []Trade, pricesByTicker map[string][]StockPrice, splitsByTicker map[string][]StockSplit) []Trade {
	indexes := make(map[string]*UnadjustedPriceIndex)
	resolved := slices.Clone(trades)
	for i, t := range resolved {
		if t.Price != nil {
			price := *t.Price
			resolved[i].Price = &price
			continue
		}
		x, ok := indexes[t.Ticker]
		if !ok {
			x = NewUnadjustedPriceIndex(t.Ticker, pricesByTicker[t.Ticker], splitsByTicker[t.Ticker])
			indexes[t.Ticker] = x
		}
		if high, ok := x.HighOnOrBefore(t.Date); ok {
			resolved[i].Price = &high
		}
	}
	return resolved
}

// Tickers returns the sorted set of tickers traded.
func Tickers(trades []Trade) []string {
	tickers := make([]string, 0)
	for _, t := range trades {
		if t.Ticker != "" && !slices.Contains(tickers, t.Ticker) {
			tickers = append(tickers, t.Ticker)
		}
	}
	slices.Sort(tickers)
	return tickers
}
