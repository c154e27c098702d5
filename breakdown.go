package whatif

import (
	"slices"

	"github.com/shopspring/decimal"
)

// position accumulates the trades of one ticker.
type position struct {
	shares      decimal.Decimal
	cost        decimal.Decimal
	indexShares decimal.Decimal
	firstBuy    string
}

// CalculateStockBreakdown reports, for every ticker still held, its current value
// against the value of the index shares the same trades would have bought.
//
// Share counts are used raw. The current price is the latest price of the ticker's
// series, as delivered by the provider. Tickers with zero or negative net shares are
// not reported. Rows are sorted by Difference, best first.
func CalculateStockBreakdown(trades []Trade, pricesByTicker map[string][]StockPrice, indexPrices []StockPrice) []StockBreakdownData {
	index := NewPriceIndex(indexPrices)

	positions := make(map[string]*position)
	for _, t := range trades {
		p, ok := positions[t.Ticker]
		if !ok {
			p = new(position)
			positions[t.Ticker] = p
		}
		value, known := t.value()
		if !known {
			value = decimal.Zero // the shares still count
		}
		indexShares := div(value, index.closeOnOrBefore(t.Date))
		switch t.Side {
		case Buy:
			p.shares = p.shares.Add(dec(t.Shares))
			p.cost = p.cost.Add(value)
			p.indexShares = p.indexShares.Add(indexShares)
			if p.firstBuy == "" || t.Date < p.firstBuy {
				p.firstBuy = t.Date
			}
		case Sell:
			p.shares = p.shares.Sub(dec(t.Shares))
			p.cost = p.cost.Sub(value)
			p.indexShares = p.indexShares.Sub(indexShares)
		}
	}

	tickers := make([]string, 0, len(positions))
	for ticker := range positions {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)

	indexPrice := index.latest()

	type ranked struct {
		row        StockBreakdownData
		difference decimal.Decimal
	}
	rows := make([]ranked, 0, len(tickers))
	for _, ticker := range tickers {
		p := positions[ticker]
		if !p.shares.IsPositive() {
			continue
		}
		price := NewPriceIndex(pricesByTicker[ticker]).latest()
		invested := floor0(p.cost)
		currentValue := p.shares.Mul(price)
		counterfactualValue := p.indexShares.Mul(indexPrice)
		gain := currentValue.Sub(invested)
		counterfactualGain := counterfactualValue.Sub(invested)
		difference := gain.Sub(counterfactualGain)

		rows = append(rows, ranked{
			row: StockBreakdownData{
				Ticker:               ticker,
				Shares:               p.shares.InexactFloat64(),
				FirstBuyDate:         p.firstBuy,
				AverageCost:          round2(div(invested, p.shares)),
				CostBasis:            round2(invested),
				CurrentPrice:         price.InexactFloat64(),
				CurrentValue:         round2(currentValue),
				IndexShares:          p.indexShares.Round(6).InexactFloat64(),
				CounterfactualValue:  round2(counterfactualValue),
				Gain:                 round2(gain),
				CounterfactualGain:   round2(counterfactualGain),
				Difference:           round2(difference),
				Return:               returnOf(currentValue, invested),
				CounterfactualReturn: returnOf(counterfactualValue, invested),
			},
			difference: difference,
		})
	}

	slices.SortStableFunc(rows, func(a, b ranked) int { return b.difference.Cmp(a.difference) })

	breakdown := make([]StockBreakdownData, len(rows))
	for i, r := range rows {
		breakdown[i] = r.row
	}
	return breakdown
}
