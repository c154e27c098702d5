package whatif

import (
	"slices"
	"strings"

	"github.com/etnz/whatif/date"
	"github.com/shopspring/decimal"
)

// sortTrades returns a copy of trades sorted by ISO date, stable on ties.
func sortTrades(trades []Trade) []Trade {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b Trade) int { return strings.Compare(a.Date, b.Date) })
	return sorted
}

// sortCashFlows returns a copy of flows sorted by ISO date, stable on ties.
func sortCashFlows(flows []CashFlow) []CashFlow {
	sorted := slices.Clone(flows)
	slices.SortStableFunc(sorted, func(a, b CashFlow) int { return strings.Compare(a.Date, b.Date) })
	return sorted
}

// CalculatePortfolioTimeSeries reconstructs, for every day the index has a price,
// the value of the traded portfolio and the value of the same money invested in the
// index instead.
//
// Two policies are decided once per run, independently:
//   - cost basis comes from cash flows when their amounts sum to a positive value,
//     from net trade amounts otherwise;
//   - counterfactual index shares come from deposit cash flows when there is at
//     least one, from trade amounts otherwise.
//
// Historical prices are un-adjusted with splitsByTicker so that trade share counts
// value correctly. Days with no positive cost basis are not emitted. Money and
// percentages are rounded to 2 decimals.
func CalculatePortfolioTimeSeries(trades []Trade, pricesByTicker map[string][]StockPrice, indexPrices []StockPrice, cashFlows []CashFlow, splitsByTicker map[string][]StockSplit) []PortfolioDataPoint {
	index := NewPriceIndex(indexPrices)
	if len(trades) == 0 || index.Len() == 0 {
		return []PortfolioDataPoint{}
	}

	sorted := sortTrades(trades)

	unadjusted := make(map[string]*UnadjustedPriceIndex, len(pricesByTicker))
	for ticker, series := range pricesByTicker {
		unadjusted[ticker] = NewUnadjustedPriceIndex(ticker, series, splitsByTicker[ticker])
	}

	flows := sortCashFlows(cashFlows)
	var flowTotal decimal.Decimal
	hasDeposit := false
	for _, cf := range flows {
		flowTotal = flowTotal.Add(dec(cf.Amount))
		if cf.Type == Deposit {
			hasDeposit = true
		}
	}
	cashFlowBasis := flowTotal.IsPositive()

	// Cumulative cash flows, for the cash-flow cost basis.
	var cumulativeFlows date.History[decimal.Decimal]
	if cashFlowBasis {
		var running decimal.Decimal
		for _, cf := range flows {
			running = running.Add(dec(cf.Amount))
			cumulativeFlows.Append(cf.Date, running)
		}
	}

	// Cumulative index shares bought with deposits, for the deposit basis.
	var depositShares date.History[decimal.Decimal]
	if hasDeposit {
		var running decimal.Decimal
		for _, cf := range flows {
			if cf.Type != Deposit {
				continue
			}
			running = running.Add(div(dec(cf.Amount), index.closeOnOrBefore(cf.Date)))
			depositShares.Append(cf.Date, running)
		}
	}

	// Signed index shares each trade would have bought or sold, for the trade basis.
	// An unknown price counts as zero here.
	deltas := make([]decimal.Decimal, len(sorted))
	for i, t := range sorted {
		value, _ := t.value()
		shares := div(value, index.closeOnOrBefore(t.Date))
		switch t.Side {
		case Buy:
			deltas[i] = shares
		case Sell:
			deltas[i] = shares.Neg()
		}
	}

	held := make(map[string]decimal.Decimal)
	var tradeCost, tradeIndexShares decimal.Decimal
	next := 0

	points := make([]PortfolioDataPoint, 0, index.Len())
	for day, quote := range index.prices.Values() {
		for ; next < len(sorted) && sorted[next].Date <= day; next++ {
			t := sorted[next]
			value, _ := t.value()
			switch t.Side {
			case Buy:
				held[t.Ticker] = held[t.Ticker].Add(dec(t.Shares))
				tradeCost = tradeCost.Add(value)
			case Sell:
				held[t.Ticker] = held[t.Ticker].Sub(dec(t.Shares))
				tradeCost = tradeCost.Sub(value)
			}
			tradeIndexShares = tradeIndexShares.Add(deltas[next])
		}

		var portfolioValue decimal.Decimal
		for ticker, shares := range held {
			if !shares.IsPositive() {
				continue
			}
			price, _ := unadjusted[ticker].priceOnOrBefore(day)
			portfolioValue = portfolioValue.Add(shares.Mul(price))
		}

		indexShares := tradeIndexShares
		if hasDeposit {
			indexShares, _ = depositShares.ValueAsOf(day)
		}
		indexShares = floor0(indexShares)
		counterfactualValue := indexShares.Mul(dec(quote.Close))

		costBasis := floor0(tradeCost)
		if cashFlowBasis {
			costBasis, _ = cumulativeFlows.ValueAsOf(day)
		}
		if !costBasis.IsPositive() {
			continue
		}

		points = append(points, PortfolioDataPoint{
			Date:                 day,
			PortfolioValue:       round2(portfolioValue),
			CounterfactualValue:  round2(counterfactualValue),
			CostBasis:            round2(costBasis),
			PortfolioReturn:      returnOf(portfolioValue, costBasis),
			CounterfactualReturn: returnOf(counterfactualValue, costBasis),
			IndexShares:          indexShares.Round(6).InexactFloat64(),
		})
	}
	return points
}
