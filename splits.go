package whatif

import (
	"slices"
	"sort"
	"strings"

	"github.com/etnz/whatif/date"
	"github.com/shopspring/decimal"
)

// sortSplits returns a copy of splits sorted by date.
func sortSplits(splits []StockSplit) []StockSplit {
	sorted := slices.Clone(splits)
	slices.SortStableFunc(sorted, func(a, b StockSplit) int { return strings.Compare(a.Date, b.Date) })
	return sorted
}

// splitFactor multiplies the factors of every split of sorted dated strictly after day.
func splitFactor(sorted []StockSplit, day string) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	first := sort.Search(len(sorted), func(i int) bool { return sorted[i].Date > day })
	for _, s := range sorted[first:] {
		f := dec(s.Factor)
		if !f.IsPositive() {
			continue // not a split
		}
		factor = factor.Mul(f)
	}
	return factor
}

// SplitFactor returns the factor that converts a split-adjusted price dated day back
// to the price actually quoted that day: the product of the factors of every split
// dated strictly after day. A price dated after every split gets 1.
//
// splits must belong to a single ticker.
func SplitFactor(splits []StockSplit, day string) float64 {
	return splitFactor(sortSplits(splits), day).InexactFloat64()
}

// UnadjustedPriceIndex maps days to the price as actually traded on that day, from a
// provider series that was retroactively adjusted for splits.
//
// It has the same on-or-before and clamp-to-first contract as PriceIndex.
type UnadjustedPriceIndex struct {
	prices date.History[trueQuote]
}

// trueQuote is the true close and intraday high of a day.
type trueQuote struct {
	close decimal.Decimal
	high  decimal.Decimal
}

// NewUnadjustedPriceIndex precomputes the true prices of ticker. Splits that belong
// to another ticker are ignored.
func NewUnadjustedPriceIndex(ticker string, series []StockPrice, splits []StockSplit) *UnadjustedPriceIndex {
	own := make([]StockSplit, 0, len(splits))
	for _, s := range splits {
		if s.Ticker == "" || s.Ticker == ticker {
			own = append(own, s)
		}
	}
	own = sortSplits(own)

	x := new(UnadjustedPriceIndex)
	for day, q := range NewPriceIndex(series).prices.Values() {
		factor := splitFactor(own, day)
		high := dec(q.Close)
		if q.High != nil {
			high = dec(*q.High)
		}
		x.prices.Append(day, trueQuote{
			close: dec(q.Close).Mul(factor),
			high:  high.Mul(factor),
		})
	}
	return x
}

func (x *UnadjustedPriceIndex) onOrBefore(day string) (trueQuote, bool) {
	if x == nil {
		return trueQuote{}, false
	}
	return x.prices.ValueOnOrBefore(day)
}

func (x *UnadjustedPriceIndex) priceOnOrBefore(day string) (decimal.Decimal, bool) {
	u, ok := x.onOrBefore(day)
	return u.close, ok
}

// PriceOnOrBefore returns the true close price on or before day.
func (x *UnadjustedPriceIndex) PriceOnOrBefore(day string) (float64, bool) {
	p, ok := x.priceOnOrBefore(day)
	return p.InexactFloat64(), ok
}

// HighOnOrBefore returns the true intraday high on or before day, or the true close
// when the provider gave no high.
func (x *UnadjustedPriceIndex) HighOnOrBefore(day string) (float64, bool) {
	u, ok := x.onOrBefore(day)
	return u.high.InexactFloat64(), ok
}

// Len returns the number of days in the index.
func (x *UnadjustedPriceIndex) Len() int {
	if x == nil {
		return 0
	}
	return x.prices.Len()
}
