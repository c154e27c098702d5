package whatif

import (
	"iter"
	"slices"
	"strings"

	"github.com/etnz/whatif/date"
	"github.com/shopspring/decimal"
)

// PriceIndex is an ordered, day-keyed view over a ticker's price history.
//
// Lookups are "on or before": the latest entry dated at or before the target day.
// When the target precedes every entry, the earliest entry is used instead. Only an
// empty index has no answer.
type PriceIndex struct {
	prices date.History[StockPrice]
}

// NewPriceIndex builds an index over a copy of series, sorted by date. When several
// entries share a date, the last one wins.
func NewPriceIndex(series []StockPrice) *PriceIndex {
	sorted := slices.Clone(series)
	slices.SortStableFunc(sorted, func(a, b StockPrice) int { return strings.Compare(a.Date, b.Date) })
	x := new(PriceIndex)
	for _, p := range sorted {
		x.prices.Append(p.Date, p)
	}
	return x
}

// Len returns the number of days in the index.
func (x *PriceIndex) Len() int {
	if x == nil {
		return 0
	}
	return x.prices.Len()
}

// Days returns the days of the index in chronological order.
func (x *PriceIndex) Days() iter.Seq[string] {
	if x == nil {
		return func(func(string) bool) {}
	}
	return x.prices.Days()
}

func (x *PriceIndex) quoteOnOrBefore(day string) (StockPrice, bool) {
	if x == nil {
		return StockPrice{}, false
	}
	return x.prices.ValueOnOrBefore(day)
}

// PriceOnOrBefore returns the close price on or before day.
func (x *PriceIndex) PriceOnOrBefore(day string) (float64, bool) {
	q, ok := x.quoteOnOrBefore(day)
	return q.Close, ok
}

// HighOnOrBefore returns the intraday high on or before day, or the close when the
// entry has no high.
func (x *PriceIndex) HighOnOrBefore(day string) (float64, bool) {
	q, ok := x.quoteOnOrBefore(day)
	if q.High != nil {
		return *q.High, ok
	}
	return q.Close, ok
}

// Latest returns the last close price of the index, and false if the index is empty.
func (x *PriceIndex) Latest() (float64, bool) {
	if x == nil {
		return 0, false
	}
	_, q, ok := x.prices.Latest()
	return q.Close, ok
}

func (x *PriceIndex) closeOnOrBefore(day string) decimal.Decimal {
	p, _ := x.PriceOnOrBefore(day)
	return dec(p)
}

func (x *PriceIndex) latest() decimal.Decimal {
	p, _ := x.Latest()
	return dec(p)
}

// PriceOnOrBefore returns the close price of series on or before day, clamped to the
// first known price. It returns false only for an empty series.
func PriceOnOrBefore(series []StockPrice, day string) (float64, bool) {
	return NewPriceIndex(series).PriceOnOrBefore(day)
}

// HighPriceOnOrBefore is like PriceOnOrBefore but returns the intraday high when the
// entry has one.
func HighPriceOnOrBefore(series []StockPrice, day string) (float64, bool) {
	return NewPriceIndex(series).HighOnOrBefore(day)
}

// LatestPrice returns the close price of the latest entry of series.
//
// An empty series yields 0, which callers cannot tell apart from a genuine zero
// price; use PriceIndex.Latest when the distinction matters.
func LatestPrice(series []StockPrice) float64 {
	p, _ := NewPriceIndex(series).Latest()
	return p
}
