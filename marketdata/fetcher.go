package marketdata

import (
	"context"
	"sync"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of requests a Fetcher runs at once by default.
const DefaultConcurrency = 4

// Data is everything the engines need for one run.
type Data struct {
	Prices map[string][]whatif.StockPrice
	Splits map[string][]whatif.StockSplit
	Index  []whatif.StockPrice
}

// Fetcher loads the series of several tickers and of the index in parallel.
type Fetcher struct {
	Provider Provider
	// Overrides are merged into every ticker's splits. A provider that adjusts
	// prices itself, like EODHD, needs the same table.
	Overrides Overrides
	// Concurrency bounds the number of requests in flight, DefaultConcurrency if
	// zero or less.
	Concurrency int
}

// Fetch loads prices and splits of every ticker, and the prices of index, within r.
//
// A failure on one ticker does not fail the others: its series is left empty and
// the failure is logged. Fetch only returns an error when ctx is done.
func (f *Fetcher) Fetch(ctx context.Context, tickers []string, index string, r date.Range) (*Data, error) {
	data := &Data{
		Prices: make(map[string][]whatif.StockPrice, len(tickers)),
		Splits: make(map[string][]whatif.StockSplit, len(tickers)),
		Index:  []whatif.StockPrice{},
	}
	for _, t := range tickers {
		data.Prices[t] = []whatif.StockPrice{}
		data.Splits[t] = f.Overrides.Apply(t, nil)
	}

	limit := f.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	var mu sync.Mutex

	for _, ticker := range tickers {
		g.Go(func() error {
			prices, err := f.Provider.Prices(gctx, ticker, r)
			if err != nil {
				return isolate(ctx, "prices", ticker, err)
			}
			mu.Lock()
			data.Prices[ticker] = prices
			mu.Unlock()
			return nil
		})
		g.Go(func() error {
			splits, err := f.Provider.Splits(gctx, ticker, r)
			if err != nil {
				return isolate(ctx, "splits", ticker, err)
			}
			mu.Lock()
			data.Splits[ticker] = f.Overrides.Apply(ticker, splits)
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		prices, err := f.Provider.Prices(gctx, index, r)
		if err != nil {
			return isolate(ctx, "index prices", index, err)
		}
		mu.Lock()
		data.Index = prices
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// isolate logs a failed request and swallows it, unless ctx is done.
func isolate(ctx context.Context, what, ticker string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	log.Warn().Err(err).Str("ticker", ticker).Msgf("cannot fetch %s, using an empty series", what)
	return nil
}
