package marketdata

import (
	"context"
	"slices"
	"sync"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
)

func px(v float64) *float64 { return &v }

// fakeProvider serves fixed series and counts its calls.
type fakeProvider struct {
	prices map[string][]whatif.StockPrice
	splits map[string][]whatif.StockSplit

	mu    sync.Mutex
	calls map[string]int
}

func (p *fakeProvider) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[key]
}

func (p *fakeProvider) called(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[key]++
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Prices(ctx context.Context, ticker string, r date.Range) ([]whatif.StockPrice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.called("prices " + ticker)
	s, ok := p.prices[ticker]
	if !ok {
		return nil, ErrNoData
	}
	return slices.Clone(s), nil
}

func (p *fakeProvider) Splits(ctx context.Context, ticker string, r date.Range) ([]whatif.StockSplit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.called("splits " + ticker)
	s, ok := p.splits[ticker]
	if !ok {
		return nil, ErrNoData
	}
	return slices.Clone(s), nil
}
