package marketdata

import (
	"context"
	"slices"
	"sync"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"golang.org/x/sync/singleflight"
)

// Cache is an in-memory Provider in front of another one, for the duration of a
// session. Concurrent identical requests reach the provider once. Errors are not
// cached.
//
// A Cache belongs to whoever created it; there is no package level cache.
type Cache struct {
	provider Provider
	group    singleflight.Group

	mu     sync.Mutex
	prices map[string][]whatif.StockPrice
	splits map[string][]whatif.StockSplit
}

// NewCache returns an empty Cache in front of p.
func NewCache(p Provider) *Cache {
	return &Cache{
		provider: p,
		prices:   make(map[string][]whatif.StockPrice),
		splits:   make(map[string][]whatif.StockSplit),
	}
}

func (c *Cache) Name() string { return c.provider.Name() }

func (c *Cache) key(kind, ticker string, r date.Range) string {
	return c.provider.Name() + " " + kind + " " + ticker + " " + r.String()
}

// Prices implements Provider.
func (c *Cache) Prices(ctx context.Context, ticker string, r date.Range) ([]whatif.StockPrice, error) {
	key := c.key("prices", ticker, r)
	c.mu.Lock()
	cached, ok := c.prices[key]
	c.mu.Unlock()
	if ok {
		return slices.Clone(cached), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		cached, ok := c.prices[key]
		c.mu.Unlock()
		if ok {
			return cached, nil // stored while this call was waiting
		}
		prices, err := c.provider.Prices(ctx, ticker, r)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.prices[key] = prices
		c.mu.Unlock()
		return prices, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]whatif.StockPrice)), nil
}

// Splits implements Provider.
func (c *Cache) Splits(ctx context.Context, ticker string, r date.Range) ([]whatif.StockSplit, error) {
	key := c.key("splits", ticker, r)
	c.mu.Lock()
	cached, ok := c.splits[key]
	c.mu.Unlock()
	if ok {
		return slices.Clone(cached), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		cached, ok := c.splits[key]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
		splits, err := c.provider.Splits(ctx, ticker, r)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.splits[key] = splits
		c.mu.Unlock()
		return splits, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]whatif.StockSplit)), nil
}

// Clear discards every cached series.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.prices)
	clear(c.splits)
}

var _ Provider = (*Cache)(nil)
var _ Provider = (*EODHD)(nil)
var _ Provider = (*Yahoo)(nil)
