// Package marketdata fetches the daily prices and the split history that the
// counterfactual engines consume.
//
// Providers return split-adjusted series, as market-data vendors publish them.
// Caching is explicit: a Cache is owned by its caller and lives as long as it
// decides, and NewCachingClient keeps raw HTTP responses on disk for the day.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
)

// ErrNoData is returned when a provider has nothing for a ticker.
var ErrNoData = errors.New("no market data")

// Provider is a source of daily prices and splits.
type Provider interface {
	// Name identifies the provider, it is part of cache keys.
	Name() string
	// Prices returns the split-adjusted daily closes (and highs when known) of
	// ticker within r, sorted by date.
	Prices(ctx context.Context, ticker string, r date.Range) ([]whatif.StockPrice, error)
	// Splits returns the splits of ticker within r, sorted by date.
	Splits(ctx context.Context, ticker string, r date.Range) ([]whatif.StockSplit, error)
}

const userAgent = "whatif/1.0"

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("cannot decode %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	return nil
}

// clientOrDefault returns client, or a client with the daily disk cache in the
// temporary directory when it is nil.
func clientOrDefault(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return NewCachingClient("")
}
