package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/shopspring/decimal"
)

const eodhdBaseURL = "https://eodhd.com/api"

// EODHD is the eodhd.com provider. It needs an API key.
type EODHD struct {
	// Overrides are merged into the split history used to adjust prices. They must
	// be the ones given to the Fetcher, or prices come back un-adjusted by the wrong
	// factor.
	Overrides Overrides

	key     string
	baseURL string
	client  *http.Client
}

// NewEODHD returns an EODHD provider using client, the daily caching client when
// nil.
func NewEODHD(key string, client *http.Client) *EODHD {
	return &EODHD{key: key, baseURL: eodhdBaseURL, client: clientOrDefault(client)}
}

func (e *EODHD) Name() string { return "eodhd" }

// eodhdTicker returns the EODHD symbol of a ticker: US tickers without an exchange
// suffix get ".US", and share classes use a dash (BRK.B is BRK-B.US).
func eodhdTicker(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if i := strings.LastIndex(ticker, "."); i > 0 && len(ticker)-i-1 >= 2 {
		return ticker
	}
	return strings.ReplaceAll(ticker, ".", "-") + ".US"
}

func (e *EODHD) url(endpoint, ticker string, from, to string) string {
	q := url.Values{}
	q.Set("fmt", "json")
	q.Set("api_token", e.key)
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	return fmt.Sprintf("%s/%s/%s?%s", e.baseURL, endpoint, url.PathEscape(eodhdTicker(ticker)), q.Encode())
}

// Prices returns the daily closes and highs of ticker.
//
// EODHD publishes raw prices, and an adjusted_close that also discounts dividends.
// Raw prices are therefore adjusted here with the ticker's full split history,
// overrides included.
func (e *EODHD) Prices(ctx context.Context, ticker string, r date.Range) ([]whatif.StockPrice, error) {
	type apiPrice struct {
		Date  string          `json:"date"`
		Close decimal.Decimal `json:"close"`
		High  decimal.Decimal `json:"high"`
	}
	content := make([]apiPrice, 0)
	if err := jwget(ctx, e.client, e.url("eod", ticker, r.From.String(), r.To.String()), &content); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%s prices of %s: %w", e.Name(), ticker, ErrNoData)
	}

	// splits after r.To still change the adjusted prices within r.
	splits, err := e.splits(ctx, ticker, "", "")
	if err != nil {
		return nil, err
	}
	splits = e.Overrides.Apply(ticker, splits)

	prices := make([]whatif.StockPrice, 0, len(content))
	for _, p := range content {
		factor := decimal.NewFromFloat(whatif.SplitFactor(splits, p.Date))
		high := p.High.Div(factor).InexactFloat64()
		prices = append(prices, whatif.StockPrice{
			Date:  p.Date,
			Close: p.Close.Div(factor).InexactFloat64(),
			High:  &high,
		})
	}
	slices.SortStableFunc(prices, func(a, b whatif.StockPrice) int { return strings.Compare(a.Date, b.Date) })
	return prices, nil
}

// Splits returns the splits of ticker within r.
func (e *EODHD) Splits(ctx context.Context, ticker string, r date.Range) ([]whatif.StockSplit, error) {
	return e.splits(ctx, ticker, r.From.String(), r.To.String())
}

func (e *EODHD) splits(ctx context.Context, ticker, from, to string) ([]whatif.StockSplit, error) {
	type apiSplit struct {
		Date  string `json:"date"`
		Split string `json:"split"`
	}
	content := make([]apiSplit, 0)
	if err := jwget(ctx, e.client, e.url("splits", ticker, from, to), &content); err != nil {
		return nil, err
	}

	splits := make([]whatif.StockSplit, 0, len(content))
	for _, s := range content {
		factor, err := parseRatio(s.Split)
		if err != nil {
			return nil, fmt.Errorf("%s splits of %s: %w", e.Name(), ticker, err)
		}
		splits = append(splits, whatif.StockSplit{Date: s.Date, Ticker: ticker, Factor: factor})
	}
	slices.SortStableFunc(splits, func(a, b whatif.StockSplit) int { return strings.Compare(a.Date, b.Date) })
	return splits, nil
}

// parseRatio converts a split written "4.000000/1.000000" into its factor, 4.
func parseRatio(split string) (float64, error) {
	num, den, found := strings.Cut(split, "/")
	if !found {
		return 0, fmt.Errorf("invalid split format %q", split)
	}
	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return 0, fmt.Errorf("invalid numerator in split %q: %w", split, err)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil {
		return 0, fmt.Errorf("invalid denominator in split %q: %w", split, err)
	}
	if !n.IsPositive() || !d.IsPositive() {
		return 0, fmt.Errorf("invalid split ratio %q", split)
	}
	return n.Div(d).InexactFloat64(), nil
}
