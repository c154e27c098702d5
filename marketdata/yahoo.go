package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/shopspring/decimal"
)

const yahooBaseURL = "https://query2.finance.yahoo.com/v8/finance/chart"

// Yahoo is the Yahoo Finance chart provider. It needs no key.
//
// Chart closes and highs are split-adjusted (adjclose also discounts dividends and
// is not used).
type Yahoo struct {
	baseURL string
	client  *http.Client
}

// NewYahoo returns a Yahoo provider using client, the daily caching client when
// nil.
func NewYahoo(client *http.Client) *Yahoo {
	return &Yahoo{baseURL: yahooBaseURL, client: clientOrDefault(client)}
}

func (y *Yahoo) Name() string { return "yahoo" }

// yahooTicker returns the Yahoo symbol of a ticker: share classes use a dash (BRK.B
// is BRK-B), exchange suffixes are kept (VOD.L).
func yahooTicker(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if base, class, found := strings.Cut(ticker, "."); found && slices.Contains([]string{"A", "B", "C"}, class) {
		return base + "-" + class
	}
	return ticker
}

func (y *Yahoo) url(ticker string, r date.Range) string {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(r.From.Unix(), 10))
	q.Set("period2", strconv.FormatInt(r.To.Add(1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "split")
	return fmt.Sprintf("%s/%s?%s", y.baseURL, url.PathEscape(yahooTicker(ticker)), q.Encode())
}

// localDay returns the exchange day of a unix timestamp.
func localDay(ts, gmtOffset int64) string {
	return date.New(time.Unix(ts+gmtOffset, 0).UTC().Date()).String()
}

// Prices returns the daily closes and highs of ticker within r. Days without a
// close (halts, the ongoing session) are left out.
func (y *Yahoo) Prices(ctx context.Context, ticker string, r date.Range) ([]whatif.StockPrice, error) {
	var content struct {
		Chart struct {
			Result []struct {
				Meta struct {
					GMTOffset int64 `json:"gmtoffset"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Close []*float64 `json:"close"`
						High  []*float64 `json:"high"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := jwget(ctx, y.client, y.url(ticker, r), &content); err != nil {
		return nil, err
	}
	if len(content.Chart.Result) == 0 || len(content.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%s prices of %s: %w", y.Name(), ticker, ErrNoData)
	}
	result := content.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	prices := make([]whatif.StockPrice, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		p := whatif.StockPrice{Date: localDay(ts, result.Meta.GMTOffset), Close: *quote.Close[i]}
		if i < len(quote.High) && quote.High[i] != nil {
			high := *quote.High[i]
			p.High = &high
		}
		prices = append(prices, p)
	}
	slices.SortStableFunc(prices, func(a, b whatif.StockPrice) int { return strings.Compare(a.Date, b.Date) })
	return prices, nil
}

// Splits returns the splits of ticker within r, read from the chart's split events.
func (y *Yahoo) Splits(ctx context.Context, ticker string, r date.Range) ([]whatif.StockSplit, error) {
	var jobj any
	if err := jwget(ctx, y.client, y.url(ticker, r), &jobj); err != nil {
		return nil, err
	}
	result, err := jsonpath.Get("$.chart.result[0]", jobj)
	if err != nil {
		return nil, fmt.Errorf("%s splits of %s: %w", y.Name(), ticker, ErrNoData)
	}

	var offset int64
	if v, err := jsonpath.Get("$.meta.gmtoffset", result); err == nil {
		if f, ok := v.(float64); ok {
			offset = int64(f)
		}
	}

	splits := make([]whatif.StockSplit, 0)
	events, err := jsonpath.Get("$.events.splits", result)
	if err != nil {
		return splits, nil // no split event in the period
	}
	// events are keyed by their timestamp
	byTime, ok := events.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s splits of %s: unexpected events %T", y.Name(), ticker, events)
	}
	for key, v := range byTime {
		event, ok := v.(map[string]any)
		if !ok {
			continue
		}
		ts, okDate := event["date"].(float64)
		num, okNum := event["numerator"].(float64)
		den, okDen := event["denominator"].(float64)
		if !okDate || !okNum || !okDen || num <= 0 || den <= 0 {
			return nil, fmt.Errorf("%s splits of %s: invalid split event %q", y.Name(), ticker, key)
		}
		factor := decimal.NewFromFloat(num).Div(decimal.NewFromFloat(den)).InexactFloat64()
		splits = append(splits, whatif.StockSplit{Date: localDay(int64(ts), offset), Ticker: ticker, Factor: factor})
	}
	slices.SortStableFunc(splits, func(a, b whatif.StockSplit) int { return strings.Compare(a.Date, b.Date) })
	return splits, nil
}
