// Package cmd implements the whatif command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/etnz/whatif/ingest"
	"github.com/etnz/whatif/marketdata"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&seriesCmd{}, "reports")
	c.Register(&rangeCmd{}, "reports")
	c.Register(&mergeCmd{}, "files")
}

// Environment variables read by the application. They can also be set in a .env file.
const (
	EnvEODHDKey = "EODHD_API_KEY"
	EnvProvider = "WHATIF_PROVIDER"
	EnvCacheDir = "WHATIF_CACHE_DIR"
	EnvVerbose  = "WHATIF_VERBOSE"
)

// DefaultIndex is the ticker the portfolio is compared with.
const DefaultIndex = "SPY"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var Verbose = flag.Bool("v", false, "verbose logging")

// SetupLogging sends logs to stderr in a human friendly form, at debug level when
// Verbose is set.
func SetupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *Verbose || os.Getenv(EnvVerbose) == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// newProvider returns the market-data provider selected by the environment:
// EnvProvider names it, and it defaults to EODHD when an EODHD key is set, to Yahoo
// otherwise.
func newProvider(client *http.Client, overrides marketdata.Overrides) (marketdata.Provider, error) {
	key := os.Getenv(EnvEODHDKey)
	switch name := strings.ToLower(os.Getenv(EnvProvider)); name {
	case "eodhd":
		if key == "" {
			return nil, fmt.Errorf("provider eodhd needs an API key in %s", EnvEODHDKey)
		}
		return newEODHD(key, client, overrides), nil
	case "yahoo":
		return marketdata.NewYahoo(client), nil
	case "":
		if key != "" {
			return newEODHD(key, client, overrides), nil
		}
		return marketdata.NewYahoo(client), nil
	default:
		return nil, fmt.Errorf("unknown provider %q in %s, want eodhd or yahoo", name, EnvProvider)
	}
}

// newEODHD returns an EODHD provider that adjusts its prices with overrides.
func newEODHD(key string, client *http.Client, overrides marketdata.Overrides) *marketdata.EODHD {
	e := marketdata.NewEODHD(key, client)
	e.Overrides = overrides
	return e
}

// newClient returns the HTTP client of the providers, caching responses on disk
// in EnvCacheDir or in the temporary directory.
func newClient() (*http.Client, error) {
	dir := os.Getenv(EnvCacheDir)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create cache directory: %w", err)
		}
	}
	return marketdata.NewCachingClient(dir), nil
}

// splitList splits a comma separated list of names, ignoring empty ones.
func splitList(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// readLedger reads and merges trade files.
func readLedger(names []string) ([]whatif.Trade, []whatif.CashFlow, error) {
	imports := make([]*ingest.Import, 0, len(names))
	for _, name := range names {
		imp, err := ingest.ReadFile(name)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("file", name).Str("format", string(imp.Dialect)).
			Int("trades", len(imp.Trades)).Int("cashFlows", len(imp.CashFlows)).Int("skipped", imp.Skipped).
			Msg("imported")
		imports = append(imports, imp)
	}
	trades, flows := ingest.Merge(imports...)
	return trades, flows, nil
}

// analysis is the outcome of the three engines over a ledger.
type analysis struct {
	Range     date.Range                  `json:"range"`
	Index     string                      `json:"index"`
	Summary   whatif.SummaryData          `json:"summary"`
	Breakdown []whatif.StockBreakdownData `json:"breakdown"`
	Series    []whatif.PortfolioDataPoint `json:"series"`
}

// analyze fetches the market data of a ledger over rng and runs the engines.
func analyze(ctx context.Context, p marketdata.Provider, overrides marketdata.Overrides, concurrency int, trades []whatif.Trade, flows []whatif.CashFlow, index string, rng date.Range) (*analysis, error) {
	fetcher := &marketdata.Fetcher{
		Provider:    marketdata.NewCache(p),
		Overrides:   overrides,
		Concurrency: concurrency,
	}
	data, err := fetcher.Fetch(ctx, whatif.Tickers(trades), index, rng)
	if err != nil {
		return nil, err
	}
	if len(data.Index) == 0 {
		log.Warn().Str("index", index).Msg("no index price, the report is empty")
	}

	resolved := whatif.ResolveTradePrices(trades, data.Prices, data.Splits)
	breakdown := whatif.CalculateStockBreakdown(resolved, data.Prices, data.Index)
	return &analysis{
		Range:     rng,
		Index:     index,
		Summary:   whatif.CalculateSummary(breakdown, flows, resolved),
		Breakdown: breakdown,
		Series:    whatif.CalculatePortfolioTimeSeries(resolved, data.Prices, data.Index, flows, data.Splits),
	}, nil
}

// ledgerFlags are the flags shared by the commands that analyze a ledger.
type ledgerFlags struct {
	trades      string
	index       string
	overrides   string
	concurrency int
}

func (l *ledgerFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.trades, "t", "", "comma separated list of brokerage CSV exports")
	f.StringVar(&l.index, "index", DefaultIndex, "ticker of the index to compare with")
	f.StringVar(&l.overrides, "overrides", "", "JSON file of manual splits by ticker")
	f.IntVar(&l.concurrency, "j", marketdata.DefaultConcurrency, "number of market-data requests in flight")
}

// run reads the ledger and analyzes it over its date range.
func (l *ledgerFlags) run(ctx context.Context) (*analysis, subcommands.ExitStatus) {
	names := splitList(l.trades)
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -t is required")
		return nil, subcommands.ExitUsageError
	}
	trades, flows, err := readLedger(names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades: %v\n", err)
		return nil, subcommands.ExitFailure
	}

	var overrides marketdata.Overrides
	if l.overrides != "" {
		if overrides, err = marketdata.LoadOverrides(l.overrides); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading split overrides: %v\n", err)
			return nil, subcommands.ExitFailure
		}
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	p, err := newProvider(client, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, subcommands.ExitUsageError
	}

	index := strings.ToUpper(strings.TrimSpace(l.index))
	a, err := analyze(ctx, p, overrides, l.concurrency, trades, flows, index, whatif.DateRange(trades))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching market data: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return a, subcommands.ExitSuccess
}
