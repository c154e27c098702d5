package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/etnz/whatif/marketdata"
)

// stubProvider serves fixed series.
type stubProvider map[string][]whatif.StockPrice

func (stubProvider) Name() string { return "stub" }

func (p stubProvider) Prices(_ context.Context, ticker string, _ date.Range) ([]whatif.StockPrice, error) {
	return slices.Clone(p[ticker]), nil
}

func (stubProvider) Splits(context.Context, string, date.Range) ([]whatif.StockSplit, error) {
	return nil, nil
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name, provider, key string
		want                string
		wantErr             bool
	}{
		{name: "default", want: "yahoo"},
		{name: "default with a key", key: "k", want: "eodhd"},
		{name: "yahoo with a key", provider: "Yahoo", key: "k", want: "yahoo"},
		{name: "eodhd", provider: "eodhd", key: "k", want: "eodhd"},
		{name: "eodhd without key", provider: "eodhd", wantErr: true},
		{name: "unknown", provider: "bloomberg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvProvider, tt.provider)
			t.Setenv(EnvEODHDKey, tt.key)
			overrides := marketdata.Overrides{"XYZ": {{Date: "2025-01-10", Factor: 2}}}
			p, err := newProvider(nil, overrides)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.Name() != tt.want {
				t.Errorf("newProvider().Name() = %q, want %q", p.Name(), tt.want)
			}
			if e, ok := p.(*marketdata.EODHD); ok && len(e.Overrides["XYZ"]) != 1 {
				t.Errorf("newProvider().Overrides = %v, want the split overrides", e.Overrides)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a.csv,, b.csv ,")
	if want := []string{"a.csv", "b.csv"}; !slices.Equal(got, want) {
		t.Errorf("splitList() = %q, want %q", got, want)
	}
	if got := splitList(""); len(got) != 0 {
		t.Errorf("splitList(\"\") = %q, want none", got)
	}
}

func TestAnalyze(t *testing.T) {
	name := filepath.Join(t.TempDir(), "trades.csv")
	content := "date,type,ticker,shares,price,amount\n" +
		"2025-01-02,deposit,,,,100\n" +
		"2025-01-02,buy,AAPL,10,10,\n"
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	trades, flows, err := readLedger([]string{name})
	if err != nil {
		t.Fatalf("readLedger() error = %v", err)
	}

	p := stubProvider{
		"SPY":  {{Date: "2025-01-02", Close: 100}, {Date: "2025-01-03", Close: 110}},
		"AAPL": {{Date: "2025-01-02", Close: 10}, {Date: "2025-01-03", Close: 12}},
	}
	rng := date.NewRange(date.New(2025, 1, 2), date.New(2025, 1, 3))
	a, err := analyze(context.Background(), p, nil, 2, trades, flows, "SPY", rng)
	if err != nil {
		t.Fatalf("analyze() error = %v", err)
	}

	if len(a.Series) != 2 {
		t.Fatalf("analyze() series has %d points, want 2", len(a.Series))
	}
	last := a.Series[1]
	if last.PortfolioValue != 120 || last.CounterfactualValue != 110 || last.CostBasis != 100 {
		t.Errorf("last point = %+v, want value 120, counterfactual 110, cost 100", last)
	}
	if len(a.Breakdown) != 1 || a.Breakdown[0].Difference != 10 {
		t.Errorf("analyze() breakdown = %+v, want AAPL with a difference of 10", a.Breakdown)
	}
	if a.Summary.TotalPortfolioValue != 120 || a.Summary.TotalCounterfactualValue != 110 || a.Summary.TotalDeposits != 100 {
		t.Errorf("analyze() summary = %+v", a.Summary)
	}
}

func TestWriteSeriesCSV(t *testing.T) {
	var buf bytes.Buffer
	points := []whatif.PortfolioDataPoint{{Date: "2025-01-02", PortfolioValue: 100.5, CounterfactualValue: 99, CostBasis: 100, PortfolioReturn: 0.5, CounterfactualReturn: -1, IndexShares: 0.26}}
	if err := writeSeriesCSV(&buf, points); err != nil {
		t.Fatalf("writeSeriesCSV() error = %v", err)
	}
	want := "date,portfolio_value,counterfactual_value,cost_basis,portfolio_return,counterfactual_return,index_shares\n" +
		"2025-01-02,100.5,99,100,0.5,-1,0.26\n"
	if got := buf.String(); got != want {
		t.Errorf("writeSeriesCSV() = %q, want %q", got, want)
	}
}
