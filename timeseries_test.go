package whatif

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculatePortfolioTimeSeries_Empty(t *testing.T) {
	if got := CalculatePortfolioTimeSeries(nil, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil); len(got) != 0 {
		t.Errorf("CalculatePortfolioTimeSeries(no trades) = %v, want empty", got)
	}
	trades := []Trade{buy("AAPL", day1, 10, 130)}
	if got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, nil, nil, nil); len(got) != 0 {
		t.Errorf("CalculatePortfolioTimeSeries(no index) = %v, want empty", got)
	}
}

// Scenario A: a single buy, held while the index moves.
func TestCalculatePortfolioTimeSeries_SingleBuy(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 10, 130)}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil)

	if len(got) != 5 {
		t.Fatalf("CalculatePortfolioTimeSeries() returned %d points, want 5", len(got))
	}
	first, last := got[0], got[4]
	want := PortfolioDataPoint{
		Date:                 day1,
		PortfolioValue:       1300,
		CounterfactualValue:  1300,
		CostBasis:            1300,
		PortfolioReturn:      0,
		CounterfactualReturn: 0,
		IndexShares:          3.421053,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("day1 mismatch (-want +got):\n%s", diff)
	}
	want = PortfolioDataPoint{
		Date:                 day5,
		PortfolioValue:       1350,    // 10 × 135
		CounterfactualValue:  1327.37, // 3.4211 × 388
		CostBasis:            1300,
		PortfolioReturn:      3.85,
		CounterfactualReturn: 2.11,
		IndexShares:          3.421053,
	}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("day5 mismatch (-want +got):\n%s", diff)
	}
}

// Scenario B: a partial sell reduces both the position and the trade cost basis.
func TestCalculatePortfolioTimeSeries_PartialSell(t *testing.T) {
	trades := []Trade{
		sell("AAPL", day3, 5, 135), // out of order
		buy("AAPL", day1, 10, 130),
	}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil)
	if len(got) != 5 {
		t.Fatalf("CalculatePortfolioTimeSeries() returned %d points, want 5", len(got))
	}
	if got[1].CostBasis != 1300 {
		t.Errorf("day2 CostBasis = %v, want 1300", got[1].CostBasis)
	}
	if got[2].CostBasis != 625 {
		t.Errorf("day3 CostBasis = %v, want 625", got[2].CostBasis)
	}
	if got[2].PortfolioValue != 665 { // 5 × 133
		t.Errorf("day3 PortfolioValue = %v, want 665", got[2].PortfolioValue)
	}
	// 1300/380 - 675/385 index shares.
	if got[2].IndexShares != 1.667806 {
		t.Errorf("day3 IndexShares = %v, want 1.667806", got[2].IndexShares)
	}
}

// Scenario C: cash flows take over the cost basis.
func TestCalculatePortfolioTimeSeries_DepositBasis(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 10, 130)}
	flows := []CashFlow{deposit(day1, 2000)}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), flows, nil)
	if len(got) != 5 {
		t.Fatalf("CalculatePortfolioTimeSeries() returned %d points, want 5", len(got))
	}
	if got[0].CostBasis != 2000 {
		t.Errorf("day1 CostBasis = %v, want 2000", got[0].CostBasis)
	}
	if got[0].CounterfactualValue != 2000 {
		t.Errorf("day1 CounterfactualValue = %v, want 2000", got[0].CounterfactualValue)
	}
	if got[0].PortfolioReturn != -35 {
		t.Errorf("day1 PortfolioReturn = %v, want -35", got[0].PortfolioReturn)
	}
}

// Scenario D: a 2:1 split after the buy must not halve the day1 valuation.
func TestCalculatePortfolioTimeSeries_Split(t *testing.T) {
	trades := []Trade{buy("XYZ", day1, 10, 100)}
	prices := map[string][]StockPrice{"XYZ": quotes(scenarioDays, 50, 50, 50, 50, 50)}
	splits := map[string][]StockSplit{"XYZ": {{Date: day4, Ticker: "XYZ", Factor: 2}}}

	got := CalculatePortfolioTimeSeries(trades, prices, spy(), nil, splits)
	if len(got) == 0 {
		t.Fatal("CalculatePortfolioTimeSeries() returned no points")
	}
	if got[0].PortfolioValue != 1000 {
		t.Errorf("day1 PortfolioValue = %v, want 1000", got[0].PortfolioValue)
	}
	if got[2].PortfolioValue != 1000 {
		t.Errorf("day3 PortfolioValue = %v, want 1000", got[2].PortfolioValue)
	}
}

func TestCalculatePortfolioTimeSeries_SkipsDaysWithoutCostBasis(t *testing.T) {
	trades := []Trade{buy("AAPL", day3, 10, 133)}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil)
	days := make([]string, len(got))
	for i, p := range got {
		days[i] = p.Date
	}
	if want := []string{day3, day4, day5}; !slices.Equal(days, want) {
		t.Errorf("emitted days = %v, want %v", days, want)
	}
}

func TestCalculatePortfolioTimeSeries_FullyLiquidated(t *testing.T) {
	// Selling everything at a loss leaves a positive trade cost, but nothing is priced.
	trades := []Trade{buy("AAPL", day1, 10, 130), sell("AAPL", day2, 10, 100)}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil)
	last := got[len(got)-1]
	if last.PortfolioValue != 0 || last.CostBasis != 300 {
		t.Errorf("last point = %+v, want no value and a 300 cost basis", last)
	}
}

func TestCalculatePortfolioTimeSeries_UnknownPriceCountsAsZero(t *testing.T) {
	trades := []Trade{
		buy("AAPL", day1, 10, 130),
		{ID: "x", Ticker: "AAPL", Date: day2, Shares: 10, Side: Buy},
	}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil)
	if got[1].CostBasis != 1300 {
		t.Errorf("day2 CostBasis = %v, want 1300", got[1].CostBasis)
	}
	if got[1].PortfolioValue != 2620 { // 20 × 131
		t.Errorf("day2 PortfolioValue = %v, want 2620", got[1].PortfolioValue)
	}
}

func TestCalculatePortfolioTimeSeries_MissingTickerPrices(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 10, 130), buy("GONE", day1, 5, 10)}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), nil, nil)
	if got[0].PortfolioValue != 1300 || got[0].CostBasis != 1350 {
		t.Errorf("day1 = %+v, want value 1300 and cost 1350", got[0])
	}
}

func TestCalculatePortfolioTimeSeries_Idempotent(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 10, 130), sell("AAPL", day3, 5, 135), buy("MSFT", day2, 3, 400)}
	prices := map[string][]StockPrice{"AAPL": aapl(), "MSFT": quotes(scenarioDays, 400, 401, 402, 399, 410)}
	flows := []CashFlow{deposit(day1, 1500), deposit(day2, 1500), {ID: "d", Date: day4, Amount: 12, Type: Dividend, Ticker: "MSFT"}}
	tradesBefore := slices.Clone(trades)

	a := CalculatePortfolioTimeSeries(trades, prices, spy(), flows, nil)
	b := CalculatePortfolioTimeSeries(trades, prices, spy(), flows, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(tradesBefore, trades); diff != "" {
		t.Errorf("trades were mutated (-before +after):\n%s", diff)
	}
}

// Deposits and a dividend: the dividend counts in the cost basis but buys no index
// shares.
func TestCalculatePortfolioTimeSeries_DepositsAndDividend(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 10, 130), sell("AAPL", day3, 5, 135), buy("MSFT", day2, 3, 400)}
	prices := map[string][]StockPrice{"AAPL": aapl(), "MSFT": quotes(scenarioDays, 400, 401, 402, 399, 410)}
	flows := []CashFlow{deposit(day1, 1500), deposit(day2, 1500), {ID: "d", Date: day4, Amount: 12, Type: Dividend, Ticker: "MSFT"}}

	got := CalculatePortfolioTimeSeries(trades, prices, spy(), flows, nil)
	if len(got) != 5 {
		t.Fatalf("CalculatePortfolioTimeSeries() returned %d points, want 5", len(got))
	}

	costs := make([]float64, len(got))
	for i, p := range got {
		costs[i] = p.CostBasis
	}
	if want := []float64{1500, 3000, 3000, 3012, 3012}; !slices.Equal(costs, want) {
		t.Errorf("CostBasis = %v, want %v", costs, want)
	}

	// 1500/380 + 1500/382, unchanged by the dividend.
	for _, p := range got[1:] {
		if p.IndexShares != 7.87407 {
			t.Errorf("%s IndexShares = %v, want 7.87407", p.Date, p.IndexShares)
		}
	}
	if got[3].CounterfactualValue != 3039.39 {
		t.Errorf("day4 CounterfactualValue = %v, want 3039.39", got[3].CounterfactualValue)
	}
}

func TestCalculatePortfolioTimeSeries_MonotonicDeposits(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 5, 130), buy("AAPL", day3, 5, 133)}
	flows := []CashFlow{deposit(day1, 700), deposit(day3, 700), deposit(day5, 100)}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), flows, nil)
	for i := 1; i < len(got); i++ {
		if got[i].IndexShares < got[i-1].IndexShares {
			t.Errorf("IndexShares decreased from %v on %s to %v on %s", got[i-1].IndexShares, got[i-1].Date, got[i].IndexShares, got[i].Date)
		}
	}
	// held flat between deposits
	if got[1].IndexShares != got[0].IndexShares {
		t.Errorf("day2 IndexShares = %v, want %v", got[1].IndexShares, got[0].IndexShares)
	}
}

// Dividends alone select the cash-flow cost basis but not the deposit counterfactual.
func TestCalculatePortfolioTimeSeries_IndependentPolicies(t *testing.T) {
	trades := []Trade{buy("AAPL", day1, 10, 130)}
	flows := []CashFlow{{ID: "div", Date: day2, Amount: 50, Type: Dividend, Ticker: "AAPL"}}
	got := CalculatePortfolioTimeSeries(trades, map[string][]StockPrice{"AAPL": aapl()}, spy(), flows, nil)

	// day1 has no cash flow yet, so no cost basis and no point.
	if got[0].Date != day2 {
		t.Fatalf("first emitted day = %s, want %s", got[0].Date, day2)
	}
	if got[0].CostBasis != 50 {
		t.Errorf("day2 CostBasis = %v, want 50", got[0].CostBasis)
	}
	// counterfactual still follows the trade: 1300/380 shares × 382.
	if got[0].CounterfactualValue != 1306.84 {
		t.Errorf("day2 CounterfactualValue = %v, want 1306.84", got[0].CounterfactualValue)
	}
}
