package whatif

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Trade is a single executed transaction.
//
// Shares are actual shares on the trade date (not split-adjusted). A nil Price
// means the fill price is unknown, see ResolveTradePrices.
type Trade struct {
	ID     string   `json:"id"`
	Ticker string   `json:"ticker"`
	Date   string   `json:"date"` // YYYY-MM-DD
	Shares float64  `json:"shares"`
	Price  *float64 `json:"price,omitempty"`
	Side   Side     `json:"type"`
}

// CashFlowType qualifies a CashFlow.
type CashFlowType string

const (
	Deposit     CashFlowType = "deposit"
	Dividend    CashFlowType = "dividend"
	CapitalGain CashFlowType = "capital_gain"
	Interest    CashFlowType = "interest"
)

// CashFlow is a dated movement of cash unrelated to a specific trade fill.
// Amounts are positive, the type conveys the meaning.
type CashFlow struct {
	ID     string       `json:"id"`
	Date   string       `json:"date"`
	Amount float64      `json:"amount"`
	Type   CashFlowType `json:"type"`
	Ticker string       `json:"ticker,omitempty"`
}

// StockPrice is one ticker's observation for one day.
type StockPrice struct {
	Date  string   `json:"date"`
	Close float64  `json:"close"`
	High  *float64 `json:"high,omitempty"`
}

// StockSplit is a corporate split event. Factor is new shares per old share: 2 for
// a 2-for-1 forward split, 0.1 for a 1-for-10 reverse split.
type StockSplit struct {
	Date   string  `json:"date"`
	Ticker string  `json:"ticker"`
	Factor float64 `json:"factor"`
}

// PortfolioDataPoint is one day of the reconstruction.
type PortfolioDataPoint struct {
	Date                 string  `json:"date"`
	PortfolioValue       float64 `json:"portfolioValue"`
	CounterfactualValue  float64 `json:"counterfactualValue"`
	CostBasis            float64 `json:"costBasis"`
	PortfolioReturn      Percent `json:"portfolioReturn"`
	CounterfactualReturn Percent `json:"counterfactualReturn"`
	IndexShares          float64 `json:"indexShares"`
}

// StockBreakdownData is one ticker's current standing against its counterfactual.
type StockBreakdownData struct {
	Ticker               string  `json:"ticker"`
	Shares               float64 `json:"shares"`
	FirstBuyDate         string  `json:"firstBuyDate"`
	AverageCost          float64 `json:"averageCost"`
	CostBasis            float64 `json:"costBasis"`
	CurrentPrice         float64 `json:"currentPrice"`
	CurrentValue         float64 `json:"currentValue"`
	IndexShares          float64 `json:"indexShares"`
	CounterfactualValue  float64 `json:"counterfactualValue"`
	Gain                 float64 `json:"gain"`
	CounterfactualGain   float64 `json:"counterfactualGain"`
	Difference           float64 `json:"difference"`
	Return               Percent `json:"return"`
	CounterfactualReturn Percent `json:"counterfactualReturn"`
}

// SummaryData is the portfolio-wide rollup.
type SummaryData struct {
	TotalCostBasis           float64             `json:"totalCostBasis"`
	TotalPortfolioValue      float64             `json:"totalPortfolioValue"`
	TotalCounterfactualValue float64             `json:"totalCounterfactualValue"`
	PortfolioReturn          Percent             `json:"portfolioReturn"`
	CounterfactualReturn     Percent             `json:"counterfactualReturn"`
	TotalDifference          float64             `json:"totalDifference"`
	DifferencePercent        Percent             `json:"differencePercent"`
	TotalDeposits            float64             `json:"totalDeposits"`
	TotalIncome              float64             `json:"totalIncome"`
	BestPerformer            *StockBreakdownData `json:"bestPerformer"`
	WorstPerformer           *StockBreakdownData `json:"worstPerformer"`
}
