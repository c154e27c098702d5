package whatif

// days used by the scenarios, all of them trading days.
const (
	day1 = "2025-01-02"
	day2 = "2025-01-03"
	day3 = "2025-01-06"
	day4 = "2025-01-07"
	day5 = "2025-01-08"
)

var scenarioDays = []string{day1, day2, day3, day4, day5}

// px is a helper for test to create an optional price from a const.
func px(v float64) *float64 { return &v }

func buy(ticker, day string, shares, price float64) Trade {
	return Trade{ID: ticker + "-buy-" + day, Ticker: ticker, Date: day, Shares: shares, Price: px(price), Side: Buy}
}

func sell(ticker, day string, shares, price float64) Trade {
	return Trade{ID: ticker + "-sell-" + day, Ticker: ticker, Date: day, Shares: shares, Price: px(price), Side: Sell}
}

func deposit(day string, amount float64) CashFlow {
	return CashFlow{ID: "dep-" + day, Date: day, Amount: amount, Type: Deposit}
}

// quotes zips days and closes into a price series.
func quotes(days []string, closes ...float64) []StockPrice {
	series := make([]StockPrice, len(closes))
	for i, c := range closes {
		series[i] = StockPrice{Date: days[i], Close: c}
	}
	return series
}

// spy is the index series used by the scenarios.
func spy() []StockPrice { return quotes(scenarioDays, 380, 382, 385, 386, 388) }

// aapl is a stock series used by the scenarios.
func aapl() []StockPrice { return quotes(scenarioDays, 130, 131, 133, 134, 135) }
