package whatif

import "github.com/shopspring/decimal"

// CalculateSummary rolls a breakdown up into portfolio-wide totals.
//
// The total cost basis is recomputed from the raw trades, as the net of buy and
// sell amounts floored at zero, and not taken from the breakdown rows. The two may
// disagree when inputs are inconsistent.
//
// Cash flows only feed the informational TotalDeposits and TotalIncome.
// An empty breakdown yields the zero SummaryData.
func CalculateSummary(breakdown []StockBreakdownData, cashFlows []CashFlow, trades []Trade) SummaryData {
	if len(breakdown) == 0 {
		return SummaryData{}
	}

	var net decimal.Decimal
	for _, t := range trades {
		value, known := t.value()
		if !known {
			continue
		}
		switch t.Side {
		case Buy:
			net = net.Add(value)
		case Sell:
			net = net.Sub(value)
		}
	}
	costBasis := floor0(net)

	var portfolioValue, counterfactualValue decimal.Decimal
	best, worst := breakdown[0], breakdown[0]
	for i, row := range breakdown {
		portfolioValue = portfolioValue.Add(dec(row.CurrentValue))
		counterfactualValue = counterfactualValue.Add(dec(row.CounterfactualValue))
		if i == 0 {
			continue
		}
		if row.Difference > best.Difference {
			best = row
		}
		if row.Difference < worst.Difference {
			worst = row
		}
	}

	var deposits, income decimal.Decimal
	for _, cf := range cashFlows {
		switch cf.Type {
		case Deposit:
			deposits = deposits.Add(dec(cf.Amount))
		case Dividend, CapitalGain, Interest:
			income = income.Add(dec(cf.Amount))
		}
	}

	portfolioReturn := returnOf(portfolioValue, costBasis)
	counterfactualReturn := returnOf(counterfactualValue, costBasis)
	return SummaryData{
		TotalCostBasis:           round2(costBasis),
		TotalPortfolioValue:      round2(portfolioValue),
		TotalCounterfactualValue: round2(counterfactualValue),
		PortfolioReturn:          portfolioReturn,
		CounterfactualReturn:     counterfactualReturn,
		TotalDifference:          round2(portfolioValue.Sub(counterfactualValue)),
		DifferencePercent:        Percent(round2(dec(float64(portfolioReturn)).Sub(dec(float64(counterfactualReturn))))),
		TotalDeposits:            round2(deposits),
		TotalIncome:              round2(income),
		BestPerformer:            &best,
		WorstPerformer:           &worst,
	}
}
