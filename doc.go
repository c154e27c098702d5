// Package whatif compares the trajectory of an investor's actual trades against a
// counterfactual: the same money deposited into a broad market index on the same
// dates.
//
// The package is a stateless calculation core. It consumes plain records produced
// by ingestion and market-data collaborators and produces:
//   - a day-by-day reconstruction of portfolio value, counterfactual index value,
//     cost basis and returns (CalculatePortfolioTimeSeries),
//   - a per-ticker leaderboard of current positions against their counterfactual
//     (CalculateStockBreakdown),
//   - a portfolio-wide rollup with best and worst performers (CalculateSummary).
//
// Historical prices are expected split-adjusted, the way market-data providers
// deliver them. The time-series engine un-adjusts them with the ticker's split
// history so that raw trade share counts can be valued directly.
//
// Every function is total: edge cases (no trades, no prices, zero cost basis)
// degrade to empty or zero results, never to errors, NaN or Inf. Inputs are never
// mutated.
package whatif
