package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/etnz/whatif"
	"github.com/google/subcommands"
)

type seriesCmd struct {
	ledgerFlags
	format string
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "print the daily portfolio and index values" }
func (*seriesCmd) Usage() string {
	return `whatif series -t <trades.csv>[,<more.csv>] [-index SPY] [-format csv|json]

  Prints, for every market day, the value of the portfolio, the value of the
  same money invested in the index, and the cost basis.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	c.ledgerFlags.SetFlags(f)
	f.StringVar(&c.format, "format", "csv", "output format: csv or json")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "csv" && c.format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	a, status := c.run(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	var err error
	if c.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(a.Series)
	} else {
		err = writeSeriesCSV(os.Stdout, a.Series)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing series: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeSeriesCSV writes points as CSV, one row per day.
func writeSeriesCSV(w io.Writer, points []whatif.PortfolioDataPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "portfolio_value", "counterfactual_value", "cost_basis", "portfolio_return", "counterfactual_return", "index_shares"}); err != nil {
		return err
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, p := range points {
		err := cw.Write([]string{
			p.Date,
			num(p.PortfolioValue),
			num(p.CounterfactualValue),
			num(p.CostBasis),
			num(float64(p.PortfolioReturn)),
			num(float64(p.CounterfactualReturn)),
			num(p.IndexShares),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
