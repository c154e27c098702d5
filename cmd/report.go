package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/whatif/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	ledgerFlags
	json  bool
	every int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compare a portfolio with the same money invested in an index" }
func (*reportCmd) Usage() string {
	return `whatif report -t <trades.csv>[,<more.csv>] [-index SPY] [-overrides <splits.json>] [-every <n>] [-json]

  Reads brokerage exports, fetches the daily prices of every traded ticker and
  of the index, and reports how the portfolio did compared with buying the index
  with the same money on the same days.

Usage Examples:
$ whatif report -t schwab.csv
$ whatif report -t 2023.csv,2024.csv -index QQQ -every 5
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.ledgerFlags.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
	f.IntVar(&c.every, "every", 5, "show one market day out of every in the history table")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := c.run(ctx)
	if status != subcommands.ExitSuccess {
		return status
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.Report(a.Series, a.Breakdown, a.Summary, renderer.Options{
		Index:  a.Index,
		Period: a.Range.String(),
		Every:  c.every,
	}))
	return subcommands.ExitSuccess
}
