package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/whatif"
	"github.com/google/subcommands"
)

type rangeCmd struct {
	trades string
	json   bool
}

func (*rangeCmd) Name() string     { return "range" }
func (*rangeCmd) Synopsis() string { return "print the date range market data is fetched for" }
func (*rangeCmd) Usage() string {
	return `whatif range -t <trades.csv>[,<more.csv>] [-json]

  Prints the range of days covered by the trades: from the first trade to the
  current market day in New York, including today once the market has closed.
`
}

func (c *rangeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "t", "", "comma separated list of brokerage CSV exports")
	f.BoolVar(&c.json, "json", false, "print the range as JSON")
}

func (c *rangeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := splitList(c.trades)
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -t is required")
		return subcommands.ExitUsageError
	}
	trades, _, err := readLedger(names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	rng := whatif.DateRange(trades)
	if !c.json {
		fmt.Println(rng)
		return subcommands.ExitSuccess
	}
	if err := json.NewEncoder(os.Stdout).Encode(rng); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding range: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
