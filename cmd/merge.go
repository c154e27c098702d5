package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/whatif/ingest"
	"github.com/google/subcommands"
)

type mergeCmd struct {
	output string
}

func (*mergeCmd) Name() string     { return "merge" }
func (*mergeCmd) Synopsis() string { return "merge brokerage exports into a single CSV file" }
func (*mergeCmd) Usage() string {
	return `whatif merge [-o <out.csv>] <in.csv> [<in.csv>...]

  Reads brokerage exports of any supported format, removes the entries that
  several files have in common, and writes them in the generic format:

    date,type,ticker,shares,price,amount

Usage Examples:
$ whatif merge -o all.csv schwab-2023.csv schwab-2024.csv robinhood.csv
`
}

func (c *mergeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "output file, standard output by default")
}

func (c *mergeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one input file is required")
		return subcommands.ExitUsageError
	}
	trades, flows, err := readLedger(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	var w io.Writer = os.Stdout
	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w = out
	}
	if err := ingest.WriteGeneric(w, trades, flows); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
