package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stocktracker/renderer"
)

type quoteCmd struct {
	symbol   string
	exchange string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display the current quote for a security" }
func (*quoteCmd) Usage() string {
	return `pst quote -s <symbol> -x <exchange>

  Fetches and displays the current quote snapshot: price, day change,
  52-week range and moving averages. Snapshots are cached for an hour.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol, e.g. ES3")
	f.StringVar(&c.exchange, "x", "", "Exchange code, e.g. SGX")
}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.exchange == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	snap, err := client.Snapshot(c.symbol, c.exchange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SnapshotMarkdown(c.symbol, c.exchange, snap))
	return subcommands.ExitSuccess
}
