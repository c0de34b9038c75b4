package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stocktracker/renderer"
)

type pricesCmd struct {
	symbol   string
	exchange string
}

func (*pricesCmd) Name() string { return "prices" }
func (*pricesCmd) Synopsis() string {
	return "display the closing-price history of a security"
}
func (*pricesCmd) Usage() string {
	return `pst prices -s <symbol> -x <exchange>

  Fetches and displays the daily closing prices since the start of last
  calendar year. The series is fetched fresh on every call.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol, e.g. ES3")
	f.StringVar(&c.exchange, "x", "", "Exchange code, e.g. SGX")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.exchange == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	prices, err := client.ClosingPrices(c.symbol, c.exchange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PricesMarkdown(c.symbol, c.exchange, prices))
	return subcommands.ExitSuccess
}
