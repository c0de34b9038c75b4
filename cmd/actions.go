package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stocktracker/renderer"
)

type actionsCmd struct {
	symbol   string
	exchange string
}

func (*actionsCmd) Name() string { return "actions" }
func (*actionsCmd) Synopsis() string {
	return "display the dividend and split history of a security"
}
func (*actionsCmd) Usage() string {
	return `pst actions -s <symbol> -x <exchange>

  Fetches and displays the corporate-action summary since the start of
  last calendar year: annual dividend total, most recent dividend and
  most recent split. Summaries are cached for four hours.
`
}

func (c *actionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Security symbol, e.g. ES3")
	f.StringVar(&c.exchange, "x", "", "Exchange code, e.g. SGX")
}

func (c *actionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.exchange == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	actions, err := client.CorporateActions(c.symbol, c.exchange)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ActionsMarkdown(c.symbol, c.exchange, actions))
	return subcommands.ExitSuccess
}
