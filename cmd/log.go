package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stocktracker"
	"stocktracker/renderer"
)

type logCmd struct{}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display a chronological log of all transactions" }
func (*logCmd) Usage() string {
	return `pst log

  Displays every ledger row in chronological order, including the
  dividend and split rows appended by the daily check.
`
}

func (*logCmd) SetFlags(*flag.FlagSet) {}

func (*logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := stocktracker.NewLedgerFile(*ledgerFile).Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LogMarkdown(ledger))
	return subcommands.ExitSuccess
}
