package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"stocktracker"
	"stocktracker/date"
	"stocktracker/renderer"
)

type checkCmd struct {
	symbol   string
	exchange string
}

func (*checkCmd) Name() string { return "check" }
func (*checkCmd) Synopsis() string {
	return "check held securities for dividends and splits dated today"
}
func (*checkCmd) Usage() string {
	return `pst check [-s <symbol> -x <exchange>]

  Runs the daily corporate-action check over every security currently
  held in the ledger. A dividend or split with today's ex-date appends
  the matching ledger row; a split also restates the security's prior
  rows in post-split units. Each security is reconciled at most once per
  day, so the command is safe to re-run.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only check this symbol")
	f.StringVar(&c.exchange, "x", "", "Exchange of the symbol given with -s")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker, err := newTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ledger, err := stocktracker.NewLedgerFile(*ledgerFile).Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	secs := stocktracker.SecuritiesFromLedger(ledger, date.Today())
	if c.symbol != "" {
		filtered := secs[:0]
		for _, sec := range secs {
			if sec.Symbol == c.symbol && (c.exchange == "" || sec.Exchange == c.exchange) {
				filtered = append(filtered, sec)
			}
		}
		secs = filtered
	}

	report, err := tracker.RunDailyCheck(secs)
	if report == nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err != nil {
		// Some securities could not be fetched; the report still covers
		// the rest.
		fmt.Fprintln(os.Stderr, err)
	}
	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}
