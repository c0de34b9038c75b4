package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct{}

func (*resetCmd) Name() string { return "reset-checks" }
func (*resetCmd) Synopsis() string {
	return "clear today's checked-set so the next check re-examines every security"
}
func (*resetCmd) Usage() string {
	return `pst reset-checks

  Clears the daily checked-set state. The next 'pst check' will fetch
  corporate actions for every held security again. Rows already appended
  today are not removed.
`
}

func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (*resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tracker, err := newTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := tracker.ResetCheckedState(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Cleared checked-set state in %s\n", *checksFile)
	return subcommands.ExitSuccess
}
