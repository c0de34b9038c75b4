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

// appendEntries validates and appends rows to the ledger file.
func appendEntries(entries ...stocktracker.Entry) subcommands.ExitStatus {
	store := stocktracker.NewLedgerFile(*ledgerFile)
	ledger, err := store.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for i, e := range entries {
		e, err := e.Validate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid transaction: %v\n", err)
			return subcommands.ExitFailure
		}
		entries[i] = e
	}
	ledger.Append(entries...)
	if err := store.Save(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, e := range entries {
		fmt.Printf("%s\n", renderer.Entry(e))
	}
	fmt.Printf("Successfully appended to %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	symbol   string
	exchange string
	units    float64
	price    float64
	fees     float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `pst buy -s <symbol> -x <exchange> -u <units> -p <price> [-f <fees>] [-d <date>]

  Records a share purchase.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.StringVar(&c.exchange, "x", "", "Exchange code")
	f.Float64Var(&c.units, "u", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.fees, "f", 0, "Transaction fees")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.exchange == "" || c.units <= 0 || c.price <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendEntries(stocktracker.NewBuy(day, c.symbol, c.exchange,
		stocktracker.Q(c.units), stocktracker.Q(c.price), stocktracker.Q(c.fees)))
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	symbol   string
	exchange string
	units    float64
	price    float64
	fees     float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `pst sell -s <symbol> -x <exchange> -u <units> -p <price> [-f <fees>] [-d <date>]

  Records a share sale.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.symbol, "s", "", "Security symbol")
	f.StringVar(&c.exchange, "x", "", "Exchange code")
	f.Float64Var(&c.units, "u", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.fees, "f", 0, "Transaction fees")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.exchange == "" || c.units <= 0 || c.price < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	held := holdingOn(day, c.symbol, c.exchange)
	if held.LessThan(stocktracker.Q(c.units)) {
		fmt.Fprintf(os.Stderr, "Cannot sell %v units of %s:%s, only %s held on %s\n",
			c.units, c.exchange, c.symbol, held, day)
		return subcommands.ExitFailure
	}
	return appendEntries(stocktracker.NewSell(day, c.symbol, c.exchange,
		stocktracker.Q(c.units), stocktracker.Q(c.price), stocktracker.Q(c.fees)))
}

func holdingOn(day date.Date, symbol, exchange string) stocktracker.Quantity {
	ledger, err := stocktracker.NewLedgerFile(*ledgerFile).Load()
	if err != nil {
		return stocktracker.Q(0)
	}
	return ledger.Holding(symbol, exchange, day)
}

// --- Deposit Command ---

type depositCmd struct {
	date   string
	amount float64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record a cash deposit" }
func (*depositCmd) Usage() string {
	return `pst deposit -a <amount> [-d <date>]

  Records a cash deposit into the portfolio.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.Float64Var(&c.amount, "a", 0, "Amount deposited")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendEntries(stocktracker.NewCashIn(day, stocktracker.Q(c.amount)))
}
