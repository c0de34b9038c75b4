// Package cmd implements the CLI application to run the portfolio
// tracker.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"stocktracker"
	"stocktracker/cache"
)

// Register the subcommands.
// A main package calls Register() to install the subcommands, and
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&checkCmd{}, "tracking")
	c.Register(&resetCmd{}, "tracking")

	c.Register(&quoteCmd{}, "market data")
	c.Register(&actionsCmd{}, "market data")
	c.Register(&pricesCmd{}, "market data")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&depositCmd{}, "transactions")
	c.Register(&logCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var checksFile = flag.String("checks-file", ".checked.json", "Path to the daily checked-set state file")

const redis_addr = "REDIS_ADDR"

var redisAddrFlag = flag.String("redis-addr", "", "Redis address for the shared market-data cache, e.g. localhost:6379.\n If missing it will read the environment variable \""+redis_addr+"\". Empty uses an in-process cache.")
var redisPassword = flag.String("redis-password", "", "Redis password for the shared market-data cache")
var redisDB = flag.Int("redis-db", 0, "Redis database for the shared market-data cache")

func redisAddr() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *redisAddrFlag == "" {
		*redisAddrFlag = os.Getenv(redis_addr)
	}
	return *redisAddrFlag
}

// newCache opens the market-data cache: Redis when configured, an
// in-process store otherwise.
func newCache() (*cache.Cache, error) {
	addr := redisAddr()
	if addr == "" {
		return cache.New(cache.NewMemStore()), nil
	}
	store := cache.NewRedisStore(addr, *redisPassword, *redisDB)
	if err := store.Ping(); err != nil {
		return nil, fmt.Errorf("cannot reach redis at %q: %w", addr, err)
	}
	return cache.New(store), nil
}

// newClient opens the Yahoo market-data client over the cache.
func newClient() (*stocktracker.Client, error) {
	c, err := newCache()
	if err != nil {
		return nil, err
	}
	return stocktracker.NewClient(c), nil
}

// newTracker assembles the daily-check tracker from the app flags.
func newTracker() (*stocktracker.Tracker, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return stocktracker.NewTracker(client,
		stocktracker.NewLedgerFile(*ledgerFile),
		stocktracker.NewCheckSetFile(*checksFile)), nil
}

// printMarkdown renders markdown to the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
