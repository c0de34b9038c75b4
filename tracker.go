package stocktracker

import (
	"errors"
	"fmt"
	"log"

	"stocktracker/date"
)

// Security identifies a holding to check for corporate actions, with
// the unit counts held before today's ex-dividend and ex-split cutoffs.
type Security struct {
	Symbol   string
	Exchange string

	PreExDivUnits   Quantity
	PreExSplitUnits Quantity
}

// Key returns the "EXCHANGE:SYMBOL" identity used by the ledger and the
// checked sets.
func (s Security) Key() string { return s.Exchange + ":" + s.Symbol }

// MarketData is the corporate-action feed the daily check runs against.
type MarketData interface {
	CorporateActions(symbol, exchange string) (CorporateActions, error)
}

// Outcome is the per-security result of a daily check.
type Outcome struct {
	Security Security

	DividendAdded   bool
	DividendPerUnit Quantity

	SplitAdded    bool
	SplitRatio    Ratio
	RowsRewritten int

	// Err is set when the market data fetch failed and the security was
	// skipped for this run.
	Err error
}

// Report collects the outcomes of one daily check run.
type Report struct {
	Day      date.Date
	Outcomes []Outcome
}

// Tracker runs the daily corporate-action check: it fetches dividend
// and split events for each holding, appends the matching ledger rows
// exactly once per day, and rewrites history after a split.
type Tracker struct {
	market MarketData
	ledger *LedgerFile
	checks *CheckSetFile
	today  func() date.Date
}

// NewTracker assembles a tracker over a market data feed, a ledger file
// and a checked-state file.
func NewTracker(market MarketData, ledger *LedgerFile, checks *CheckSetFile) *Tracker {
	return &Tracker{market: market, ledger: ledger, checks: checks, today: date.Today}
}

// SecuritiesFromLedger derives the securities to check from the current
// ledger holdings: every distinct symbol with its net units held as of
// day. Zero or negative positions are dropped.
func SecuritiesFromLedger(l *Ledger, on date.Date) []Security {
	var secs []Security
	for symbol, exchange := range l.Securities() {
		units := l.Holding(symbol, exchange, on)
		if !units.IsPositive() {
			continue
		}
		secs = append(secs, Security{
			Symbol:          symbol,
			Exchange:        exchange,
			PreExDivUnits:   units,
			PreExSplitUnits: units,
		})
	}
	return secs
}

// RunDailyCheck checks every security for a dividend or split dated
// today and reconciles the ledger accordingly. Running it again on the
// same day appends nothing more.
//
// A failed fetch skips that security and is reported in its Outcome and
// in the joined error; the remaining securities are still processed. A
// failure while rewriting or persisting the ledger aborts the run.
func (t *Tracker) RunDailyCheck(secs []Security) (*Report, error) {
	today := t.today()

	state, err := t.checks.Load(today)
	if err != nil {
		return nil, fmt.Errorf("cannot load checked state: %w", err)
	}
	ledger, err := t.ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load ledger: %w", err)
	}
	rec := NewReconciler(ledger)

	report := &Report{Day: today}
	var errs []error
	var dirty bool

	for _, sec := range secs {
		outcome := Outcome{Security: sec}

		// A security already processed earlier today must not produce a
		// second row, even across process restarts.
		divDone := state.DividendChecked(sec.Key()) || !sec.PreExDivUnits.IsPositive()
		splitDone := state.SplitChecked(sec.Key()) || !sec.PreExSplitUnits.IsPositive()
		if divDone && splitDone {
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		actions, err := t.market.CorporateActions(sec.Symbol, sec.Exchange)
		if err != nil {
			outcome.Err = err
			errs = append(errs, fmt.Errorf("%s: %w", sec.Key(), err))
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		if !divDone && actions.LastDividendDate == today {
			perUnit := Q(actions.LastDividendAmount)
			rec.AppendDividend(sec.Symbol, sec.Exchange, today, perUnit, sec.PreExDivUnits)
			state.MarkDividend(sec.Key())
			outcome.DividendAdded = true
			outcome.DividendPerUnit = perUnit
			dirty = true
		}

		if !splitDone && actions.LastSplitDate == today &&
			!actions.LastSplitRatio.IsZero() && !actions.LastSplitRatio.IsIdentity() {
			n, err := rec.AppendSplitAndRewrite(sec.Symbol, sec.Exchange, today,
				actions.LastSplitRatio, sec.PreExSplitUnits)
			if err != nil {
				return nil, fmt.Errorf("split rewrite failed for %s: %w", sec.Key(), err)
			}
			state.MarkSplit(sec.Key())
			outcome.SplitAdded = true
			outcome.SplitRatio = actions.LastSplitRatio
			outcome.RowsRewritten = n
			dirty = true
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	if dirty {
		if err := t.ledger.Save(ledger); err != nil {
			return nil, fmt.Errorf("cannot save ledger: %w", err)
		}
		if err := t.checks.Save(state); err != nil {
			return nil, fmt.Errorf("cannot save checked state: %w", err)
		}
		log.Printf("daily check %s: ledger updated", today)
	}
	return report, errors.Join(errs...)
}

// ResetCheckedState clears today's checked sets so the next run
// re-examines every security.
func (t *Tracker) ResetCheckedState() error {
	return t.checks.Reset(t.today())
}
