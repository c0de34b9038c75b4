package stocktracker

import (
	"fmt"
	"log"

	"stocktracker/date"
)

// Reconciler appends corporate-action rows to a ledger and, for splits,
// restates the security's history so that prior rows stay consistent
// with the post-split share count.
type Reconciler struct {
	ledger *Ledger
}

// NewReconciler returns a reconciler over the given ledger.
func NewReconciler(l *Ledger) *Reconciler { return &Reconciler{ledger: l} }

// AppendDividend appends one dividend row: the units held before the
// ex-date, the amount per unit, no fees, identity ratio.
func (r *Reconciler) AppendDividend(symbol, exchange string, on date.Date, perUnit, units Quantity) Entry {
	e := NewDividend(on, symbol, exchange, perUnit, units)
	r.ledger.Append(e)
	log.Printf("%s: append dividend %s %s/unit for %s units", on, e.Key(), perUnit, units)
	return e
}

// AppendSplitAndRewrite appends one split row recording the pre-split
// holding and the ratio, then rewrites every prior row of the same
// security: units scaled by the ratio, price by its inverse, fees and
// type untouched. It returns the number of rows rewritten.
//
// The rewrite is re-entrant: every rewritten row is stamped with the
// split's date in SplitRef, new values are always derived from the
// row's current units and price, and a retry skips stamped rows and a
// split row that already exists. A run that crashed mid-rewrite
// therefore converges when retried.
func (r *Reconciler) AppendSplitAndRewrite(symbol, exchange string, on date.Date, ratio Ratio, preSplitUnits Quantity) (rewritten int, err error) {
	if ratio.Num <= 0 || ratio.Den <= 0 {
		return 0, fmt.Errorf("split ratio must be positive, got %s", ratio)
	}

	if !r.ledger.HasSplit(symbol, exchange, on) {
		r.ledger.Append(NewSplit(on, symbol, exchange, ratio, preSplitUnits))
		log.Printf("%s: append split %s:%s %s on %s units", on, exchange, symbol, ratio, preSplitUnits)
	}

	ref := on.String()
	for i, e := range r.ledger.ScanMatching(symbol, exchange, on) {
		if e.SplitRef == ref {
			continue // already restated by this split
		}
		e.Units = ratio.ApplyToUnits(e.Units)
		e.Price = ratio.ApplyToPrice(e.Price)
		e.SplitRef = ref
		if err := r.ledger.UpdateRow(i, e); err != nil {
			return rewritten, fmt.Errorf("split rewrite of %s:%s stopped after %d rows: %w", exchange, symbol, rewritten, err)
		}
		rewritten++
	}
	return rewritten, nil
}
