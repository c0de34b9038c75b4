package stocktracker

import (
	"fmt"
	"iter"
	"sort"

	"stocktracker/date"
)

// Ledger represents the ordered list of transaction rows.
//
// In a Ledger rows are always in chronological order. Rows are only
// ever appended or updated in place; the split rewrite is the single
// operation that updates existing rows.
type Ledger struct {
	entries []Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make([]Entry, 0)}
}

// Len returns the number of rows.
func (l *Ledger) Len() int { return len(l.entries) }

// Append appends rows to this ledger and maintains the chronological order.
func (l *Ledger) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
	l.stableSort()
}

// stableSort sorts the ledger by row date. The sort is stable, meaning
// rows on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Date.Before(l.entries[j].Date)
	})
}

// Entry returns the row at index i.
func (l *Ledger) Entry(i int) Entry { return l.entries[i] }

// UpdateRow replaces the row at index i. The date must not change:
// rewrites adjust units and prices, never chronology.
func (l *Ledger) UpdateRow(i int, e Entry) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("row %d out of range (%d rows)", i, len(l.entries))
	}
	if l.entries[i].Date != e.Date {
		return fmt.Errorf("row %d: cannot change date %s to %s", i, l.entries[i].Date, e.Date)
	}
	l.entries[i] = e
	return nil
}

// Entries returns an iterator over all rows in chronological order.
func (l *Ledger) Entries() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range l.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// ScanMatching returns an iterator over rows of the given security dated
// strictly before the given date. The ledger is sorted, so iteration
// stops at the first row on or after it.
func (l *Ledger) ScanMatching(symbol, exchange string, before date.Date) iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range l.entries {
			if !e.Date.Before(before) {
				return
			}
			if !e.Matches(symbol, exchange) {
				continue
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// HasSplit reports whether a split row for this security already exists
// on the given day. Used to keep a retried split reconciliation from
// appending a duplicate row.
func (l *Ledger) HasSplit(symbol, exchange string, on date.Date) bool {
	for _, e := range l.entries {
		if e.Date.After(on) {
			return false
		}
		if e.Type == EntrySplit && e.Date == on && e.Matches(symbol, exchange) {
			return true
		}
	}
	return false
}

// Holding computes the net units of a security held on a given date.
// Buy rows add, sell rows subtract. Split rows are neutral here: the
// rewrite has already restated prior rows in post-split units.
func (l *Ledger) Holding(symbol, exchange string, on date.Date) Quantity {
	var held Quantity
	for _, e := range l.entries {
		if e.Date.After(on) {
			break
		}
		if !e.Matches(symbol, exchange) {
			continue
		}
		switch e.Type {
		case EntryBuy:
			held = held.Add(e.Units)
		case EntrySell:
			held = held.Sub(e.Units)
		}
	}
	return held
}

// Securities iterates over the distinct (symbol, exchange) pairs that
// appear in the ledger, in first-seen order, skipping cash rows.
func (l *Ledger) Securities() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		visited := make(map[string]struct{})
		for _, e := range l.entries {
			if e.Symbol == CashSymbol {
				continue
			}
			key := e.Key()
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}
			if !yield(e.Symbol, e.Exchange) {
				return
			}
		}
	}
}
