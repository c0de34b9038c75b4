package stocktracker

import (
	"testing"
	"time"

	"stocktracker/date"
)

func TestAppendDividend(t *testing.T) {
	l := NewLedger()
	l.Append(NewBuy(date.New(2025, time.June, 1), "ES3", "SGX", Q(100), Q(3.40), Q(1)))
	rec := NewReconciler(l)

	on := date.New(2026, time.March, 2)
	e := rec.AppendDividend("ES3", "SGX", on, Q(0.50), Q(100))
	if e.Type != EntryDiv || !e.Price.Equal(Q(0.50)) || !e.Units.Equal(Q(100)) {
		t.Errorf("dividend entry = %+v", e)
	}
	if !e.Fees.IsZero() || e.Split != OneToOne {
		t.Errorf("dividend entry fees/ratio = %s %s", e.Fees, e.Split)
	}
	if l.Len() != 2 {
		t.Errorf("ledger has %d rows, want 2", l.Len())
	}
}

func TestAppendSplitAndRewrite(t *testing.T) {
	// A 1-for-7 reverse split: 700 units at 7.00 become 100 at 49.00.
	l := NewLedger()
	l.Append(
		NewCashIn(date.New(2025, time.January, 2), Q(10000)),
		NewBuy(date.New(2025, time.February, 1), "ACME", "SGX", Q(350), Q(7), Q(5)),
		NewBuy(date.New(2025, time.April, 1), "ACME", "SGX", Q(350), Q(7), Q(5)),
		NewBuy(date.New(2025, time.May, 1), "OTHER", "SGX", Q(50), Q(2), Q(1)),
	)
	rec := NewReconciler(l)

	on := date.New(2026, time.March, 2)
	rewritten, err := rec.AppendSplitAndRewrite("ACME", "SGX", on, R(1, 7), Q(700))
	if err != nil {
		t.Fatal(err)
	}
	if rewritten != 2 {
		t.Errorf("rewritten = %d, want 2", rewritten)
	}
	if l.Len() != 5 {
		t.Fatalf("ledger has %d rows, want 5", l.Len())
	}

	var total Quantity
	for _, e := range l.Entries() {
		if !e.Matches("ACME", "SGX") || e.Type != EntryBuy {
			continue
		}
		// Transacted value survives the rewrite exactly.
		total = total.Add(e.Amount())
		if e.SplitRef != on.String() {
			t.Errorf("row not stamped: %+v", e)
		}
	}
	if !total.Equal(Q(4900)) {
		t.Errorf("total transacted value = %s, want 4900", total)
	}

	first := l.Entry(1)
	if !first.Units.Equal(Q(50)) || !first.Price.Equal(Q(49)) {
		t.Errorf("first buy = %s @ %s", first.Units, first.Price)
	}

	// Unrelated rows untouched.
	other := l.Entry(3)
	if !other.Units.Equal(Q(50)) || !other.Price.Equal(Q(2)) || other.SplitRef != "" {
		t.Errorf("unrelated row touched: %+v", other)
	}
	cash := l.Entry(0)
	if !cash.Price.Equal(Q(10000)) {
		t.Errorf("cash row touched: %+v", cash)
	}

	split := l.Entry(4)
	if split.Type != EntrySplit || split.Split != R(1, 7) || !split.Units.Equal(Q(700)) || !split.Price.IsZero() {
		t.Errorf("split row = %+v", split)
	}
}

func TestAppendSplitAndRewriteIsIdempotent(t *testing.T) {
	l := NewLedger()
	l.Append(NewBuy(date.New(2025, time.February, 1), "ACME", "SGX", Q(700), Q(7), Q(5)))
	rec := NewReconciler(l)

	on := date.New(2026, time.March, 2)
	if _, err := rec.AppendSplitAndRewrite("ACME", "SGX", on, R(1, 7), Q(700)); err != nil {
		t.Fatal(err)
	}
	// Retry after a partial failure must not double-apply.
	rewritten, err := rec.AppendSplitAndRewrite("ACME", "SGX", on, R(1, 7), Q(700))
	if err != nil {
		t.Fatal(err)
	}
	if rewritten != 0 {
		t.Errorf("second pass rewrote %d rows, want 0", rewritten)
	}
	if l.Len() != 2 {
		t.Errorf("ledger has %d rows, want buy + one split", l.Len())
	}
	buy := l.Entry(0)
	if !buy.Units.Equal(Q(100)) || !buy.Price.Equal(Q(49)) {
		t.Errorf("buy = %s @ %s, want 100 @ 49 after retry", buy.Units, buy.Price)
	}
}

func TestAppendSplitRejectsBadRatio(t *testing.T) {
	rec := NewReconciler(NewLedger())
	on := date.New(2026, time.March, 2)
	for _, r := range []Ratio{{}, {Num: 0, Den: 1}, {Num: -1, Den: 2}, {Num: 2, Den: 0}} {
		if _, err := rec.AppendSplitAndRewrite("ACME", "SGX", on, r, Q(700)); err == nil {
			t.Errorf("ratio %v accepted", r)
		}
	}
}

func TestForwardSplitRewrite(t *testing.T) {
	// A 4-for-1 forward split: 10 units at 200.00 become 40 at 50.00.
	l := NewLedger()
	l.Append(NewBuy(date.New(2025, time.February, 1), "ACME", "NYSE", Q(10), Q(200), Q(1)))
	rec := NewReconciler(l)

	if _, err := rec.AppendSplitAndRewrite("ACME", "NYSE", date.New(2026, time.March, 2), R(4, 1), Q(10)); err != nil {
		t.Fatal(err)
	}
	buy := l.Entry(0)
	if !buy.Units.Equal(Q(40)) || !buy.Price.Equal(Q(50)) {
		t.Errorf("buy = %s @ %s, want 40 @ 50", buy.Units, buy.Price)
	}
}
