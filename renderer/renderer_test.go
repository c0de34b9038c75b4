package renderer

import (
	"strings"
	"testing"
	"time"

	"stocktracker"
	"stocktracker/date"
)

func TestEntry(t *testing.T) {
	on := date.New(2026, time.March, 2)
	tests := []struct {
		entry stocktracker.Entry
		want  string
	}{
		{stocktracker.NewBuy(on, "ES3", "SGX", stocktracker.Q(100), stocktracker.Q(3.4), stocktracker.Q(1)),
			"Bought 100 of SGX:ES3 at 3.4"},
		{stocktracker.NewSell(on, "ES3", "SGX", stocktracker.Q(50), stocktracker.Q(3.5), stocktracker.Q(1)),
			"Sold 50 of SGX:ES3 at 3.5"},
		{stocktracker.NewCashIn(on, stocktracker.Q(10000)),
			"Deposited 10000"},
		{stocktracker.NewDividend(on, "ES3", "SGX", stocktracker.Q(0.5), stocktracker.Q(100)),
			"Dividend of 0.5 per unit on 100 units of SGX:ES3"},
		{stocktracker.NewSplit(on, "ACME", "SGX", stocktracker.R(1, 7), stocktracker.Q(700)),
			"Split SGX:ACME 1/7 on 700 units"},
	}
	for _, tt := range tests {
		if got := Entry(tt.entry); got != tt.want {
			t.Errorf("Entry(%s) = %q, want %q", tt.entry.Type, got, tt.want)
		}
	}
}

func TestLogMarkdown(t *testing.T) {
	l := stocktracker.NewLedger()
	l.Append(
		stocktracker.NewCashIn(date.New(2025, time.January, 2), stocktracker.Q(10000)),
		stocktracker.NewBuy(date.New(2025, time.June, 1), "ES3", "SGX", stocktracker.Q(100), stocktracker.Q(3.4), stocktracker.Q(1)),
	)
	md := LogMarkdown(l)
	if !strings.Contains(md, "| 2025-06-01 | buy | SGX:ES3 |") {
		t.Errorf("missing buy row:\n%s", md)
	}
	if !strings.Contains(md, "| cash |") {
		t.Errorf("cash row must not show the placeholder symbol:\n%s", md)
	}
}

func TestLogMarkdownEmpty(t *testing.T) {
	md := LogMarkdown(stocktracker.NewLedger())
	if !strings.Contains(md, "empty") {
		t.Errorf("empty ledger rendering:\n%s", md)
	}
}

func TestReportMarkdown(t *testing.T) {
	report := &stocktracker.Report{
		Day: date.New(2026, time.March, 2),
		Outcomes: []stocktracker.Outcome{
			{
				Security:        stocktracker.Security{Symbol: "ES3", Exchange: "SGX", PreExDivUnits: stocktracker.Q(100)},
				DividendAdded:   true,
				DividendPerUnit: stocktracker.Q(0.5),
			},
			{
				Security:      stocktracker.Security{Symbol: "ACME", Exchange: "SGX", PreExDivUnits: stocktracker.Q(700)},
				SplitAdded:    true,
				SplitRatio:    stocktracker.R(1, 7),
				RowsRewritten: 2,
			},
		},
	}
	md := ReportMarkdown(report)
	if !strings.Contains(md, "0.5/unit") {
		t.Errorf("missing dividend outcome:\n%s", md)
	}
	if !strings.Contains(md, "| 1/7 | 2 |") {
		t.Errorf("missing split outcome:\n%s", md)
	}
}

func TestSnapshotMarkdown(t *testing.T) {
	s := stocktracker.Snapshot{
		Name:     "Vanguard Total Stock Market ETF",
		Price:    245.12,
		Currency: "USD",
	}
	md := SnapshotMarkdown("VTI", "NYSEARCA", s)
	if !strings.Contains(md, "Vanguard Total Stock Market ETF") || !strings.Contains(md, "$245.12") {
		t.Errorf("snapshot rendering:\n%s", md)
	}
}

func TestActionsMarkdownNoneOnRecord(t *testing.T) {
	md := ActionsMarkdown("ES3", "SGX", stocktracker.CorporateActions{})
	if strings.Count(md, "none on record") != 2 {
		t.Errorf("zero actions rendering:\n%s", md)
	}
}

func TestPricesMarkdown(t *testing.T) {
	md := PricesMarkdown("ES3", "SGX", []float64{3.4, 3.6, 3.2, 3.5})
	if !strings.Contains(md, "4 sessions") || !strings.Contains(md, "low 3.2000") || !strings.Contains(md, "high 3.6000") {
		t.Errorf("prices rendering:\n%s", md)
	}
}
