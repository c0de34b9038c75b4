// Package renderer formats ledgers, quotes and daily-check reports as
// markdown.
package renderer

import (
	"fmt"
	"strings"

	"stocktracker"
)

// Entry renders a ledger row to a one-line string.
func Entry(e stocktracker.Entry) string {
	switch e.Type {
	case stocktracker.EntryBuy:
		return fmt.Sprintf("Bought %s of %s:%s at %s", e.Units, e.Exchange, e.Symbol, e.Price)
	case stocktracker.EntrySell:
		return fmt.Sprintf("Sold %s of %s:%s at %s", e.Units, e.Exchange, e.Symbol, e.Price)
	case stocktracker.EntryCashIn:
		return fmt.Sprintf("Deposited %s", e.Price)
	case stocktracker.EntryDiv:
		return fmt.Sprintf("Dividend of %s per unit on %s units of %s:%s", e.Price, e.Units, e.Exchange, e.Symbol)
	case stocktracker.EntrySplit:
		return fmt.Sprintf("Split %s:%s %s on %s units", e.Exchange, e.Symbol, e.Split, e.Units)
	default:
		return string(e.Type)
	}
}

// mdRenderer formats the output into a markdown string.
type mdRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the
// renderer's buffer.
func (r *mdRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

// LogMarkdown renders the whole ledger as a markdown table.
func LogMarkdown(l *stocktracker.Ledger) string {
	r := &mdRenderer{Builder: &strings.Builder{}}
	r.Printf("# Transaction Log\n\n")
	if l.Len() == 0 {
		r.Printf("The ledger is empty.\n")
		return r.String()
	}
	r.Printf("| Date | Type | Security | Units | Price | Fees | Ratio |\n")
	r.Printf("|:---|:---|:---|---:|---:|---:|---:|\n")
	for _, e := range l.Entries() {
		security := e.Exchange + ":" + e.Symbol
		if e.Symbol == stocktracker.CashSymbol {
			security = "cash"
		}
		r.Printf("| %s | %s | %s | %s | %s | %s | %s |\n",
			e.Date, e.Type, security, e.Units, e.Price, e.Fees, e.Split)
	}
	return r.String()
}

// ReportMarkdown renders a daily-check report.
func ReportMarkdown(report *stocktracker.Report) string {
	r := &mdRenderer{Builder: &strings.Builder{}}
	r.Printf("# Corporate Action Check %s\n\n", report.Day)
	if len(report.Outcomes) == 0 {
		r.Printf("No securities to check.\n")
		return r.String()
	}
	r.Printf("| Security | Units | Dividend | Split | Rows Rewritten | Note |\n")
	r.Printf("|:---|---:|---:|---:|---:|:---|\n")
	for _, out := range report.Outcomes {
		dividend, split, rewritten, note := "-", "-", "-", ""
		if out.DividendAdded {
			dividend = out.DividendPerUnit.String() + "/unit"
		}
		if out.SplitAdded {
			split = out.SplitRatio.String()
			rewritten = fmt.Sprintf("%d", out.RowsRewritten)
		}
		if out.Err != nil {
			note = out.Err.Error()
		}
		r.Printf("| %s | %s | %s | %s | %s | %s |\n",
			out.Security.Key(), out.Security.PreExDivUnits, dividend, split, rewritten, note)
	}
	return r.String()
}

// SnapshotMarkdown renders a quote snapshot.
func SnapshotMarkdown(symbol, exchange string, s stocktracker.Snapshot) string {
	r := &mdRenderer{Builder: &strings.Builder{}}
	r.Printf("# %s (%s:%s)\n\n", s.Name, exchange, symbol)
	r.Printf("| | |\n|:---|---:|\n")
	r.Printf("| Price | %s |\n", stocktracker.M(s.Price, s.Currency))
	r.Printf("| Change | %+.2f (%+.2f%%) |\n", s.PriceChange, s.PercentChange)
	r.Printf("| 52w Range | %s - %s |\n", stocktracker.M(s.FiftyTwoWeekLow, s.Currency), stocktracker.M(s.FiftyTwoWeekHigh, s.Currency))
	r.Printf("| 50d Average | %s |\n", stocktracker.M(s.FiftyDayAverage, s.Currency))
	r.Printf("| 200d Average | %s |\n", stocktracker.M(s.TwoHundredDayAverage, s.Currency))
	return r.String()
}

// ActionsMarkdown renders a corporate-action summary.
func ActionsMarkdown(symbol, exchange string, a stocktracker.CorporateActions) string {
	r := &mdRenderer{Builder: &strings.Builder{}}
	r.Printf("# Corporate Actions %s:%s\n\n", exchange, symbol)
	r.Printf("| | |\n|:---|---:|\n")
	r.Printf("| Annual Dividend | %.4f |\n", a.AnnualDividend)
	if a.LastDividendDate.IsZero() {
		r.Printf("| Last Dividend | none on record |\n")
	} else {
		r.Printf("| Last Dividend | %.4f on %s |\n", a.LastDividendAmount, a.LastDividendDate)
	}
	if a.LastSplitDate.IsZero() {
		r.Printf("| Last Split | none on record |\n")
	} else {
		r.Printf("| Last Split | %s on %s |\n", a.LastSplitRatio, a.LastSplitDate)
	}
	return r.String()
}

// PricesMarkdown renders a closing-price series with simple range
// statistics.
func PricesMarkdown(symbol, exchange string, prices []float64) string {
	r := &mdRenderer{Builder: &strings.Builder{}}
	r.Printf("# Closing Prices %s:%s\n\n", exchange, symbol)
	if len(prices) == 0 {
		r.Printf("No prices on record.\n")
		return r.String()
	}
	low, high := prices[0], prices[0]
	for _, p := range prices {
		if p < low {
			low = p
		}
		if p > high {
			high = p
		}
	}
	r.Printf("%d sessions, last %.4f, low %.4f, high %.4f\n",
		len(prices), prices[len(prices)-1], low, high)
	return r.String()
}
