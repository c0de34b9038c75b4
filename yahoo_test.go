package stocktracker

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stocktracker/cache"
	"stocktracker/date"
)

// newTestClient wires a Client against a fake Yahoo server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(cache.New(cache.NewMemStore()))
	c.quoteBase = srv.URL + "/v6/finance/quote/"
	c.chartBase = srv.URL + "/v8/finance/chart/"
	c.today = func() date.Date { return date.New(2026, time.March, 2) }
	return c, srv
}

const quotePayload = `{"quoteResponse":{"result":[{
	"longName":"Vanguard Total Stock Market ETF",
	"shortName":"Vanguard Total Stock",
	"currency":"USD",
	"regularMarketPrice":245.12,
	"regularMarketChange":-1.2,
	"regularMarketChangePercent":-0.49,
	"fiftyTwoWeekLow":190.0,
	"fiftyTwoWeekHigh":250.0,
	"fiftyDayAverage":240.5,
	"twoHundredDayAverage":231.7
}],"error":null}}`

func TestSnapshot(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, quotePayload)
	}))

	snap, err := c.Snapshot("VTI", "NYSEARCA")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Name != "Vanguard Total Stock Market ETF" {
		t.Errorf("Name = %q", snap.Name)
	}
	if snap.Price != 245.12 || snap.Currency != "USD" {
		t.Errorf("Price = %v %s", snap.Price, snap.Currency)
	}
	if snap.FiftyTwoWeekHigh != 250.0 || snap.TwoHundredDayAverage != 231.7 {
		t.Errorf("ranges = %v %v", snap.FiftyTwoWeekHigh, snap.TwoHundredDayAverage)
	}

	// Second read must come from the cache.
	if _, err := c.Snapshot("VTI", "NYSEARCA"); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestSnapshotFallsBackToShortName(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"shortName":"ES3","currency":"SGD","regularMarketPrice":3.41}]}}`)
	}))
	snap, err := c.Snapshot("ES3", "SGX")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Name != "ES3" {
		t.Errorf("Name = %q, want short name fallback", snap.Name)
	}
}

func TestSnapshotNoData(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteResponse":{"result":[],"error":null}}`)
	}))
	_, err := c.Snapshot("NOPE", "NYSE")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}

// chartPayload has two dividends in 2025, one in 2026, and one split.
func chartPayload() string {
	div2025a := date.New(2025, time.March, 14).Unix() + 43200
	div2025b := date.New(2025, time.September, 12).Unix() + 43200
	div2026 := date.New(2026, time.March, 2).Unix() + 43200
	split := date.New(2026, time.February, 20).Unix() + 43200
	return fmt.Sprintf(`{"chart":{"result":[{
		"timestamp":[%d],
		"events":{
			"dividends":{
				"%d":{"amount":0.25,"date":%d},
				"%d":{"amount":0.30,"date":%d},
				"%d":{"amount":0.50,"date":%d}
			},
			"splits":{
				"%d":{"date":%d,"numerator":1,"denominator":7,"splitRatio":"1:7"}
			}
		},
		"indicators":{"quote":[{"close":[7.0,7.1,6.9]}]}
	}],"error":null}}`,
		div2026,
		div2025a, div2025a, div2025b, div2025b, div2026, div2026,
		split, split)
}

func TestCorporateActions(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, chartPayload())
	}))

	actions, err := c.CorporateActions("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if actions.AnnualDividend != 0.55 {
		t.Errorf("AnnualDividend = %v, want 0.55 (2025 events only)", actions.AnnualDividend)
	}
	if want := date.New(2026, time.March, 2); actions.LastDividendDate != want {
		t.Errorf("LastDividendDate = %v, want %v", actions.LastDividendDate, want)
	}
	if actions.LastDividendAmount != 0.50 {
		t.Errorf("LastDividendAmount = %v", actions.LastDividendAmount)
	}
	if want := date.New(2026, time.February, 20); actions.LastSplitDate != want {
		t.Errorf("LastSplitDate = %v, want %v", actions.LastSplitDate, want)
	}
	if actions.LastSplitRatio != R(1, 7) {
		t.Errorf("LastSplitRatio = %v, want 1/7", actions.LastSplitRatio)
	}

	// Second read must come from the cache, ratio intact.
	again, err := c.CorporateActions("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
	if again.LastSplitRatio != R(1, 7) {
		t.Errorf("cached LastSplitRatio = %v", again.LastSplitRatio)
	}
}

func TestCorporateActionsNoEvents(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1],"indicators":{"quote":[{"close":[1.0]}]}}],"error":null}}`)
	}))
	actions, err := c.CorporateActions("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if !actions.LastDividendDate.IsZero() || !actions.LastSplitDate.IsZero() {
		t.Errorf("dates should be zero: %+v", actions)
	}
	if !actions.LastSplitRatio.IsZero() {
		t.Errorf("ratio should be the unset sentinel: %v", actions.LastSplitRatio)
	}
	if actions.AnnualDividend != 0 {
		t.Errorf("AnnualDividend = %v", actions.AnnualDividend)
	}

	// The zero sentinels must survive the cached form: a second read is
	// served without another network call.
	again, err := c.CorporateActions("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
	if !again.LastSplitDate.IsZero() || !again.LastSplitRatio.IsZero() {
		t.Errorf("cached record lost the unset sentinels: %+v", again)
	}
}

func TestCorporateActionsDividendsOnlyCached(t *testing.T) {
	// The common case: a payer that has never split. The zero
	// LastSplitDate must not spoil the cached record.
	div := date.New(2026, time.March, 2).Unix() + 43200
	payload := fmt.Sprintf(`{"chart":{"result":[{
		"timestamp":[%d],
		"events":{"dividends":{"%d":{"amount":0.50,"date":%d}}},
		"indicators":{"quote":[{"close":[7.0]}]}
	}],"error":null}}`, div, div, div)

	var hits int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, payload)
	}))

	first, err := c.CorporateActions("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if want := date.New(2026, time.March, 2); first.LastDividendDate != want {
		t.Errorf("LastDividendDate = %v, want %v", first.LastDividendDate, want)
	}
	if !first.LastSplitDate.IsZero() {
		t.Errorf("LastSplitDate = %v, want zero", first.LastSplitDate)
	}

	again, err := c.CorporateActions("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
	if again.LastDividendDate != first.LastDividendDate || !again.LastSplitDate.IsZero() {
		t.Errorf("cached record = %+v, want %+v", again, first)
	}
}

func TestClosingPricesUncached(t *testing.T) {
	var hits int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, chartPayload())
	}))
	prices, err := c.ClosingPrices("ACME", "NYSE")
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 3 || prices[0] != 7.0 {
		t.Errorf("prices = %v", prices)
	}
	if _, err := c.ClosingPrices("ACME", "NYSE"); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("server hit %d times, want 2 (no caching)", hits)
	}
}

func TestYahooSymbolSuffix(t *testing.T) {
	c := NewClient(cache.New(cache.NewMemStore()))
	tests := []struct {
		symbol, exchange, want string
	}{
		{"ES3", "SGX", "ES3.SI"},
		{"VTI", "NYSEARCA", "VTI"},
		{"VOD", "LON", "VOD.L"},
		{"AAPL", "UNKNOWN", "AAPL"},
	}
	for _, tt := range tests {
		if got := c.yahooSymbol(tt.symbol, tt.exchange); got != tt.want {
			t.Errorf("yahooSymbol(%q, %q) = %q, want %q", tt.symbol, tt.exchange, got, tt.want)
		}
	}
}
