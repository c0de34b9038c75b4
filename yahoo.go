package stocktracker

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"stocktracker/cache"
	"stocktracker/date"
)

// This file contains functions to access the Yahoo finance API.

// ErrNoData is returned when Yahoo has no usable data for a security.
var ErrNoData = errors.New("no data found")

// Cache expiries. Quote snapshots move all day; corporate action events
// are rare, so they can sit longer.
const (
	snapshotExpiry = time.Hour
	actionsExpiry  = 4 * time.Hour
)

// defaultExchangeCodes maps an exchange code to the Yahoo symbol
// suffix. US exchanges carry no suffix on Yahoo.
var defaultExchangeCodes = map[string]string{
	"NYSE":     "",
	"NASDAQ":   "",
	"NYSEARCA": "",
	"AMEX":     "",
	"SGX":      "SI",
	"LON":      "L",
	"TYO":      "T",
	"ASX":      "AX",
	"TSE":      "TO",
	"CVE":      "V",
	"HKG":      "HK",
	"FRA":      "F",
	"ETR":      "DE",
	"EPA":      "PA",
	"AMS":      "AS",
	"EBR":      "BR",
	"ELI":      "LS",
	"BIT":      "MI",
	"BME":      "MC",
	"SWX":      "SW",
	"STO":      "ST",
	"CPH":      "CO",
	"HEL":      "HE",
	"ICE":      "IC",
	"OSL":      "OL",
	"WSE":      "WA",
	"NSE":      "NS",
	"BOM":      "BO",
	"KRX":      "KS",
	"KOSDAQ":   "KQ",
	"SHA":      "SS",
	"SHE":      "SZ",
	"TPE":      "TW",
	"BKK":      "BK",
	"KLSE":     "KL",
	"IDX":      "JK",
	"NZE":      "NZ",
	"JSE":      "JO",
	"TLV":      "TA",
	"BVMF":     "SA",
	"BMV":      "MX",
}

// Snapshot is the current quote picture of a security.
type Snapshot struct {
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	PriceChange          float64 `json:"priceChange"`
	PercentChange        float64 `json:"percentChange"`
	Currency             string  `json:"currency"`
	FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
	FiftyDayAverage      float64 `json:"fiftyDayAverage"`
	TwoHundredDayAverage float64 `json:"twoHundredDayAverage"`
}

// CorporateActions summarizes the dividend and split history of a
// security since the start of last calendar year. Zero dates and a zero
// ratio mean nothing is on record for that event kind.
type CorporateActions struct {
	AnnualDividend     float64   `json:"annualDividendRate"`
	LastDividendDate   date.Date `json:"lastDividendDate"`
	LastDividendAmount float64   `json:"lastDividendAmnt"`
	LastSplitDate      date.Date `json:"lastSplitDate"`
	LastSplitRatio     Ratio     `json:"lastSplitRatio"`
}

// Client fetches market data from Yahoo finance, caching responses so
// that repeated runs within the expiry window hit the network once.
type Client struct {
	cache         *cache.Cache
	http          *http.Client
	quoteBase     string
	chartBase     string
	exchangeCodes map[string]string
	today         func() date.Date
}

// NewClient returns a Yahoo client over the given cache.
func NewClient(c *cache.Cache) *Client {
	return &Client{
		cache:         c,
		http:          new(http.Client),
		quoteBase:     "https://query1.finance.yahoo.com/v6/finance/quote/",
		chartBase:     "https://query2.finance.yahoo.com/v8/finance/chart/",
		exchangeCodes: defaultExchangeCodes,
		today:         date.Today,
	}
}

// yahooSymbol builds the Yahoo ticker for a symbol on an exchange.
func (c *Client) yahooSymbol(symbol, exchange string) string {
	suffix, ok := c.exchangeCodes[strings.ToUpper(exchange)]
	if !ok {
		// Unknown exchange: try the bare symbol, Yahoo resolves most
		// US listings without a suffix.
		log.Printf("unknown exchange code %q for %s, trying without suffix", exchange, symbol)
	}
	if suffix != "" {
		return url.QueryEscape(symbol + "." + suffix)
	}
	return url.QueryEscape(symbol)
}

func cacheKey(symbol, exchange, kind string) string {
	return strings.ToUpper(symbol) + strings.ToUpper(exchange) + kind
}

// Snapshot returns the current quote for a security, from cache when
// fresh enough.
func (c *Client) Snapshot(symbol, exchange string) (Snapshot, error) {
	key := cacheKey(symbol, exchange, "YAHOOSIMPLE")
	var snap Snapshot
	if ok, err := c.cache.GetObject(key, &snap); err != nil {
		return Snapshot{}, err
	} else if ok {
		return snap, nil
	}

	addr := c.quoteBase + "?symbols=" + c.yahooSymbol(symbol, exchange)
	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		return Snapshot{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}

	result, err := jsonpath.Get("$.quoteResponse.result[0]", jobj)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w for %q", ErrNoData, symbol)
	}

	snap.Name = jstring(result, "longName")
	if snap.Name == "" {
		snap.Name = jstring(result, "shortName")
	}
	snap.Currency = jstring(result, "currency")
	price, ok := jnumber(result, "regularMarketPrice")
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %q has no market price", ErrNoData, symbol)
	}
	snap.Price = price
	snap.PriceChange, _ = jnumber(result, "regularMarketChange")
	snap.PercentChange, _ = jnumber(result, "regularMarketChangePercent")
	snap.FiftyTwoWeekLow, _ = jnumber(result, "fiftyTwoWeekLow")
	snap.FiftyTwoWeekHigh, _ = jnumber(result, "fiftyTwoWeekHigh")
	snap.FiftyDayAverage, _ = jnumber(result, "fiftyDayAverage")
	snap.TwoHundredDayAverage, _ = jnumber(result, "twoHundredDayAverage")

	if err := c.cache.PutObject(key, snap, snapshotExpiry); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return snap, nil
}

// jstring extracts a string field from a decoded JSON object, empty
// when absent.
func jstring(jobj any, field string) string {
	jval, err := jsonpath.Get("$."+field, jobj)
	if err != nil {
		return ""
	}
	s, _ := jval.(string)
	return s
}

// jnumber extracts a numeric field from a decoded JSON object.
func jnumber(jobj any, field string) (float64, bool) {
	jval, err := jsonpath.Get("$."+field, jobj)
	if err != nil {
		return 0, false
	}
	val, ok := jval.(float64)
	return val, ok
}

// Yahoo v8 chart payload.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]dividendEvent `json:"dividends"`
		Splits    map[string]splitEvent    `json:"splits"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Close []float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type dividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type splitEvent struct {
	Date        int64  `json:"date"`
	Numerator   int64  `json:"numerator"`
	Denominator int64  `json:"denominator"`
	SplitRatio  string `json:"splitRatio"`
}

// fetchChart queries the chart endpoint from the start of last calendar
// year to now, with dividend and split events included.
func (c *Client) fetchChart(symbol, exchange string) (chartResult, error) {
	lastYearStart := date.New(c.today().Year()-1, time.January, 1)
	sym := c.yahooSymbol(symbol, exchange)
	addr := fmt.Sprintf("%s%s?symbol=%s&period1=%d&period2=9999999999&interval=1d&includePrePost=true&events=div%%2Csplit",
		c.chartBase, sym, sym, lastYearStart.Unix())

	var payload chartResponse
	if err := jwget(c.http, addr, &payload); err != nil {
		return chartResult{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	if len(payload.Chart.Result) == 0 {
		return chartResult{}, fmt.Errorf("%w for %q", ErrNoData, symbol)
	}
	return payload.Chart.Result[0], nil
}

// CorporateActions returns the dividend and split summary for a
// security, from cache when fresh enough.
func (c *Client) CorporateActions(symbol, exchange string) (CorporateActions, error) {
	key := cacheKey(symbol, exchange, "YAHOOADVANCED")
	var actions CorporateActions
	if ok, err := c.cache.GetObject(key, &actions); err != nil {
		return CorporateActions{}, err
	} else if ok {
		return actions, nil
	}

	result, err := c.fetchChart(symbol, exchange)
	if err != nil {
		return CorporateActions{}, err
	}

	lastYear := c.today().Year() - 1

	// Event maps key by epoch; sort them so equal-date ties resolve the
	// same way on every run.
	dividends := make([]dividendEvent, 0, len(result.Events.Dividends))
	for _, div := range result.Events.Dividends {
		dividends = append(dividends, div)
	}
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date < dividends[j].Date })

	var lastDividend int64 = -1
	for _, div := range dividends {
		if div.Date > lastDividend {
			lastDividend = div.Date
			actions.LastDividendDate = date.FromUnix(div.Date)
			actions.LastDividendAmount = div.Amount
		}
		if date.FromUnix(div.Date).Year() == lastYear {
			actions.AnnualDividend += div.Amount
		}
	}

	splits := make([]splitEvent, 0, len(result.Events.Splits))
	for _, split := range result.Events.Splits {
		splits = append(splits, split)
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].Date < splits[j].Date })

	var lastSplit int64 = -1
	for _, split := range splits {
		if split.Date > lastSplit && split.Denominator != 0 {
			lastSplit = split.Date
			actions.LastSplitDate = date.FromUnix(split.Date)
			actions.LastSplitRatio = R(split.Numerator, split.Denominator)
		}
	}

	if err := c.cache.PutObject(key, actions, actionsExpiry); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return actions, nil
}

// ClosingPrices returns the daily closing prices since the start of
// last calendar year. Historical series are too large to be worth
// caching, so every call hits the network.
func (c *Client) ClosingPrices(symbol, exchange string) ([]float64, error) {
	result, err := c.fetchChart(symbol, exchange)
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %q has no quote series", ErrNoData, symbol)
	}
	return result.Indicators.Quote[0].Close, nil
}
