package stocktracker

import (
	"encoding/json"
	"errors"
	"fmt"

	"stocktracker/date"
)

// EntryType is a typed string identifying a ledger row.
type EntryType string

// Row types recorded in the ledger.
const (
	EntryBuy    EntryType = "buy"
	EntrySell   EntryType = "sell"
	EntryCashIn EntryType = "cash-in"
	EntryDiv    EntryType = "dividend"
	EntrySplit  EntryType = "split"
)

// ParseEntryType parses a string into an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(s) {
	case EntryBuy, EntrySell, EntryCashIn, EntryDiv, EntrySplit:
		return EntryType(s), nil
	default:
		return "", fmt.Errorf("unknown entry type: %q", s)
	}
}

// CashSymbol is the placeholder symbol carried by cash-in rows.
const CashSymbol = "$$$"

// Entry is one ledger row. All row types share the same shape so the
// split rewrite can adjust Units and Price in place whatever the type.
type Entry struct {
	Date     date.Date
	Type     EntryType
	Symbol   string
	Exchange string
	Units    Quantity
	Price    Quantity // per unit
	Fees     Quantity
	Split    Ratio  // 1/1 except on split rows
	SplitRef string // date of the split that last adjusted this row
}

// Key returns the "EXCHANGE:SYMBOL" identity used by the checked-set.
func (e Entry) Key() string { return e.Exchange + ":" + e.Symbol }

// Matches reports whether the row belongs to the given security.
func (e Entry) Matches(symbol, exchange string) bool {
	return e.Symbol == symbol && e.Exchange == exchange
}

// Amount returns the transacted value of the row, units times price.
func (e Entry) Amount() Quantity { return e.Units.Mul(e.Price) }

// Validate checks the row for structural correctness, defaulting the
// date to today and the split ratio to the identity.
func (e Entry) Validate() (Entry, error) {
	if _, err := ParseEntryType(string(e.Type)); err != nil {
		return e, err
	}
	if e.Date.IsZero() {
		e.Date = date.Today()
	}
	if e.Split.IsZero() {
		e.Split = OneToOne
	}
	if e.Symbol == "" {
		return e, errors.New("entry symbol is missing")
	}
	switch e.Type {
	case EntryBuy, EntrySell:
		if !e.Units.IsPositive() {
			return e, fmt.Errorf("%s units must be positive, got %s", e.Type, e.Units)
		}
		if e.Price.IsNegative() {
			return e, fmt.Errorf("%s price cannot be negative, got %s", e.Type, e.Price)
		}
	case EntryDiv:
		if e.Units.IsNegative() {
			return e, fmt.Errorf("dividend units cannot be negative, got %s", e.Units)
		}
	case EntrySplit:
		if e.Split.Num <= 0 || e.Split.Den <= 0 {
			return e, fmt.Errorf("split ratio must be positive, got %s", e.Split)
		}
	}
	if e.Fees.IsNegative() {
		return e, fmt.Errorf("fees cannot be negative, got %s", e.Fees)
	}
	return e, nil
}

// NewBuy creates a buy row.
func NewBuy(day date.Date, symbol, exchange string, units, price, fees Quantity) Entry {
	return Entry{Date: day, Type: EntryBuy, Symbol: symbol, Exchange: exchange,
		Units: units, Price: price, Fees: fees, Split: OneToOne}
}

// NewSell creates a sell row.
func NewSell(day date.Date, symbol, exchange string, units, price, fees Quantity) Entry {
	return Entry{Date: day, Type: EntrySell, Symbol: symbol, Exchange: exchange,
		Units: units, Price: price, Fees: fees, Split: OneToOne}
}

// NewCashIn creates a cash deposit row. The amount rides in the price
// column with a single unit, mirroring the original store's layout.
func NewCashIn(day date.Date, amount Quantity) Entry {
	return Entry{Date: day, Type: EntryCashIn, Symbol: CashSymbol, Exchange: "-",
		Units: Q(1), Price: amount, Split: OneToOne}
}

// NewDividend creates a dividend row: units held at ex-date, dividend
// amount per unit in the price column, no fees, identity ratio.
func NewDividend(day date.Date, symbol, exchange string, perUnit, units Quantity) Entry {
	return Entry{Date: day, Type: EntryDiv, Symbol: symbol, Exchange: exchange,
		Units: units, Price: perUnit, Split: OneToOne}
}

// NewSplit creates a split row recording the pre-split holding and the
// ratio. The price column is zero: a split moves no cash.
func NewSplit(day date.Date, symbol, exchange string, ratio Ratio, preSplitUnits Quantity) Entry {
	return Entry{Date: day, Type: EntrySplit, Symbol: symbol, Exchange: exchange,
		Units: preSplitUnits, Split: ratio}
}

// MarshalJSON writes the row with a stable field order.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", e.Date)
	w.Append("type", e.Type)
	w.Append("symbol", e.Symbol)
	w.Append("exchange", e.Exchange)
	w.Append("units", e.Units)
	w.Append("price", e.Price)
	w.Optional("fees", e.Fees)
	w.Append("split", e.Split)
	w.Optional("splitRef", e.SplitRef)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a row, defaulting a missing ratio to the identity.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var temp struct {
		Date     date.Date `json:"date"`
		Type     EntryType `json:"type"`
		Symbol   string    `json:"symbol"`
		Exchange string    `json:"exchange"`
		Units    Quantity  `json:"units"`
		Price    Quantity  `json:"price"`
		Fees     Quantity  `json:"fees"`
		Split    Ratio     `json:"split"`
		SplitRef string    `json:"splitRef"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.Split.IsZero() {
		temp.Split = OneToOne
	}
	*e = Entry{Date: temp.Date, Type: temp.Type, Symbol: temp.Symbol, Exchange: temp.Exchange,
		Units: temp.Units, Price: temp.Price, Fees: temp.Fees, Split: temp.Split, SplitRef: temp.SplitRef}
	return nil
}
