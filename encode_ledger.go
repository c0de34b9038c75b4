package stocktracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes rows from a stream of JSONL data, validates each
// one, and returns a sorted Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var e Entry
		if err := json.Unmarshal(lineBytes, &e); err != nil {
			return nil, fmt.Errorf("could not decode ledger line %d %q: %w", line, string(lineBytes), err)
		}
		e, err := e.Validate()
		if err != nil {
			return nil, fmt.Errorf("invalid ledger line %d: %w", line, err)
		}
		ledger.entries = append(ledger.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	ledger.stableSort()
	return ledger, nil
}

// EncodeLedger writes the ledger as JSONL, one row per line, in
// chronological order with a stable field order.
func EncodeLedger(w io.Writer, l *Ledger) error {
	bw := bufio.NewWriter(w)
	for _, e := range l.entries {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("could not encode ledger row on %s: %w", e.Date, err)
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
