package stocktracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LedgerFile owns the persistence of a ledger as a JSONL file. Writes
// go through a temporary file and a rename, so readers never observe a
// half-written ledger.
type LedgerFile struct {
	path string
}

// NewLedgerFile returns a store over the given path.
func NewLedgerFile(path string) *LedgerFile { return &LedgerFile{path: path} }

// Path returns the backing file path.
func (s *LedgerFile) Path() string { return s.path }

// Load reads the ledger file. A missing file yields an empty ledger.
func (s *LedgerFile) Load() (*Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", s.path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", s.path, err)
	}
	return ledger, nil
}

// Save writes the whole ledger back atomically.
func (s *LedgerFile) Save(l *Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create ledger directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode ledger file %q: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace ledger file %q: %w", s.path, err)
	}
	return nil
}
