package stocktracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"stocktracker/date"
)

// CheckedState records which securities have already had a dividend or
// split reconciled today. It is scoped to one calendar day: reading a
// state file stamped with an older day yields a fresh empty state.
//
// A key present in the dividend set means a dividend row dated that day
// has been appended for it already; same for splits. Keys use the
// "EXCHANGE:SYMBOL" form.
type CheckedState struct {
	day       date.Date
	dividends map[string]struct{}
	splits    map[string]struct{}
}

// NewCheckedState returns an empty state for the given day.
func NewCheckedState(day date.Date) *CheckedState {
	return &CheckedState{
		day:       day,
		dividends: make(map[string]struct{}),
		splits:    make(map[string]struct{}),
	}
}

// Day returns the calendar day the state belongs to.
func (s *CheckedState) Day() date.Date { return s.day }

// DividendChecked reports whether the security's dividend was already
// reconciled today.
func (s *CheckedState) DividendChecked(key string) bool {
	_, ok := s.dividends[key]
	return ok
}

// SplitChecked reports whether the security's split was already
// reconciled today.
func (s *CheckedState) SplitChecked(key string) bool {
	_, ok := s.splits[key]
	return ok
}

// MarkDividend records the security's dividend as reconciled.
func (s *CheckedState) MarkDividend(key string) { s.dividends[key] = struct{}{} }

// MarkSplit records the security's split as reconciled.
func (s *CheckedState) MarkSplit(key string) { s.splits[key] = struct{}{} }

// checkedStateJSON is the persisted form, with sorted key lists for a
// stable file.
type checkedStateJSON struct {
	Day       date.Date `json:"day"`
	Dividends []string  `json:"dividends"`
	Splits    []string  `json:"splits"`
}

func (s *CheckedState) MarshalJSON() ([]byte, error) {
	out := checkedStateJSON{Day: s.day}
	for k := range s.dividends {
		out.Dividends = append(out.Dividends, k)
	}
	for k := range s.splits {
		out.Splits = append(out.Splits, k)
	}
	slices.Sort(out.Dividends)
	slices.Sort(out.Splits)
	return json.Marshal(out)
}

func (s *CheckedState) UnmarshalJSON(data []byte) error {
	var in checkedStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = *NewCheckedState(in.Day)
	for _, k := range in.Dividends {
		s.dividends[k] = struct{}{}
	}
	for _, k := range in.Splits {
		s.splits[k] = struct{}{}
	}
	return nil
}

// CheckSetFile persists the checked-set as a JSON file next to the
// ledger. Writes are atomic so two runs of the same day never observe a
// torn state.
type CheckSetFile struct {
	path string
}

// NewCheckSetFile returns a store over the given path.
func NewCheckSetFile(path string) *CheckSetFile { return &CheckSetFile{path: path} }

// Load reads the state for the given day. A missing file, or a file
// stamped with a different day, yields a fresh empty state: the daily
// reset is implicit on the first read of a new day.
func (f *CheckSetFile) Load(day date.Date) (*CheckedState, error) {
	content, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewCheckedState(day), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read checked-set file %q: %w", f.path, err)
	}
	state := NewCheckedState(day)
	if err := json.Unmarshal(content, state); err != nil {
		return nil, fmt.Errorf("could not decode checked-set file %q: %w", f.path, err)
	}
	if state.day != day {
		return NewCheckedState(day), nil
	}
	return state, nil
}

// Save writes the state back atomically.
func (f *CheckSetFile) Save(state *CheckedState) error {
	content, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not encode checked-set: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create checked-set directory %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary checked-set file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("could not replace checked-set file %q: %w", f.path, err)
	}
	return nil
}

// Reset truncates the persisted state to an empty one for the given
// day. This is the explicit daily-reset entry point for the scheduler.
func (f *CheckSetFile) Reset(day date.Date) error {
	return f.Save(NewCheckedState(day))
}
