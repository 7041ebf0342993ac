package prefs

import (
	"log/slog"
	"strconv"
)

// Counter names, in report order.
const (
	StatNumPrefs              = "numPrefs"
	StatNumUsersetPrefs       = "numUsersetPrefs"
	StatNumDefaultPrefs       = "numDefaultPrefs"
	StatNumLockedPrefs        = "numLockedPrefs"
	StatNumBooleanPrefs       = "numBooleanPrefs"
	StatNumIntegerPrefs       = "numIntegerPrefs"
	StatNumStringPrefs        = "numStringPrefs"
	StatNumLocalizedPrefs     = "numLocalizedPrefs"
	StatNumNonASCIIPrefs      = "numNonAsciiPrefs"
	StatNumNonExtASCIIPrefs   = "numNonExtAsciiPrefs"
	StatNumHighCodePointPrefs = "numHighCodePointPrefs"
	StatNumTypeErrors         = "numTypeErrors"
	StatNumUserValues         = "numUserValues"
	StatNumDefValues          = "numDefValues"
	StatMaxPrefNameLen        = "maxPrefNameLen"
	StatMaxUserValueLen       = "maxUserValueLen"
	StatMaxDefValueLen        = "maxDefValueLen"
	StatIncludedByPrefilter   = "includedByPrefilter"
	StatExcludedByPrefilter   = "excludedByPrefilter"
	StatIncFilterMatches      = "incFilterMatches"
	StatExcFilterMatches      = "excFilterMatches"
	StatNumPrefsForExport     = "numPrefsForExport"
)

// NotApplicable is reported for counters of a disabled filter stage.
const NotApplicable = "N/A"

var statOrder = []string{
	StatNumPrefs,
	StatNumUsersetPrefs,
	StatNumDefaultPrefs,
	StatNumLockedPrefs,
	StatNumBooleanPrefs,
	StatNumIntegerPrefs,
	StatNumStringPrefs,
	StatNumLocalizedPrefs,
	StatNumNonASCIIPrefs,
	StatNumNonExtASCIIPrefs,
	StatNumHighCodePointPrefs,
	StatNumTypeErrors,
	StatNumUserValues,
	StatNumDefValues,
	StatMaxPrefNameLen,
	StatMaxUserValueLen,
	StatMaxDefValueLen,
	StatIncludedByPrefilter,
	StatExcludedByPrefilter,
	StatIncFilterMatches,
	StatExcFilterMatches,
	StatNumPrefsForExport,
}

// StatNames returns the counter names in report order.
func StatNames() []string {
	return append([]string(nil), statOrder...)
}

// Stats is the mutable counter set of one export run. It is not safe for
// concurrent use; a run has a single writer.
type Stats struct {
	values   map[string]int
	disabled map[string]bool
	frozen   bool
}

// NewStats creates a counter set with every counter at zero.
func NewStats() *Stats {
	s := &Stats{
		values:   make(map[string]int, len(statOrder)),
		disabled: make(map[string]bool),
	}
	for _, name := range statOrder {
		s.values[name] = 0
	}
	return s
}

func (s *Stats) writable(name string) bool {
	if s.frozen {
		slog.Warn("Ignoring update of frozen stats", "counter", name)
		return false
	}
	if _, ok := s.values[name]; !ok {
		slog.Warn("Ignoring update of unknown counter", "counter", name)
		return false
	}
	return !s.disabled[name]
}

// Inc adds one to a counter.
func (s *Stats) Inc(name string) {
	if s.writable(name) {
		s.values[name]++
	}
}

// Max raises a counter to n if n is larger.
func (s *Stats) Max(name string, n int) {
	if s.writable(name) && n > s.values[name] {
		s.values[name] = n
	}
}

// Disable marks a counter as not applicable for this run.
func (s *Stats) Disable(name string) {
	if s.writable(name) {
		s.disabled[name] = true
	}
}

// Value returns the current value of a counter and whether it is enabled.
func (s *Stats) Value(name string) (int, bool) {
	v, ok := s.values[name]
	return v, ok && !s.disabled[name]
}

// Freeze ends the run's accounting and returns a read-only snapshot. Later
// updates are ignored.
func (s *Stats) Freeze() *Snapshot {
	s.frozen = true
	snap := &Snapshot{
		values: make(map[string]string, len(statOrder)),
		ints:   make(map[string]int, len(statOrder)),
	}
	for _, name := range statOrder {
		if s.disabled[name] {
			snap.values[name] = NotApplicable
			continue
		}
		snap.ints[name] = s.values[name]
		snap.values[name] = strconv.Itoa(s.values[name])
	}
	return snap
}

// Stat is one name/value pair of a Snapshot.
type Stat struct {
	Name  string
	Value string
}

// Snapshot is the frozen result of a Stats set.
type Snapshot struct {
	values map[string]string
	ints   map[string]int
}

// Get returns the rendered value of a counter, "N/A" for disabled ones and
// "" for unknown names.
func (s *Snapshot) Get(name string) string {
	if s == nil {
		return ""
	}
	return s.values[name]
}

// Int returns the numeric value of a counter; ok is false when the counter is
// disabled or unknown.
func (s *Snapshot) Int(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.ints[name]
	return v, ok
}

// Entries returns every counter in report order.
func (s *Snapshot) Entries() []Stat {
	if s == nil {
		return nil
	}
	out := make([]Stat, 0, len(statOrder))
	for _, name := range statOrder {
		out = append(out, Stat{Name: name, Value: s.values[name]})
	}
	return out
}
