// Package collector reads every preference under a root from a store and
// turns it into a classified prefs.Entry.
package collector

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/stacklok/prefsnap/internal/prefs"
	"github.com/stacklok/prefsnap/internal/store"
)

var (
	// ErrKeyCountMismatch is returned when the default and effective views
	// list a different number of keys
	ErrKeyCountMismatch = errors.New("pref count mismatch")

	// ErrKeyMismatch is returned when the two views disagree on a key name or type
	ErrKeyMismatch = errors.New("pref name or type mismatch")
)

// localizedRef matches string values that point at a localized properties file.
var localizedRef = regexp.MustCompile(`^chrome://.+/locale/.+\.properties`)

// Options control a collection run
type Options struct {
	// Root limits collection to names starting with this prefix
	Root string

	// CaseSensitive selects byte order; otherwise names are ordered by their
	// case-folded form
	CaseSensitive bool

	// LogNonASCII logs every string preference holding non-ASCII characters
	LogNonASCII bool
}

// Collect lists and classifies all preferences under opts.Root. Both views of
// the store must describe the same key set with the same types; any
// disagreement aborts the run.
func Collect(ctx context.Context, st store.Store, opts Options, stats *prefs.Stats) ([]prefs.Entry, error) {
	defNames, err := st.ChildList(ctx, store.ViewDefault, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list default prefs: %w", err)
	}
	names, err := st.ChildList(ctx, store.ViewEffective, opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list effective prefs: %w", err)
	}

	defNames = slices.Clone(defNames)
	names = slices.Clone(names)
	compare := comparator(opts.CaseSensitive)
	slices.SortFunc(defNames, compare)
	slices.SortFunc(names, compare)

	if err := verifyViews(st, names, defNames); err != nil {
		return nil, err
	}

	entries := make([]prefs.Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries = append(entries, collectOne(st, name, opts, stats))
	}

	slog.Debug("Collected prefs", "root", opts.Root, "count", len(entries))
	return entries, nil
}

// comparator returns the ordering used for both key lists. The
// case-insensitive ordering breaks ties by byte order so it stays total.
func comparator(caseSensitive bool) func(a, b string) int {
	if caseSensitive {
		return strings.Compare
	}
	fold := cases.Fold()
	return func(a, b string) int {
		return cmp.Or(strings.Compare(fold.String(a), fold.String(b)), strings.Compare(a, b))
	}
}

func verifyViews(st store.Store, names, defNames []string) error {
	if len(names) != len(defNames) {
		return fmt.Errorf("%w: %d effective, %d default", ErrKeyCountMismatch, len(names), len(defNames))
	}
	for i, name := range names {
		prefType := st.PrefType(store.ViewEffective, name)
		defPrefType := st.PrefType(store.ViewDefault, defNames[i])
		if name != defNames[i] || prefType != defPrefType {
			return fmt.Errorf("%w: %s (%s), %s (%s)", ErrKeyMismatch, name, prefType, defNames[i], defPrefType)
		}
	}
	return nil
}

func collectOne(st store.Store, name string, opts Options, stats *prefs.Stats) prefs.Entry {
	entry := prefs.Entry{
		Name:         name,
		Value:        prefs.ErrorValue(),
		DefaultValue: prefs.NoDefault(),
	}
	stats.Inc(prefs.StatNumPrefs)
	stats.Max(prefs.StatMaxPrefNameLen, prefs.Length(name))

	switch {
	case st.IsLocked(name):
		entry.Status = prefs.StatusLocked
		stats.Inc(prefs.StatNumLockedPrefs)
	case st.HasUserValue(name):
		entry.Status = prefs.StatusUserSet
		stats.Inc(prefs.StatNumUsersetPrefs)
	default:
		entry.Status = prefs.StatusDefault
		stats.Inc(prefs.StatNumDefaultPrefs)
	}

	entry.Type = st.PrefType(store.ViewEffective, name)
	switch entry.Type {
	case prefs.TypeBoolean:
		stats.Inc(prefs.StatNumBooleanPrefs)
	case prefs.TypeInteger:
		stats.Inc(prefs.StatNumIntegerPrefs)
	case prefs.TypeString:
		stats.Inc(prefs.StatNumStringPrefs)
	case prefs.TypeInvalid:
		return typeError(entry, stats)
	default:
		entry.Type = prefs.TypeUnknown
		return typeError(entry, stats)
	}

	if v, ok := st.Value(store.ViewEffective, name); ok {
		entry.Value = v
		stats.Inc(prefs.StatNumUserValues)
	} else {
		slog.Warn("Pref has no effective value", "pref", name)
	}

	if entry.Type == prefs.TypeString {
		entry.Value = localize(st, entry, stats)
		classifyUserValue(entry, opts, stats)
	}

	if v, ok := st.Value(store.ViewDefault, name); ok {
		entry.DefaultValue = v
		stats.Inc(prefs.StatNumDefValues)
		if s, isStr := v.Str(); isStr {
			stats.Max(prefs.StatMaxDefValueLen, prefs.Length(s))
		}
	}

	return entry
}

func typeError(entry prefs.Entry, stats *prefs.Stats) prefs.Entry {
	entry.Value = prefs.SentinelFor(entry.Type)
	entry.DefaultValue = prefs.SentinelFor(entry.Type)
	stats.Inc(prefs.StatNumTypeErrors)
	return entry
}

// localize resolves default string values that reference a localized
// properties file. The raw reference is kept when resolution fails.
func localize(st store.Store, entry prefs.Entry, stats *prefs.Stats) prefs.Value {
	raw, ok := entry.Value.Str()
	if !ok || entry.Status != prefs.StatusDefault || !localizedRef.MatchString(raw) {
		return entry.Value
	}
	text, ok := st.LocalizedValue(entry.Name)
	if !ok {
		slog.Debug("Could not resolve localized pref", "pref", entry.Name, "value", raw)
		return entry.Value
	}
	stats.Inc(prefs.StatNumLocalizedPrefs)
	return prefs.StringValue(text)
}

func classifyUserValue(entry prefs.Entry, opts Options, stats *prefs.Stats) {
	s, ok := entry.Value.Str()
	if !ok {
		return
	}
	stats.Max(prefs.StatMaxUserValueLen, prefs.Length(s))

	c := prefs.Classify(s)
	if !c.NonASCII {
		return
	}
	stats.Inc(prefs.StatNumNonASCIIPrefs)
	if c.NonExtASCII {
		stats.Inc(prefs.StatNumNonExtASCIIPrefs)
	}
	if c.HighCodePoint {
		stats.Inc(prefs.StatNumHighCodePointPrefs)
	}
	if opts.LogNonASCII {
		slog.Info("Non-ASCII pref", "pref", entry.Name, "value", s)
	}
}
