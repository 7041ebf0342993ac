package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// Pref is one record of a MemoryStore.
type Pref struct {
	Name string
	Type prefs.Type

	// Default is nil when the preference has no default value
	Default *prefs.Value

	// User is nil when the preference has no user value
	User *prefs.Value

	Locked bool

	// Localized is the resolved text of a localized string preference, if known
	Localized *string
}

// MemoryStore is a Store backed by a fixed set of records.
type MemoryStore struct {
	prefs      map[string]Pref
	appName    string
	appVersion string
}

var (
	_ Store           = (*MemoryStore)(nil)
	_ AppInfoProvider = (*MemoryStore)(nil)
)

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithAppInfo records the application the preferences were captured from
func WithAppInfo(name, version string) MemoryOption {
	return func(s *MemoryStore) {
		s.appName = name
		s.appVersion = version
	}
}

// NewMemoryStore validates the records and builds a store from them.
func NewMemoryStore(records []Pref, opts ...MemoryOption) (*MemoryStore, error) {
	s := &MemoryStore{prefs: make(map[string]Pref, len(records))}
	for _, opt := range opts {
		opt(s)
	}

	for i, p := range records {
		if p.Name == "" {
			return nil, fmt.Errorf("pref[%d]: name is required", i)
		}
		if _, dup := s.prefs[p.Name]; dup {
			return nil, fmt.Errorf("pref[%d]: duplicate name '%s'", i, p.Name)
		}
		if !p.Type.IsValid() {
			return nil, fmt.Errorf("pref[%d] (%s): unknown type '%s'", i, p.Name, p.Type)
		}
		if err := checkKind(p.Type, p.Default); err != nil {
			return nil, fmt.Errorf("pref[%d] (%s): default value: %w", i, p.Name, err)
		}
		if err := checkKind(p.Type, p.User); err != nil {
			return nil, fmt.Errorf("pref[%d] (%s): user value: %w", i, p.Name, err)
		}
		s.prefs[p.Name] = p
	}

	return s, nil
}

func checkKind(t prefs.Type, v *prefs.Value) error {
	if v == nil || t.IsError() {
		return nil
	}
	want := map[prefs.Type]prefs.Kind{
		prefs.TypeBoolean: prefs.KindBool,
		prefs.TypeInteger: prefs.KindInt,
		prefs.TypeString:  prefs.KindString,
	}[t]
	if v.Kind() != want {
		return fmt.Errorf("value %s does not match type %s", v, t)
	}
	return nil
}

// ChildList returns every name starting with root. Both views list the same keys.
func (s *MemoryStore) ChildList(ctx context.Context, _ View, root string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.prefs))
	for name := range s.prefs {
		if strings.HasPrefix(name, root) {
			names = append(names, name)
		}
	}
	return names, nil
}

// PrefType returns the declared type, or <PREF_INVALID> for unknown keys.
func (s *MemoryStore) PrefType(_ View, name string) prefs.Type {
	p, ok := s.prefs[name]
	if !ok {
		return prefs.TypeInvalid
	}
	return p.Type
}

// IsLocked reports whether name is locked.
func (s *MemoryStore) IsLocked(name string) bool {
	return s.prefs[name].Locked
}

// HasUserValue reports whether name carries a user value.
func (s *MemoryStore) HasUserValue(name string) bool {
	return s.prefs[name].User != nil
}

// Value returns the default value for ViewDefault. For ViewEffective it
// returns the user value when set and the preference is not locked, else the
// default.
func (s *MemoryStore) Value(view View, name string) (prefs.Value, bool) {
	p, ok := s.prefs[name]
	if !ok || p.Type.IsError() {
		return prefs.Value{}, false
	}
	if view == ViewEffective && !p.Locked && p.User != nil {
		return *p.User, true
	}
	if p.Default != nil {
		return *p.Default, true
	}
	return prefs.Value{}, false
}

// LocalizedValue returns the resolved text recorded for name.
func (s *MemoryStore) LocalizedValue(name string) (string, bool) {
	p, ok := s.prefs[name]
	if !ok || p.Localized == nil {
		return "", false
	}
	return *p.Localized, true
}

// AppInfo returns the recorded application identity.
func (s *MemoryStore) AppInfo() (string, string) {
	return s.appName, s.appVersion
}

// Len returns the number of records.
func (s *MemoryStore) Len() int {
	return len(s.prefs)
}
