// Package store defines the read-only view of a preference store that the
// collector consumes, along with file-backed implementations.
package store

import (
	"context"

	"github.com/stacklok/prefsnap/internal/prefs"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go Store

// View selects which branch of the store a query reads.
type View int

const (
	// ViewDefault reads only default values
	ViewDefault View = iota
	// ViewEffective reads the value currently in effect
	ViewEffective
)

// String returns the view name used in log messages.
func (v View) String() string {
	if v == ViewDefault {
		return "default"
	}
	return "effective"
}

// Store is the read-only preference source of an export run.
type Store interface {
	// ChildList returns the names of all preferences under root in the given view.
	// The order is unspecified.
	ChildList(ctx context.Context, view View, root string) ([]string, error)

	// PrefType returns the declared type of a preference in the given view
	PrefType(view View, name string) prefs.Type

	// IsLocked reports whether the preference is locked
	IsLocked(name string) bool

	// HasUserValue reports whether the preference carries a user value
	HasUserValue(name string) bool

	// Value returns the value of a preference in the given view.
	// ok is false when the view holds no value for the key.
	Value(view View, name string) (value prefs.Value, ok bool)

	// LocalizedValue resolves a localized string preference.
	// ok is false when it cannot be resolved.
	LocalizedValue(name string) (value string, ok bool)
}

// AppInfoProvider is implemented by stores that know which application they
// were captured from.
type AppInfoProvider interface {
	AppInfo() (name, version string)
}
