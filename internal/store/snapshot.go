package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/stacklok/prefsnap/internal/prefs"
	"github.com/stacklok/prefsnap/internal/versions"
)

var (
	// ErrSnapshotTooNew is returned for a snapshot that requires a newer prefsnap
	ErrSnapshotTooNew = errors.New("snapshot requires a newer prefsnap")

	// ErrInvalidMinVersion is returned when minVersion is not a semantic version
	ErrInvalidMinVersion = errors.New("invalid snapshot minVersion")
)

// snapshotFile is the on-disk layout of a snapshot. Comments and trailing
// commas are allowed.
//
//	{
//	  "minVersion": "v0.2.0",
//	  "app": {"name": "Firefox", "version": "128.0"},
//	  "prefs": [
//	    {"name": "net.timeout", "type": "integer", "default": 30, "user": 60},
//	    {"name": "app.locale", "default": "chrome://global/locale/intl.properties", "localized": "en-US"},
//	  ],
//	}
type snapshotFile struct {
	// MinVersion is the oldest prefsnap release able to read the file
	MinVersion string `json:"minVersion,omitempty"`
	App *struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"app,omitempty"`
	Prefs []snapshotPref `json:"prefs"`
}

type snapshotPref struct {
	Name      string       `json:"name"`
	Type      prefs.Type   `json:"type,omitempty"`
	Default   *prefs.Value `json:"default,omitempty"`
	User      *prefs.Value `json:"user,omitempty"`
	Locked    bool         `json:"locked,omitempty"`
	Localized *string      `json:"localized,omitempty"`
}

// LoadSnapshot reads a snapshot file and builds a MemoryStore from it.
func LoadSnapshot(path string) (*MemoryStore, error) {
	// #nosec G304 -- path is supplied by the operator running the export
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes snapshot data.
func ParseSnapshot(data []byte) (*MemoryStore, error) {
	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(standard, &file); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if err := checkMinVersion(file.MinVersion, versions.Version, versions.IsRelease()); err != nil {
		return nil, err
	}

	records := make([]Pref, 0, len(file.Prefs))
	for i, sp := range file.Prefs {
		t := sp.Type
		if t == "" {
			t = inferType(sp.Default, sp.User)
			if t == "" {
				return nil, fmt.Errorf("pref[%d] (%s): type is required when no value is given", i, sp.Name)
			}
		}
		records = append(records, Pref{
			Name:      sp.Name,
			Type:      t,
			Default:   sp.Default,
			User:      sp.User,
			Locked:    sp.Locked,
			Localized: sp.Localized,
		})
	}

	var opts []MemoryOption
	if file.App != nil {
		opts = append(opts, WithAppInfo(file.App.Name, file.App.Version))
	}
	return NewMemoryStore(records, opts...)
}

func inferType(values ...*prefs.Value) prefs.Type {
	for _, v := range values {
		if v == nil {
			continue
		}
		switch v.Kind() {
		case prefs.KindBool:
			return prefs.TypeBoolean
		case prefs.KindInt:
			return prefs.TypeInteger
		case prefs.KindString:
			return prefs.TypeString
		}
	}
	return ""
}

// checkMinVersion fails when minVersion is not semver, or when it is newer
// than current. Only release builds compare against current.
func checkMinVersion(minVersion, current string, release bool) error {
	if minVersion == "" {
		return nil
	}
	if _, err := versions.Parse(minVersion); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMinVersion, err)
	}
	if !release {
		return nil
	}
	ok, err := versions.Satisfies(current, minVersion)
	if err != nil {
		return fmt.Errorf("failed to check snapshot minVersion: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: file needs %s, this is %s", ErrSnapshotTooNew, minVersion, current)
	}
	return nil
}
