package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/prefsnap/internal/prefs"
	"github.com/stacklok/prefsnap/internal/versions"
)

const testSnapshot = `{
  // captured from a test profile
  "app": {"name": "Tor Browser", "version": "13.5"},
  "prefs": [
    {"name": "net.timeout", "type": "integer", "default": 30, "user": 60},
    {"name": "app.update.auto", "default": false, "locked": true},
    {"name": "intl.accept_languages", "default": "chrome://global/locale/intl.properties", "localized": "fr, en"},
    {"name": "user.only", "user": "x"},
    {"name": "broken.pref", "type": "<PREF_INVALID>"}, // trailing comma allowed
  ],
}`

func TestParseSnapshot(t *testing.T) {
	t.Parallel()

	s, err := ParseSnapshot([]byte(testSnapshot))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())

	assert.Equal(t, prefs.TypeInteger, s.PrefType(ViewEffective, "net.timeout"))
	assert.Equal(t, prefs.TypeBoolean, s.PrefType(ViewEffective, "app.update.auto"))
	assert.Equal(t, prefs.TypeString, s.PrefType(ViewEffective, "user.only"))
	assert.Equal(t, prefs.TypeInvalid, s.PrefType(ViewEffective, "broken.pref"))
	assert.True(t, s.IsLocked("app.update.auto"))

	v, ok := s.Value(ViewEffective, "net.timeout")
	require.True(t, ok)
	assert.Equal(t, prefs.IntValue(60), v)

	_, ok = s.Value(ViewDefault, "user.only")
	assert.False(t, ok)

	text, ok := s.LocalizedValue("intl.accept_languages")
	require.True(t, ok)
	assert.Equal(t, "fr, en", text)

	name, version := s.AppInfo()
	assert.Equal(t, "Tor Browser", name)
	assert.Equal(t, "13.5", version)
}

func TestParseSnapshot_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "not json", data: `{"prefs": [`, wantErr: "failed to parse snapshot"},
		{name: "no type and no value", data: `{"prefs": [{"name": "a"}]}`, wantErr: "type is required"},
		{name: "float value", data: `{"prefs": [{"name": "a", "default": 1.5}]}`, wantErr: "failed to decode snapshot"},
		{name: "type mismatch", data: `{"prefs": [{"name": "a", "type": "boolean", "default": 1}]}`, wantErr: "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseSnapshot([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot.hujson")
	require.NoError(t, os.WriteFile(path, []byte(testSnapshot), 0600))

	s, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())

	_, err = LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCheckMinVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		minVersion string
		current    string
		release    bool
		wantErr    error
	}{
		{name: "no requirement", current: "v0.1.0", release: true},
		{name: "older requirement", minVersion: "v0.1.0", current: "v0.2.0", release: true},
		{name: "same version", minVersion: "v0.2.0", current: "v0.2.0", release: true},
		{name: "newer requirement", minVersion: "v1.0.0", current: "v0.2.0", release: true, wantErr: ErrSnapshotTooNew},
		{name: "newer requirement in dev build", minVersion: "v1.0.0", current: "dev", release: false},
		{name: "non-semver requirement", minVersion: "latest", current: "v0.2.0", release: true, wantErr: ErrInvalidMinVersion},
		{name: "non-semver requirement in dev build", minVersion: "latest", current: "dev", release: false, wantErr: ErrInvalidMinVersion},
		{name: "non-semver release build", minVersion: "v0.1.0", current: "nightly", release: true, wantErr: versions.ErrInvalidVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkMinVersion(tt.minVersion, tt.current, tt.release)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	// development builds read any well-formed requirement
	_, err := ParseSnapshot([]byte(`{"minVersion": "v99.0.0", "prefs": []}`))
	assert.NoError(t, err)

	_, err = ParseSnapshot([]byte(`{"minVersion": "latest", "prefs": []}`))
	assert.ErrorIs(t, err, ErrInvalidMinVersion)
}
