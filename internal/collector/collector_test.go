package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/prefsnap/internal/prefs"
	"github.com/stacklok/prefsnap/internal/store"
	"github.com/stacklok/prefsnap/internal/store/mocks"
)

func ptr(v prefs.Value) *prefs.Value {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func newStore(t *testing.T, records ...store.Pref) *store.MemoryStore {
	t.Helper()
	s, err := store.NewMemoryStore(records)
	require.NoError(t, err)
	return s
}

func statValue(t *testing.T, stats *prefs.Stats, name string) int {
	t.Helper()
	v, ok := stats.Value(name)
	require.True(t, ok, "counter %s disabled", name)
	return v
}

func TestCollect_Classification(t *testing.T) {
	t.Parallel()

	st := newStore(t,
		store.Pref{Name: "net.timeout", Type: prefs.TypeInteger, Default: ptr(prefs.IntValue(30))},
		store.Pref{Name: "browser.name", Type: prefs.TypeString,
			Default: ptr(prefs.StringValue("Firefox")), User: ptr(prefs.StringValue("Fïrefox"))},
		store.Pref{Name: "app.update", Type: prefs.TypeBoolean,
			Default: ptr(prefs.BoolValue(true)), User: ptr(prefs.BoolValue(false)), Locked: true},
		store.Pref{Name: "user.only", Type: prefs.TypeString, User: ptr(prefs.StringValue("日本 😀"))},
		store.Pref{Name: "broken", Type: prefs.TypeInvalid},
	)
	stats := prefs.NewStats()

	entries, err := Collect(context.Background(), st, Options{CaseSensitive: true}, stats)
	require.NoError(t, err)

	expected := []prefs.Entry{
		{Name: "app.update", Status: prefs.StatusLocked, Type: prefs.TypeBoolean,
			Value: prefs.BoolValue(true), DefaultValue: prefs.BoolValue(true)},
		{Name: "broken", Status: prefs.StatusDefault, Type: prefs.TypeInvalid,
			Value: prefs.InvalidValue(), DefaultValue: prefs.InvalidValue()},
		{Name: "browser.name", Status: prefs.StatusUserSet, Type: prefs.TypeString,
			Value: prefs.StringValue("Fïrefox"), DefaultValue: prefs.StringValue("Firefox")},
		{Name: "net.timeout", Status: prefs.StatusDefault, Type: prefs.TypeInteger,
			Value: prefs.IntValue(30), DefaultValue: prefs.IntValue(30)},
		{Name: "user.only", Status: prefs.StatusUserSet, Type: prefs.TypeString,
			Value: prefs.StringValue("日本 😀"), DefaultValue: prefs.NoDefault()},
	}
	assert.Equal(t, expected, entries)

	counts := map[string]int{
		prefs.StatNumPrefs:              5,
		prefs.StatNumLockedPrefs:        1,
		prefs.StatNumUsersetPrefs:       2,
		prefs.StatNumDefaultPrefs:       2,
		prefs.StatNumBooleanPrefs:       1,
		prefs.StatNumIntegerPrefs:       1,
		prefs.StatNumStringPrefs:        2,
		prefs.StatNumTypeErrors:         1,
		prefs.StatNumUserValues:         4,
		prefs.StatNumDefValues:          3,
		prefs.StatNumNonASCIIPrefs:      2,
		prefs.StatNumNonExtASCIIPrefs:   1,
		prefs.StatNumHighCodePointPrefs: 1,
		prefs.StatMaxPrefNameLen:        12,
		prefs.StatMaxUserValueLen:       7,
		prefs.StatMaxDefValueLen:        7,
	}
	for name, want := range counts {
		assert.Equal(t, want, statValue(t, stats, name), name)
	}
}

func TestCollect_LockedWinsOverUserSet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().ChildList(gomock.Any(), gomock.Any(), "").Return([]string{"a"}, nil).Times(2)
	st.EXPECT().PrefType(gomock.Any(), "a").Return(prefs.TypeBoolean).AnyTimes()
	st.EXPECT().IsLocked("a").Return(true)
	st.EXPECT().HasUserValue("a").Return(true).AnyTimes()
	st.EXPECT().Value(store.ViewEffective, "a").Return(prefs.BoolValue(true), true)
	st.EXPECT().Value(store.ViewDefault, "a").Return(prefs.BoolValue(false), true)

	stats := prefs.NewStats()
	entries, err := Collect(context.Background(), st, Options{CaseSensitive: true}, stats)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, prefs.StatusLocked, entries[0].Status)
	assert.Equal(t, 1, statValue(t, stats, prefs.StatNumLockedPrefs))
	assert.Equal(t, 0, statValue(t, stats, prefs.StatNumUsersetPrefs))
}

func TestCollect_ViewMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		defNames  []string
		effNames  []string
		defType   prefs.Type
		effType   prefs.Type
		wantError error
	}{
		{
			name:      "different key count",
			defNames:  []string{"a.b"},
			effNames:  []string{"a.b", "a.c"},
			defType:   prefs.TypeString,
			effType:   prefs.TypeString,
			wantError: ErrKeyCountMismatch,
		},
		{
			name:      "different key name",
			defNames:  []string{"a.b", "a.d"},
			effNames:  []string{"a.b", "a.c"},
			defType:   prefs.TypeString,
			effType:   prefs.TypeString,
			wantError: ErrKeyMismatch,
		},
		{
			name:      "different key type",
			defNames:  []string{"a.b"},
			effNames:  []string{"a.b"},
			defType:   prefs.TypeString,
			effType:   prefs.TypeInteger,
			wantError: ErrKeyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			st := mocks.NewMockStore(ctrl)
			st.EXPECT().ChildList(gomock.Any(), store.ViewDefault, "a.").Return(tt.defNames, nil)
			st.EXPECT().ChildList(gomock.Any(), store.ViewEffective, "a.").Return(tt.effNames, nil)
			st.EXPECT().PrefType(store.ViewDefault, gomock.Any()).Return(tt.defType).AnyTimes()
			st.EXPECT().PrefType(store.ViewEffective, gomock.Any()).Return(tt.effType).AnyTimes()

			stats := prefs.NewStats()
			entries, err := Collect(context.Background(), st, Options{Root: "a.", CaseSensitive: true}, stats)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantError)
			assert.Nil(t, entries)
			assert.Equal(t, 0, statValue(t, stats, prefs.StatNumPrefs))
		})
	}
}

func TestCollect_ChildListError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	boom := errors.New("boom")
	st.EXPECT().ChildList(gomock.Any(), store.ViewDefault, "").Return(nil, boom)

	_, err := Collect(context.Background(), st, Options{}, prefs.NewStats())
	assert.ErrorIs(t, err, boom)
}

func TestCollect_Localized(t *testing.T) {
	t.Parallel()

	ref := "chrome://global/locale/intl.properties"
	st := newStore(t,
		store.Pref{Name: "intl.accept_languages", Type: prefs.TypeString,
			Default: ptr(prefs.StringValue(ref)), Localized: strPtr("fr, en-US")},
		store.Pref{Name: "intl.unresolved", Type: prefs.TypeString, Default: ptr(prefs.StringValue(ref))},
		store.Pref{Name: "intl.userset", Type: prefs.TypeString,
			Default: ptr(prefs.StringValue(ref)), User: ptr(prefs.StringValue(ref)), Localized: strPtr("de")},
	)
	stats := prefs.NewStats()

	entries, err := Collect(context.Background(), st, Options{Root: "intl.", CaseSensitive: true}, stats)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, prefs.StringValue("fr, en-US"), entries[0].Value)
	assert.Equal(t, prefs.StringValue(ref), entries[0].DefaultValue)
	assert.Equal(t, prefs.StringValue(ref), entries[1].Value, "unresolved reference is kept")
	assert.Equal(t, prefs.StringValue(ref), entries[2].Value, "only default prefs are localized")
	assert.Equal(t, 1, statValue(t, stats, prefs.StatNumLocalizedPrefs))
}

func TestCollect_SortModes(t *testing.T) {
	t.Parallel()

	records := []store.Pref{
		{Name: "b", Type: prefs.TypeBoolean, Default: ptr(prefs.BoolValue(true))},
		{Name: "A", Type: prefs.TypeBoolean, Default: ptr(prefs.BoolValue(true))},
		{Name: "a", Type: prefs.TypeBoolean, Default: ptr(prefs.BoolValue(true))},
		{Name: "C", Type: prefs.TypeBoolean, Default: ptr(prefs.BoolValue(true))},
	}
	st := newStore(t, records...)

	tests := []struct {
		name          string
		caseSensitive bool
		expected      []string
	}{
		{name: "case sensitive", caseSensitive: true, expected: []string{"A", "C", "a", "b"}},
		{name: "case insensitive", caseSensitive: false, expected: []string{"A", "a", "b", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := Collect(context.Background(), st, Options{CaseSensitive: tt.caseSensitive}, prefs.NewStats())
			require.NoError(t, err)
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}
