package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stacklok/prefsnap/internal/prefs"
)

func TestPrefilter_Allow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		statuses map[prefs.Status]bool
		types    map[prefs.Type]bool
		entry    prefs.Entry
		expected bool
	}{
		{
			name:     "allow all",
			entry:    intEntry("a", 1),
			expected: true,
		},
		{
			name:     "status disabled",
			statuses: map[prefs.Status]bool{prefs.StatusDefault: false},
			entry:    intEntry("a", 1),
			expected: false,
		},
		{
			name:     "other status disabled",
			statuses: map[prefs.Status]bool{prefs.StatusLocked: false},
			entry:    intEntry("a", 1),
			expected: true,
		},
		{
			name:     "type disabled",
			types:    map[prefs.Type]bool{prefs.TypeString: false},
			entry:    strEntry("a", "b"),
			expected: false,
		},
		{
			name:  "invalid type disabled",
			types: map[prefs.Type]bool{prefs.TypeInvalid: false},
			entry: prefs.Entry{Name: "x", Status: prefs.StatusDefault, Type: prefs.TypeInvalid,
				Value: prefs.InvalidValue(), DefaultValue: prefs.InvalidValue()},
			expected: false,
		},
		{
			name:  "unknown type enabled explicitly",
			types: map[prefs.Type]bool{prefs.TypeUnknown: true, prefs.TypeInvalid: false},
			entry: prefs.Entry{Name: "x", Status: prefs.StatusDefault, Type: prefs.TypeUnknown,
				Value: prefs.UnknownValue(), DefaultValue: prefs.UnknownValue()},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stats := prefs.NewStats()
			p := NewPrefilter(tt.statuses, tt.types)
			assert.Equal(t, tt.expected, p.Allow(tt.entry, stats))

			included, _ := stats.Value(prefs.StatIncludedByPrefilter)
			excluded, _ := stats.Value(prefs.StatExcludedByPrefilter)
			assert.Equal(t, 1, included+excluded, "exactly one counter per decision")
			if tt.expected {
				assert.Equal(t, 1, included)
			} else {
				assert.Equal(t, 1, excluded)
			}
		})
	}
}

func TestAllowAll(t *testing.T) {
	t.Parallel()

	stats := prefs.NewStats()
	p := AllowAll()
	for _, s := range prefs.Statuses {
		for _, ty := range prefs.Types {
			assert.True(t, p.Allow(prefs.Entry{Name: "a", Status: s, Type: ty}, stats))
		}
	}
	v, _ := stats.Value(prefs.StatIncludedByPrefilter)
	assert.Equal(t, len(prefs.Statuses)*len(prefs.Types), v)
}
