package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/prefsnap/internal/prefs"
)

func TestCompilePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expr     string
		syntax   Syntax
		input    string
		expected bool
		wantErr  bool
	}{
		{name: "regex unanchored", expr: `timeout`, syntax: SyntaxRegex, input: "net.timeout.max", expected: true},
		{name: "regex default syntax", expr: `^net\.`, input: "net.timeout", expected: true},
		{name: "regex no match", expr: `^net\.`, syntax: SyntaxRegex, input: "network", expected: false},
		{name: "glob across dots", expr: "browser.*", syntax: SyntaxGlob, input: "browser.tabs.warn", expected: true},
		{name: "glob single char", expr: "db?", syntax: SyntaxGlob, input: "db1", expected: true},
		{name: "glob is anchored", expr: "tabs", syntax: SyntaxGlob, input: "browser.tabs", expected: false},
		{name: "invalid regex", expr: `(`, syntax: SyntaxRegex, wantErr: true},
		{name: "invalid glob", expr: "[", syntax: SyntaxGlob, wantErr: true},
		{name: "empty pattern", expr: "", syntax: SyntaxRegex, wantErr: true},
		{name: "unknown syntax", expr: "a", syntax: "sql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := CompilePattern(tt.expr, tt.syntax)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSpec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.Match(tt.input))
			assert.Equal(t, tt.expr, m.String())
		})
	}
}

func TestQueryPredicate(t *testing.T) {
	t.Parallel()

	locked := prefs.Entry{Name: "app.update.enabled", Status: prefs.StatusLocked, Type: prefs.TypeBoolean,
		Value: prefs.BoolValue(false), DefaultValue: prefs.BoolValue(false)}
	big := intEntry("browser.cache.size", 1024)
	markup := strEntry("browser.title", "<b>&</b>")

	tests := []struct {
		name     string
		query    string
		entry    prefs.Entry
		expected bool
	}{
		{name: "status equals", query: `status=="locked"`, entry: locked, expected: true},
		{name: "status differs", query: `status=="locked"`, entry: big, expected: false},
		{name: "name like", query: `name%"browser.*"`, entry: big, expected: true},
		{name: "numeric compare", query: `value>100`, entry: big, expected: true},
		{name: "default value", query: `defaultValue=="<NODEFAULTVALUE>"`, entry: markup, expected: true},
		{name: "unescaped markup", query: `value=="<b>&</b>"`, entry: markup, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fn, err := QueryPredicate(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fn(tt.entry))
		})
	}

	_, err := QueryPredicate("  ")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestQueryPredicate_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{name: "unterminated string", query: `status=="locked`, wantErr: "unterminated string"},
		{name: "unclosed paren", query: `name%"a*"||(value>1`, wantErr: "unclosed"},
		{name: "stray close", query: `value>1)`, wantErr: "unexpected"},
		{name: "mismatched brackets", query: `tags.#(x==1]`, wantErr: "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := QueryPredicate(tt.query)
			require.ErrorIs(t, err, ErrInvalidSpec)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	// quotes and brackets inside strings are literal
	_, err := QueryPredicate(`value=="a\"(b]"`)
	assert.NoError(t, err)
}
