package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// StatementWarning is the comment prepended to statement output when
// StatementOptions.Warning is set.
var StatementWarning = []string{
	"// This file was generated by prefsnap for review and diffing.",
	"// It is not a valid prefs file: values marked <ERROR>, <NODEFAULTVALUE>,",
	"// <PREF_INVALID> or <PREF_UNKNOWN> are placeholders. Do not copy it into a",
	"// profile verbatim.",
}

func renderStatements(entries []prefs.Entry, opts StatementOptions) (string, error) {
	fn := opts.Function
	if fn == "" {
		fn = DefaultFunction
	}
	eol := opts.EndOfLine
	if eol == "" {
		eol = "\n"
	}

	var b strings.Builder
	if opts.Warning {
		for _, line := range StatementWarning {
			b.WriteString(line)
			b.WriteString(eol)
		}
		b.WriteString(eol)
	}

	for _, e := range entries {
		var v prefs.Value
		switch opts.Source {
		case ValueEffective, "":
			v = e.Value
		case ValueDefault:
			v = e.DefaultValue
		default:
			return "", fmt.Errorf("%w: unknown statement value source '%s'", ErrInvalidFormat, opts.Source)
		}

		fmt.Fprintf(&b, "%s(%s, %s);%s", fn, quoteJS(e.Name), statementLiteral(e.Name, v, opts.NumericEscapeKey), eol)
	}
	return b.String(), nil
}

func statementLiteral(name string, v prefs.Value, numericKey string) string {
	if bv, ok := v.Bool(); ok {
		return strconv.FormatBool(bv)
	}
	if iv, ok := v.Int(); ok {
		return strconv.FormatInt(iv, 10)
	}
	if sv, ok := v.Str(); ok && numericKey != "" && name == numericKey {
		return `"` + numericEscape(sv) + `"`
	}
	// Strings and sentinels.
	return quoteJS(v.String())
}

// quoteJS returns s as a double-quoted literal with control characters,
// quotes, backslashes and the Unicode line separators escaped.
func quoteJS(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case isControl(r):
			if m, ok := mnemonics[r]; ok {
				b.WriteString(m)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
