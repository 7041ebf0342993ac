package export

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// Header placeholder tokens, in column order.
const (
	HeaderName         = "<PREFNAME>"
	HeaderStatus       = "<STATUS>"
	HeaderType         = "<TYPE>"
	HeaderValue        = "<VALUE>"
	HeaderDefaultValue = "<DEFAULTVALUE>"
)

var mnemonics = map[rune]string{
	'\t': `\t`,
	'\n': `\n`,
	'\r': `\r`,
	'\v': `\v`,
	'\f': `\f`,
	'\b': `\b`,
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F || r == '\u2028' || r == '\u2029'
}

// EscapeControlChars replaces C0 controls, DEL and the Unicode line and
// paragraph separators with backslash escapes. Common whitespace controls use
// mnemonics; everything else uses \uXXXX.
func EscapeControlChars(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if !isControl(r) {
			b.WriteRune(r)
			continue
		}
		if m, ok := mnemonics[r]; ok {
			b.WriteString(m)
			continue
		}
		fmt.Fprintf(&b, `\u%04x`, r)
	}
	return b.String()
}

// QuoteCSVField quotes a csv field: backslashes are doubled, commas are
// backslash-escaped and quotes are doubled.
func QuoteCSVField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `,`, `\,`)
	s = strings.ReplaceAll(s, `"`, `""`)
	return `"` + s + `"`
}

// UnescapeCSVField reverses the backslash layer of QuoteCSVField on a field
// already unquoted by a standard csv reader.
func UnescapeCSVField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func renderDelimited(entries []prefs.Entry, opts DelimitedOptions, csv bool) string {
	sep := opts.Separator
	if csv {
		sep = ","
	}

	var b strings.Builder
	writeRow := func(fields []string) {
		if csv {
			for i, f := range fields {
				fields[i] = QuoteCSVField(f)
			}
		}
		b.WriteString(strings.Join(fields, sep))
		b.WriteString(opts.EndOfLine)
	}

	if opts.Header {
		writeRow(selectFields(opts.Fields, HeaderName, HeaderStatus, HeaderType, HeaderValue, HeaderDefaultValue))
	}

	for _, e := range entries {
		value := e.Value.String()
		defValue := e.DefaultValue.String()
		name := e.Name
		if opts.EscapeControlChars {
			name = EscapeControlChars(name)
			if _, ok := e.Value.Str(); ok {
				value = EscapeControlChars(value)
			}
			if _, ok := e.DefaultValue.Str(); ok {
				defValue = EscapeControlChars(defValue)
			}
		}
		writeRow(selectFields(opts.Fields, name, string(e.Status), string(e.Type), value, defValue))
	}

	return b.String()
}

func selectFields(sel Fields, name, status, typ, value, defValue string) []string {
	fields := make([]string, 0, 5)
	if sel.Name {
		fields = append(fields, name)
	}
	if sel.Status {
		fields = append(fields, status)
	}
	if sel.Type {
		fields = append(fields, typ)
	}
	if sel.Value {
		fields = append(fields, value)
	}
	if sel.DefaultValue {
		fields = append(fields, defValue)
	}
	return fields
}

// statsTableWidth is the column the stats values are right-aligned to.
const statsTableWidth = 27

// StatsBlock renders the stats as "name:<pad>value" lines surrounded by blank
// lines, the form appended to txt output.
func StatsBlock(stats *prefs.Snapshot) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, s := range stats.Entries() {
		b.WriteString(TabledNameValue(s.Name, s.Value, statsTableWidth))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// TabledNameValue pads name and value so value ends at width, with at least
// two spaces between them.
func TabledNameValue(name, value string, width int) string {
	pads := max(2, width-len(value)-len(name)-1)
	return name + ":" + strings.Repeat(" ", pads) + value
}

// numericEscape encodes every UTF-16 code unit of s as \uXXXX.
func numericEscape(s string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&b, `\u%04x`, u)
	}
	return b.String()
}
