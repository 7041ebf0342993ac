// Package export renders retained preference entries into the supported
// textual formats.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stacklok/prefsnap/internal/prefs"
)

var (
	// ErrInvalidFormat is returned for an unrecognized output format
	ErrInvalidFormat = errors.New("invalid export format")

	// ErrRoundTrip is returned when the structured output does not decode
	// back to the entries it was produced from
	ErrRoundTrip = errors.New("structured output failed round-trip check")
)

// Format is an output format
type Format string

const (
	// FormatJSON is an array of entry objects
	FormatJSON Format = "json"
	// FormatText is delimited plain text
	FormatText Format = "txt"
	// FormatCSV is comma-separated values
	FormatCSV Format = "csv"
	// FormatStatement is one function-call line per entry
	FormatStatement Format = "statement"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatText, FormatCSV, FormatStatement}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'", ErrInvalidFormat, s)
}

// Extension returns the file name extension for f.
func (f Format) Extension() string {
	if f == FormatStatement {
		return "js"
	}
	return string(f)
}

// Fields selects the columns of the delimited formats
type Fields struct {
	Name         bool
	Status       bool
	Type         bool
	Value        bool
	DefaultValue bool
}

// AllFields selects every column.
func AllFields() Fields {
	return Fields{Name: true, Status: true, Type: true, Value: true, DefaultValue: true}
}

// DelimitedOptions configure the txt and csv formats
type DelimitedOptions struct {
	Fields Fields

	// Header emits a first row of field placeholder tokens
	Header bool

	// Separator joins fields in txt output; csv always uses a comma
	Separator string

	EndOfLine string

	// EscapeControlChars escapes control characters inside string fields
	EscapeControlChars bool

	// AppendStats appends the stats block to txt output
	AppendStats bool
}

// ValueSource selects which value the statement format emits
type ValueSource string

const (
	// ValueEffective emits the value currently in effect
	ValueEffective ValueSource = "effective"
	// ValueDefault emits the default value
	ValueDefault ValueSource = "default"
)

// StatementOptions configure the statement format
type StatementOptions struct {
	// Function is the name of the function each line calls
	Function string

	Source ValueSource

	// Warning prepends a comment saying the output is not meant to be executed
	Warning bool

	// NumericEscapeKey names the pref whose string value is always fully
	// numeric-escaped
	NumericEscapeKey string

	EndOfLine string
}

// Options select the format and its settings
type Options struct {
	Format    Format
	Delimited DelimitedOptions
	Statement StatementOptions
}

// Default values
const (
	DefaultSeparator        = " • "
	DefaultEndOfLine        = "\r\n"
	DefaultFunction         = "user_pref"
	DefaultNumericEscapeKey = "intl.accept_languages"
)

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Format: FormatText,
		Delimited: DelimitedOptions{
			Fields:             AllFields(),
			Header:             true,
			Separator:          DefaultSeparator,
			EndOfLine:          DefaultEndOfLine,
			EscapeControlChars: true,
		},
		Statement: StatementOptions{
			Function:         DefaultFunction,
			Source:           ValueEffective,
			Warning:          true,
			NumericEscapeKey: DefaultNumericEscapeKey,
			EndOfLine:        "\n",
		},
	}
}

// Render produces the output for entries in the configured format. stats is
// only read, and only by the txt format with AppendStats.
func Render(entries []prefs.Entry, stats *prefs.Snapshot, opts Options) (string, error) {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(entries)
	case FormatText:
		out := renderDelimited(entries, opts.Delimited, false)
		if opts.Delimited.AppendStats {
			out += StatsBlock(stats)
		}
		return out, nil
	case FormatCSV:
		return renderDelimited(entries, opts.Delimited, true), nil
	case FormatStatement:
		return renderStatements(entries, opts.Statement)
	default:
		return "", fmt.Errorf("%w: '%s'", ErrInvalidFormat, opts.Format)
	}
}
