// Package config provides configuration loading and management for prefsnap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/prefsnap/internal/export"
)

const (
	// SyntaxRegex selects Go regular expressions for filter patterns
	SyntaxRegex = "regex"

	// SyntaxGlob selects glob patterns for filter patterns
	SyntaxGlob = "glob"
)

const (
	// EnvPrefix is the prefix of environment variables read by prefsnap
	EnvPrefix = "PREFSNAP"

	// DefaultBasename is the base portion of the output file name
	DefaultBasename = "ExportedPrefs"
)

// Prefilter toggle keys
var (
	StatusKeys = []string{"locked", "userset", "default"}
	TypeKeys   = []string{"boolean", "integer", "string", "invalid", "unknown"}
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Format is the output format (json, txt, csv or statement)
	Format string `yaml:"format"`

	// Basename is the base portion of the output file name
	Basename string `yaml:"basename"`

	// AppSpecificFilename prepends the application name and version to the
	// file name
	AppSpecificFilename bool `yaml:"appSpecificFilename"`

	// PerformFileSave can be turned off to only compute stats
	PerformFileSave bool `yaml:"performFileSave"`

	// App is the application identity used when the store supplies none
	App AppConfig `yaml:"app"`

	Extract   ExtractConfig   `yaml:"extract"`
	Prefilter PrefilterConfig `yaml:"prefilter"`
	Filter    FilterConfig    `yaml:"filter"`
	Text      TextConfig      `yaml:"txt"`
	Delimited DelimitedConfig `yaml:"delimited"`
	Statement StatementConfig `yaml:"statement"`
}

// AppConfig names the application the preferences belong to
type AppConfig struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// ExtractConfig controls how preferences are collected
type ExtractConfig struct {
	// Root restricts the export to a sub-branch, e.g. "browser."
	Root string `yaml:"root"`

	// CaseSensitiveSort determines the output order
	CaseSensitiveSort bool `yaml:"caseSensitiveSort"`

	// LogNonASCIIChars logs every pref whose value has non-ASCII characters
	LogNonASCIIChars bool `yaml:"logNonAsciiChars"`
}

// PrefilterConfig toggles statuses and types on or off. Missing keys are on.
type PrefilterConfig struct {
	Status map[string]bool `yaml:"status,omitempty"`
	Type   map[string]bool `yaml:"type,omitempty"`
}

// FilterConfig defines the include and exclude filters
type FilterConfig struct {
	// Include must match for a pref to be kept
	Include *FilterSpecConfig `yaml:"include,omitempty"`

	// Exclude drops a pref when it matches, overriding include
	Exclude *FilterSpecConfig `yaml:"exclude,omitempty"`

	// MatchName applies patterns to the pref name
	MatchName bool `yaml:"matchName"`

	// MatchValue applies patterns to the pref value
	MatchValue bool `yaml:"matchValue"`

	Debug bool `yaml:"debug"`

	// AffectsFilename appends -Filtered to the basename when filtering
	AffectsFilename bool `yaml:"affectsFilename"`
}

// FilterSpecConfig is exactly one of a pattern, a name list or a query
type FilterSpecConfig struct {
	Pattern string   `yaml:"pattern,omitempty"`
	Syntax  string   `yaml:"syntax,omitempty"`
	Names   []string `yaml:"names,omitempty"`
	Query   string   `yaml:"query,omitempty"`
}

// TextConfig holds txt-only settings
type TextConfig struct {
	Separator   string `yaml:"separator"`
	AppendStats bool   `yaml:"appendStats"`
}

// DelimitedConfig holds settings shared by txt and csv
type DelimitedConfig struct {
	Fields             FieldsConfig `yaml:"fields"`
	Header             bool         `yaml:"header"`
	EscapeControlChars bool         `yaml:"escapeControlChars"`
	EndOfLine          string       `yaml:"endOfLine"`
}

// FieldsConfig selects the delimited columns
type FieldsConfig struct {
	Name         bool `yaml:"name"`
	Status       bool `yaml:"status"`
	Type         bool `yaml:"type"`
	Value        bool `yaml:"value"`
	DefaultValue bool `yaml:"defaultValue"`
}

// StatementConfig holds statement format settings
type StatementConfig struct {
	Function         string `yaml:"function"`
	ValueSource      string `yaml:"valueSource"`
	Warning          bool   `yaml:"warning"`
	NumericEscapeKey string `yaml:"numericEscapeKey"`
	EndOfLine        string `yaml:"endOfLine"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := export.DefaultOptions()
	return &Config{
		Format:              string(opts.Format),
		Basename:            DefaultBasename,
		AppSpecificFilename: true,
		PerformFileSave:     true,
		Extract: ExtractConfig{
			CaseSensitiveSort: true,
		},
		Filter: FilterConfig{
			MatchName:       true,
			MatchValue:      true,
			AffectsFilename: true,
		},
		Text: TextConfig{
			Separator: opts.Delimited.Separator,
		},
		Delimited: DelimitedConfig{
			Fields: FieldsConfig{
				Name:         true,
				Status:       true,
				Type:         true,
				Value:        true,
				DefaultValue: true,
			},
			Header:             opts.Delimited.Header,
			EscapeControlChars: opts.Delimited.EscapeControlChars,
			EndOfLine:          opts.Delimited.EndOfLine,
		},
		Statement: StatementConfig{
			Function:         opts.Statement.Function,
			ValueSource:      string(opts.Statement.Source),
			Warning:          opts.Statement.Warning,
			NumericEscapeKey: opts.Statement.NumericEscapeKey,
			EndOfLine:        opts.Statement.EndOfLine,
		},
	}
}

// LoadConfig loads and parses configuration from a YAML file. Keys missing
// from the file keep their Default values. Without a path the defaults are
// returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := Default()
	if loaderCfg.path == "" {
		return config, nil
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content on top of the defaults
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	if c.Basename == "" {
		return fmt.Errorf("basename is required")
	}

	if err := validateToggles(c.Prefilter.Status, StatusKeys, "prefilter.status"); err != nil {
		return err
	}
	if err := validateToggles(c.Prefilter.Type, TypeKeys, "prefilter.type"); err != nil {
		return err
	}

	if err := c.Filter.validate(); err != nil {
		return err
	}

	if c.Delimited.Fields == (FieldsConfig{}) {
		return fmt.Errorf("delimited.fields: at least one field must be enabled")
	}
	if c.Delimited.EndOfLine == "" {
		return fmt.Errorf("delimited.endOfLine is required")
	}

	return c.Statement.validate()
}

// validateToggles rejects keys that do not name a known status or type
func validateToggles(toggles map[string]bool, known []string, prefix string) error {
	for key := range toggles {
		if !slices.Contains(known, key) {
			return fmt.Errorf("%s: unknown key '%s', expected one of %v", prefix, key, known)
		}
	}
	return nil
}

func (f *FilterConfig) validate() error {
	if err := f.Include.validate("filter.include"); err != nil {
		return err
	}
	if err := f.Exclude.validate("filter.exclude"); err != nil {
		return err
	}

	if (f.Include.usesPattern() || f.Exclude.usesPattern()) && !f.MatchName && !f.MatchValue {
		return fmt.Errorf("filter: a pattern needs matchName or matchValue")
	}
	return nil
}

// Active reports whether an include or exclude filter is configured
func (f *FilterConfig) Active() bool {
	return f.Include != nil || f.Exclude != nil
}

// validate ensures exactly one kind of spec is configured
func (s *FilterSpecConfig) validate(prefix string) error {
	if s == nil {
		return nil
	}

	configCount := 0
	if s.Pattern != "" {
		configCount++
	}
	if len(s.Names) > 0 {
		configCount++
	}
	if s.Query != "" {
		configCount++
	}

	if configCount == 0 {
		return fmt.Errorf("%s: one of pattern, names, or query must be specified", prefix)
	}
	if configCount > 1 {
		return fmt.Errorf("%s: only one of pattern, names, or query may be specified", prefix)
	}

	if s.Syntax != "" {
		if s.Pattern == "" {
			return fmt.Errorf("%s: syntax is only valid with pattern", prefix)
		}
		if s.Syntax != SyntaxRegex && s.Syntax != SyntaxGlob {
			return fmt.Errorf("%s: syntax must be %s or %s, got %s", prefix, SyntaxRegex, SyntaxGlob, s.Syntax)
		}
	}

	for i, name := range s.Names {
		if name == "" {
			return fmt.Errorf("%s: names[%d] is empty", prefix, i)
		}
	}
	return nil
}

func (s *FilterSpecConfig) usesPattern() bool {
	return s != nil && s.Pattern != ""
}

func (s *StatementConfig) validate() error {
	if s.Function == "" {
		return fmt.Errorf("statement.function is required")
	}
	switch export.ValueSource(s.ValueSource) {
	case export.ValueEffective, export.ValueDefault:
	default:
		return fmt.Errorf("statement.valueSource must be %s or %s, got %s",
			export.ValueEffective, export.ValueDefault, s.ValueSource)
	}
	if s.EndOfLine == "" {
		return fmt.Errorf("statement.endOfLine is required")
	}
	return nil
}

// ExportOptions converts the output settings into export options.
func (c *Config) ExportOptions() (export.Options, error) {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return export.Options{}, err
	}

	f := c.Delimited.Fields
	return export.Options{
		Format: format,
		Delimited: export.DelimitedOptions{
			Fields: export.Fields{
				Name:         f.Name,
				Status:       f.Status,
				Type:         f.Type,
				Value:        f.Value,
				DefaultValue: f.DefaultValue,
			},
			Header:             c.Delimited.Header,
			Separator:          c.Text.Separator,
			EndOfLine:          c.Delimited.EndOfLine,
			EscapeControlChars: c.Delimited.EscapeControlChars,
			AppendStats:        c.Text.AppendStats,
		},
		Statement: export.StatementOptions{
			Function:         c.Statement.Function,
			Source:           export.ValueSource(c.Statement.ValueSource),
			Warning:          c.Statement.Warning,
			NumericEscapeKey: c.Statement.NumericEscapeKey,
			EndOfLine:        c.Statement.EndOfLine,
		},
	}, nil
}
