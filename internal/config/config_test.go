package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/prefsnap/internal/export"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name             string
		yamlContent      string
		skipFileCreation bool
		wantConfig       func() *Config
		wantErr          string
	}{
		{
			name:        "empty_file_keeps_defaults",
			yamlContent: ``,
			wantConfig:  Default,
		},
		{
			name: "csv_with_include_pattern",
			yamlContent: `format: csv
basename: Prefs
appSpecificFilename: false
extract:
  root: "network."
  caseSensitiveSort: false
filter:
  include:
    pattern: ^network\.proxy
  matchValue: false
delimited:
  endOfLine: "\n"
  fields:
    defaultValue: false`,
			wantConfig: func() *Config {
				cfg := Default()
				cfg.Format = "csv"
				cfg.Basename = "Prefs"
				cfg.AppSpecificFilename = false
				cfg.Extract.Root = "network."
				cfg.Extract.CaseSensitiveSort = false
				cfg.Filter.Include = &FilterSpecConfig{Pattern: `^network\.proxy`}
				cfg.Filter.MatchValue = false
				cfg.Delimited.EndOfLine = "\n"
				cfg.Delimited.Fields.DefaultValue = false
				return cfg
			},
		},
		{
			name: "prefilter_and_statement",
			yamlContent: `format: statement
prefilter:
  status:
    default: false
  type:
    invalid: false
    unknown: false
statement:
  function: pref
  valueSource: default
  warning: false`,
			wantConfig: func() *Config {
				cfg := Default()
				cfg.Format = "statement"
				cfg.Prefilter.Status = map[string]bool{"default": false}
				cfg.Prefilter.Type = map[string]bool{"invalid": false, "unknown": false}
				cfg.Statement.Function = "pref"
				cfg.Statement.ValueSource = "default"
				cfg.Statement.Warning = false
				return cfg
			},
		},
		{
			name: "exclude_names_and_include_query",
			yamlContent: `filter:
  include:
    query: status=="userset"
  exclude:
    names: [browser.startup.homepage, app.update.lastUpdateTime]`,
			wantConfig: func() *Config {
				cfg := Default()
				cfg.Filter.Include = &FilterSpecConfig{Query: `status=="userset"`}
				cfg.Filter.Exclude = &FilterSpecConfig{Names: []string{"browser.startup.homepage", "app.update.lastUpdateTime"}}
				return cfg
			},
		},
		{
			name:        "invalid_format",
			yamlContent: `format: xml`,
			wantErr:     "format: invalid export format",
		},
		{
			name: "spec_with_two_kinds",
			yamlContent: `filter:
  exclude:
    pattern: foo
    names: [bar]`,
			wantErr: "filter.exclude: only one of pattern, names, or query may be specified",
		},
		{
			name: "empty_spec",
			yamlContent: `filter:
  include: {}`,
			wantErr: "filter.include: one of pattern, names, or query must be specified",
		},
		{
			name:             "file_not_found",
			skipFileCreation: true,
			wantErr:          "failed to evaluate symlinks",
		},
		{
			name:        "malformed_yaml",
			yamlContent: "format: [json",
			wantErr:     "failed to parse YAML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			if tt.skipFileCreation {
				configPath = filepath.Join(tmpDir, "non-existent.yaml")
			} else {
				err := os.WriteFile(configPath, []byte(tt.yamlContent), 0600)
				require.NoError(t, err)
			}

			config, err := LoadConfig(WithConfigPath(configPath))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig(), config)
		})
	}
}

func TestLoadConfig_NoPath(t *testing.T) {
	t.Parallel()

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
	require.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "missing_basename",
			mutate:  func(c *Config) { c.Basename = "" },
			wantErr: "basename is required",
		},
		{
			name:    "unknown_status_key",
			mutate:  func(c *Config) { c.Prefilter.Status = map[string]bool{"sticky": false} },
			wantErr: "prefilter.status: unknown key 'sticky'",
		},
		{
			name:    "unknown_type_key",
			mutate:  func(c *Config) { c.Prefilter.Type = map[string]bool{"float": true} },
			wantErr: "prefilter.type: unknown key 'float'",
		},
		{
			name:    "bad_syntax",
			mutate:  func(c *Config) { c.Filter.Include = &FilterSpecConfig{Pattern: "a", Syntax: "pcre"} },
			wantErr: "filter.include: syntax must be regex or glob, got pcre",
		},
		{
			name:    "syntax_without_pattern",
			mutate:  func(c *Config) { c.Filter.Include = &FilterSpecConfig{Names: []string{"a"}, Syntax: "glob"} },
			wantErr: "filter.include: syntax is only valid with pattern",
		},
		{
			name:    "empty_name",
			mutate:  func(c *Config) { c.Filter.Exclude = &FilterSpecConfig{Names: []string{"a", ""}} },
			wantErr: "filter.exclude: names[1] is empty",
		},
		{
			name: "pattern_without_targets",
			mutate: func(c *Config) {
				c.Filter.Include = &FilterSpecConfig{Pattern: "a"}
				c.Filter.MatchName = false
				c.Filter.MatchValue = false
			},
			wantErr: "a pattern needs matchName or matchValue",
		},
		{
			name:    "no_fields",
			mutate:  func(c *Config) { c.Delimited.Fields = FieldsConfig{} },
			wantErr: "at least one field must be enabled",
		},
		{
			name:    "bad_value_source",
			mutate:  func(c *Config) { c.Statement.ValueSource = "user" },
			wantErr: "statement.valueSource must be effective or default, got user",
		},
		{
			name:    "missing_function",
			mutate:  func(c *Config) { c.Statement.Function = "" },
			wantErr: "statement.function is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestConfigExportOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	opts, err := cfg.ExportOptions()
	require.NoError(t, err)
	assert.Equal(t, export.DefaultOptions(), opts)

	cfg.Format = "csv"
	cfg.Text.AppendStats = true
	cfg.Delimited.Fields.Status = false
	opts, err = cfg.ExportOptions()
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, opts.Format)
	assert.True(t, opts.Delimited.AppendStats)
	assert.False(t, opts.Delimited.Fields.Status)

	cfg.Format = "yaml"
	_, err = cfg.ExportOptions()
	assert.ErrorIs(t, err, export.ErrInvalidFormat)
}

func TestFilterConfigActive(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.False(t, cfg.Filter.Active())
	cfg.Filter.Exclude = &FilterSpecConfig{Names: []string{"a"}}
	assert.True(t, cfg.Filter.Active())
}

func TestWithConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.MkdirAll(filepath.Join(tmpDir, "configs"), 0755)
	require.NoError(t, err, "failed to create subdir")

	err = os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("format: json"), 0600)
	require.NoError(t, err, "failed to write config file")

	err = os.WriteFile(filepath.Join(tmpDir, "configs", "app.yaml"), []byte("format: csv"), 0600)
	require.NoError(t, err, "failed to write config file")

	t.Chdir(tmpDir)

	tests := []struct {
		name     string
		path     string
		wantPath string
		wantErr  bool
	}{
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "path traversal at start",
			path:    "../etc/passwd",
			wantErr: true,
		},
		{
			name:    "path traversal in middle",
			path:    "config/../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "path traversal with dot",
			path:    "./../etc/passwd",
			wantErr: true,
		},
		{
			name:     "valid relative path",
			path:     "config.yaml",
			wantPath: "config.yaml",
		},
		{
			name:     "valid relative path with subdir",
			path:     "configs/app.yaml",
			wantPath: "configs/app.yaml",
		},
		{
			name:    "missing absolute path",
			path:    "/foo/bar/../../../configs/app.yaml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := WithConfigPath(tt.path)
			cfg := &loaderConfig{}
			err := opt(cfg)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPath, cfg.path)
			}
		})
	}
}
