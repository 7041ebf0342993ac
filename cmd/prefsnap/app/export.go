package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/prefsnap/internal/config"
	"github.com/stacklok/prefsnap/internal/output"
	"github.com/stacklok/prefsnap/internal/pipeline"
	"github.com/stacklok/prefsnap/internal/store"
)

// Flag names. Each is also readable from PREFSNAP_<NAME> with dashes
// replaced by underscores.
const (
	flagConfig          = "config"
	flagSnapshot        = "snapshot"
	flagPrefs           = "prefs"
	flagDefaults        = "defaults"
	flagRoot            = "root"
	flagInclude         = "include"
	flagExclude         = "exclude"
	flagFilterSyntax    = "filter-syntax"
	flagCaseInsensitive = "case-insensitive"

	flagFormat      = "format"
	flagOutput      = "output"
	flagStdout      = "stdout"
	flagYes         = "yes"
	flagNoSave      = "no-save"
	flagAppendStats = "append-stats"
	flagShowStats   = "show-stats"
)

func bindFlags(cmd *cobra.Command, v *viper.Viper, persistent bool, names ...string) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	for _, name := range names {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			slog.Error("Error binding flag", "flag", name, "error", err)
		}
	}
}

// addSourceFlags adds the flags shared by every command that runs an export
func addSourceFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to configuration file (YAML format)")
	flags.String(flagSnapshot, "", "Path to a preference snapshot (JSON with comments)")
	flags.String(flagPrefs, "", "Path to a prefs.js file holding user_pref() values")
	flags.StringSlice(flagDefaults, nil, "Default preference files, later files override earlier ones")
	flags.String(flagRoot, "", "Only export preferences under this branch, e.g. browser.")
	flags.String(flagInclude, "", "Only keep preferences matching this pattern")
	flags.String(flagExclude, "", "Drop preferences matching this pattern")
	flags.String(flagFilterSyntax, config.SyntaxRegex, "Pattern syntax of --include and --exclude (regex or glob)")
	flags.Bool(flagCaseInsensitive, false, "Order preferences ignoring case")

	bindFlags(cmd, v, true,
		flagConfig, flagSnapshot, flagPrefs, flagDefaults, flagRoot,
		flagInclude, flagExclude, flagFilterSyntax, flagCaseInsensitive)
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export preferences to a file",
		Long: `Export preferences read from --snapshot, or from --prefs and --defaults, in the
configured format.

The output file name is derived from the configuration (basename, application
name and version, -Filtered suffix) and written to --output, which may be a
directory or a file path. The file is only written after confirmation unless
--yes is given. See examples/ directory for sample configurations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, v)
		},
	}

	flags := exportCmd.Flags()
	flags.String(flagFormat, "", "Output format (json, txt, csv or statement)")
	flags.String(flagOutput, "", "Output directory or file path (default: current directory)")
	flags.Bool(flagStdout, false, "Write the export to stdout instead of a file")
	flags.BoolP(flagYes, "y", false, "Save without asking for confirmation")
	flags.Bool(flagNoSave, false, "Do not save the export, only compute it")
	flags.Bool(flagAppendStats, false, "Append stats to txt output")
	flags.Bool(flagShowStats, false, "Print the stats table to stderr")

	bindFlags(exportCmd, v, false,
		flagFormat, flagOutput, flagStdout, flagYes, flagNoSave, flagAppendStats, flagShowStats)

	return exportCmd
}

func runExport(cmd *cobra.Command, v *viper.Viper) error {
	cfg, st, err := prepare(v)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(cmd.Context(), st, cfg)
	if err != nil {
		slog.Error("Export failed", "error", err)
		return err
	}

	if v.GetBool(flagShowStats) {
		if err := renderStats(cmd.ErrOrStderr(), result.Stats); err != nil {
			return err
		}
	}

	if v.GetBool(flagStdout) {
		_, err := fmt.Fprint(cmd.OutOrStdout(), result.Output)
		return err
	}

	path, err := resolveOutputPath(v.GetString(flagOutput), result.Filename)
	if err != nil {
		return err
	}

	saver := output.NewSaver(output.NewFileWriter(), output.NewTerminalConfirmer(v.GetBool(flagYes)), cfg.PerformFileSave)
	outcome, err := saver.Save(path, []byte(result.Output))

	detail := path
	if err != nil {
		detail = err.Error()
	}
	if outcome == output.OutcomeDisabled {
		detail = ""
	}
	if _, werr := fmt.Fprintln(cmd.ErrOrStderr(), outcome.Render(detail)); werr != nil {
		return errors.Join(err, fmt.Errorf("failed to report export outcome: %w", werr))
	}
	return err
}

// prepare loads the configuration, applies flag and environment overrides and
// opens the preference store.
func prepare(v *viper.Viper) (*config.Config, store.Store, error) {
	var opts []config.Option
	if path := v.GetString(flagConfig); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	applyOverrides(cfg, v)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := openStore(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

// applyOverrides copies explicitly set flags and environment variables onto cfg
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	if v.IsSet(flagFormat) {
		cfg.Format = v.GetString(flagFormat)
	}
	if v.IsSet(flagRoot) {
		cfg.Extract.Root = v.GetString(flagRoot)
	}
	if v.IsSet(flagCaseInsensitive) {
		cfg.Extract.CaseSensitiveSort = !v.GetBool(flagCaseInsensitive)
	}
	if v.IsSet(flagAppendStats) {
		cfg.Text.AppendStats = v.GetBool(flagAppendStats)
	}
	if v.GetBool(flagNoSave) {
		cfg.PerformFileSave = false
	}

	syntax := v.GetString(flagFilterSyntax)
	if syntax == config.SyntaxRegex {
		syntax = ""
	}
	if p := v.GetString(flagInclude); p != "" {
		cfg.Filter.Include = &config.FilterSpecConfig{Pattern: p, Syntax: syntax}
	}
	if p := v.GetString(flagExclude); p != "" {
		cfg.Filter.Exclude = &config.FilterSpecConfig{Pattern: p, Syntax: syntax}
	}
}

// openStore opens the snapshot or the Gecko prefs files named by the flags
func openStore(v *viper.Viper) (store.Store, error) {
	snapshot := v.GetString(flagSnapshot)
	userFile := v.GetString(flagPrefs)
	defaultFiles := v.GetStringSlice(flagDefaults)

	geckoFiles := userFile != "" || len(defaultFiles) > 0
	switch {
	case snapshot != "" && geckoFiles:
		return nil, errors.New("--snapshot cannot be combined with --prefs or --defaults")
	case snapshot != "":
		st, err := store.LoadSnapshot(snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		slog.Info("Loaded snapshot", "path", snapshot, "prefs", st.Len())
		return st, nil
	case geckoFiles:
		st, err := store.LoadGeckoPrefs(defaultFiles, userFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load prefs files: %w", err)
		}
		slog.Info("Loaded prefs files", "defaults", len(defaultFiles), "user", userFile, "prefs", st.Len())
		return st, nil
	default:
		return nil, errors.New("one of --snapshot, --prefs or --defaults is required")
	}
}

// resolveOutputPath joins filename onto dir when dir is a directory or empty,
// and otherwise uses dir as the file path.
func resolveOutputPath(dir, filename string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return filepath.Join(wd, filename), nil
	}
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return filepath.Join(dir, filename), nil
	}
	return filepath.Clean(dir), nil
}
