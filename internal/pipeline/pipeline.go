// Package pipeline runs a complete export: collect, prefilter, filter and
// render.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stacklok/prefsnap/internal/collector"
	"github.com/stacklok/prefsnap/internal/config"
	"github.com/stacklok/prefsnap/internal/export"
	"github.com/stacklok/prefsnap/internal/filtering"
	"github.com/stacklok/prefsnap/internal/prefs"
	"github.com/stacklok/prefsnap/internal/store"
)

// Result contains the result of a successful export run
type Result struct {
	RunID string

	// Entries are the retained entries in collection order
	Entries []prefs.Entry

	Stats *prefs.Snapshot

	// Output is the rendered text
	Output string

	// Filename is the suggested output file name
	Filename string
}

// Run executes an export of st as described by cfg.
func Run(ctx context.Context, st store.Store, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	logger := slog.With("run_id", runID)

	prefilter := BuildPrefilter(cfg.Prefilter)
	filter, err := BuildFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	exportOpts, err := cfg.ExportOptions()
	if err != nil {
		return nil, err
	}

	stats := prefs.NewStats()
	filter.Prepare(stats)

	logger.Info("Starting export", "root", cfg.Extract.Root, "format", exportOpts.Format)

	entries, err := collector.Collect(ctx, st, collector.Options{
		Root:          cfg.Extract.Root,
		CaseSensitive: cfg.Extract.CaseSensitiveSort,
		LogNonASCII:   cfg.Extract.LogNonASCIIChars,
	}, stats)
	if err != nil {
		return nil, fmt.Errorf("failed to collect prefs: %w", err)
	}

	retained := make([]prefs.Entry, 0, len(entries))
	for _, entry := range entries {
		if !prefilter.Allow(entry, stats) {
			continue
		}
		keep, reason := filter.ShouldInclude(entry, stats)
		logger.Debug("Filter decision", "pref", entry.Name, "kept", keep, "reason", reason)
		if !keep {
			continue
		}
		stats.Inc(prefs.StatNumPrefsForExport)
		retained = append(retained, entry)
	}

	snapshot := stats.Freeze()

	output, err := export.Render(retained, snapshot, exportOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s output: %w", exportOpts.Format, err)
	}

	logger.Info("Export rendered",
		"collected", len(entries),
		"exported", len(retained),
		"bytes", len(output))

	return &Result{
		RunID:    runID,
		Entries:  retained,
		Stats:    snapshot,
		Output:   output,
		Filename: Filename(cfg, st),
	}, nil
}
