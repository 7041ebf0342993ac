package filtering

import (
	"fmt"
	"log/slog"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// Options tune the Filter
type Options struct {
	// Debug logs every include/exclude match
	Debug bool
}

// Filter combines an optional include spec and an optional exclude spec
type Filter struct {
	include *Spec
	exclude *Spec
	debug   bool
}

type stage string

const (
	stageInclude stage = "include"
	stageExclude stage = "exclude"
)

// NewFilter validates the specs and builds a Filter. A nil spec means the
// stage is absent. Any spec of an unsupported kind is rejected.
func NewFilter(include, exclude *Spec, opts Options) (*Filter, error) {
	if include != nil {
		if err := include.validate(); err != nil {
			return nil, fmt.Errorf("include filter: %w", err)
		}
	}
	if exclude != nil {
		if err := exclude.validate(); err != nil {
			return nil, fmt.Errorf("exclude filter: %w", err)
		}
	}
	return &Filter{include: include, exclude: exclude, debug: opts.Debug}, nil
}

// Active reports whether an include or exclude spec is configured.
func (f *Filter) Active() bool {
	return f.include != nil || f.exclude != nil
}

// Prepare marks the match counters of absent stages as not applicable.
func (f *Filter) Prepare(stats *prefs.Stats) {
	if f.include == nil {
		stats.Disable(prefs.StatIncFilterMatches)
	}
	if f.exclude == nil {
		stats.Disable(prefs.StatExcFilterMatches)
	}
}

// ShouldInclude decides whether entry is kept and explains why.
//
// Logic:
// 1. No include spec -> the include stage passes
// 2. Include spec present and no match -> exclude, the exclude spec is not consulted
// 3. Include passed and the exclude spec matches -> exclude (exclude takes precedence)
// 4. Otherwise -> include
func (f *Filter) ShouldInclude(entry prefs.Entry, stats *prefs.Stats) (bool, string) {
	includeReason := "no include filter specified"
	if f.include != nil {
		matched, reason := f.match(f.include, stageInclude, entry)
		if !matched {
			return false, fmt.Sprintf("no match for include %s", f.include.Kind)
		}
		stats.Inc(prefs.StatIncFilterMatches)
		includeReason = "included: " + reason
	}

	if f.exclude != nil {
		matched, reason := f.match(f.exclude, stageExclude, entry)
		if matched {
			stats.Inc(prefs.StatExcFilterMatches)
			return false, "excluded: " + reason
		}
		if f.include == nil {
			return true, fmt.Sprintf("no match for exclude %s", f.exclude.Kind)
		}
	}

	return true, includeReason
}

// match evaluates one spec. A pattern tests the name first and the value
// only when the name did not match, so each spec matches at most once.
func (f *Filter) match(spec *Spec, st stage, entry prefs.Entry) (bool, string) {
	var reason string
	switch spec.Kind {
	case SpecPattern:
		m := spec.Pattern.Matcher
		switch {
		case spec.Pattern.Targets.Name && m.Match(entry.Name):
			reason = fmt.Sprintf("name matched %s %s '%s'", st, m.Syntax(), m)
		case spec.Pattern.Targets.Value && m.Match(entry.Value.String()):
			reason = fmt.Sprintf("value matched %s %s '%s'", st, m.Syntax(), m)
		default:
			return false, ""
		}
	case SpecNameSet:
		if _, ok := spec.names[entry.Name]; !ok {
			return false, ""
		}
		reason = fmt.Sprintf("name matched %s names", st)
	case SpecPredicate:
		if !spec.Predicate(entry) {
			return false, ""
		}
		reason = fmt.Sprintf("matched %s function", st)
	default:
		return false, ""
	}

	if f.debug {
		slog.Info("Filter match", "pref", entry.Name, "reason", reason)
	}
	return true, reason
}
