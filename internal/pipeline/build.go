package pipeline

import (
	"fmt"

	"github.com/stacklok/prefsnap/internal/config"
	"github.com/stacklok/prefsnap/internal/filtering"
	"github.com/stacklok/prefsnap/internal/prefs"
)

var (
	statusKeys = map[string]prefs.Status{
		"locked":  prefs.StatusLocked,
		"userset": prefs.StatusUserSet,
		"default": prefs.StatusDefault,
	}
	typeKeys = map[string]prefs.Type{
		"boolean": prefs.TypeBoolean,
		"integer": prefs.TypeInteger,
		"string":  prefs.TypeString,
		"invalid": prefs.TypeInvalid,
		"unknown": prefs.TypeUnknown,
	}
)

// BuildPrefilter converts the prefilter toggles. Status and type toggles use
// the same key names as the config schema.
func BuildPrefilter(cfg config.PrefilterConfig) *filtering.Prefilter {
	statuses := make(map[prefs.Status]bool, len(cfg.Status))
	for key, allowed := range cfg.Status {
		if s, ok := statusKeys[key]; ok {
			statuses[s] = allowed
		}
	}
	types := make(map[prefs.Type]bool, len(cfg.Type))
	for key, allowed := range cfg.Type {
		if t, ok := typeKeys[key]; ok {
			types[t] = allowed
		}
	}
	return filtering.NewPrefilter(statuses, types)
}

// BuildFilter converts the include and exclude specs into a Filter.
func BuildFilter(cfg config.FilterConfig) (*filtering.Filter, error) {
	targets := filtering.Targets{Name: cfg.MatchName, Value: cfg.MatchValue}

	include, err := buildSpec(cfg.Include, targets)
	if err != nil {
		return nil, fmt.Errorf("include filter: %w", err)
	}
	exclude, err := buildSpec(cfg.Exclude, targets)
	if err != nil {
		return nil, fmt.Errorf("exclude filter: %w", err)
	}

	return filtering.NewFilter(include, exclude, filtering.Options{Debug: cfg.Debug})
}

func buildSpec(cfg *config.FilterSpecConfig, targets filtering.Targets) (*filtering.Spec, error) {
	switch {
	case cfg == nil:
		return nil, nil
	case cfg.Pattern != "":
		m, err := filtering.CompilePattern(cfg.Pattern, filtering.Syntax(cfg.Syntax))
		if err != nil {
			return nil, err
		}
		return filtering.PatternSpec(m, targets), nil
	case len(cfg.Names) > 0:
		return filtering.NameSetSpec(cfg.Names...), nil
	case cfg.Query != "":
		fn, err := filtering.QueryPredicate(cfg.Query)
		if err != nil {
			return nil, err
		}
		return filtering.PredicateSpec(fn), nil
	default:
		return nil, fmt.Errorf("%w: empty filter spec", filtering.ErrInvalidSpec)
	}
}
