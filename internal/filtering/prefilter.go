package filtering

import (
	"github.com/stacklok/prefsnap/internal/prefs"
)

// Prefilter drops entries by status or type before pattern filtering
type Prefilter struct {
	statuses map[prefs.Status]bool
	types    map[prefs.Type]bool
}

// NewPrefilter builds a Prefilter from per-status and per-type toggles.
// Statuses and types missing from the maps are allowed.
func NewPrefilter(statuses map[prefs.Status]bool, types map[prefs.Type]bool) *Prefilter {
	p := &Prefilter{
		statuses: make(map[prefs.Status]bool, len(prefs.Statuses)),
		types:    make(map[prefs.Type]bool, len(prefs.Types)),
	}
	for _, s := range prefs.Statuses {
		allowed, ok := statuses[s]
		p.statuses[s] = !ok || allowed
	}
	for _, t := range prefs.Types {
		allowed, ok := types[t]
		p.types[t] = !ok || allowed
	}
	return p
}

// AllowAll returns a Prefilter that keeps every entry
func AllowAll() *Prefilter {
	return NewPrefilter(nil, nil)
}

// Allow reports whether entry passes, counting the decision in stats.
func (p *Prefilter) Allow(entry prefs.Entry, stats *prefs.Stats) bool {
	if p.statuses[entry.Status] && p.types[entry.Type] {
		stats.Inc(prefs.StatIncludedByPrefilter)
		return true
	}
	stats.Inc(prefs.StatExcludedByPrefilter)
	return false
}
