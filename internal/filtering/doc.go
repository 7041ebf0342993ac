// Package filtering decides which collected preferences make it into an
// export.
//
// Filtering runs in two stages for every entry, in collector order:
//
//   - Prefilter: a coarse test on the entry's status and type. Each status
//     (locked, userset, default) and each type (boolean, integer, string,
//     invalid, unknown) has a toggle; an entry whose status or type toggle is
//     off is dropped.
//   - Filter: a fine test combining an optional include spec and an optional
//     exclude spec.
//
// # Filter specs
//
// A Spec is one of three kinds:
//
//   - Pattern: a regular expression or glob applied to the entry name and/or
//     to the entry value rendered as text
//   - NameSet: an explicit, case-sensitive list of names
//   - Predicate: a function over the whole entry, for example one compiled
//     from a gjson query such as `status=="locked"`
//
// # Filtering Logic
//
//  1. No include spec -> every entry passes the include stage
//  2. Include spec present -> the entry must match it
//  3. Entries that passed include are tested against the exclude spec, and
//     a match drops them (exclude takes precedence)
//  4. No exclude spec -> nothing is removed at the exclude stage
//
// # Usage Example
//
//	include, _ := CompilePattern(`^net\.`, SyntaxRegex)
//	f, err := NewFilter(PatternSpec(include, Targets{Name: true}), NameSetSpec("net.debug"), Options{})
//	f.Prepare(stats)
//	keep, reason := f.ShouldInclude(entry, stats)
//
// Every match increments the incFilterMatches or excFilterMatches counter.
// With Options.Debug each match is also logged together with its reason.
package filtering
