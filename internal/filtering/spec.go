package filtering

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// ErrInvalidSpec is returned for include/exclude specs that cannot be used
var ErrInvalidSpec = errors.New("invalid filter spec")

// SpecKind tags the variant held by a Spec
type SpecKind int

const (
	// SpecInvalid is the zero kind and is always rejected
	SpecInvalid SpecKind = iota
	// SpecPattern matches a Pattern against the name and/or value
	SpecPattern
	// SpecNameSet matches an exact set of names
	SpecNameSet
	// SpecPredicate calls a function with the entry
	SpecPredicate
)

// String returns the label used in filter reasons.
func (k SpecKind) String() string {
	switch k {
	case SpecPattern:
		return "pattern"
	case SpecNameSet:
		return "names"
	case SpecPredicate:
		return "function"
	default:
		return fmt.Sprintf("SpecKind(%d)", int(k))
	}
}

// Spec is an include or exclude test. Only the field matching Kind is used.
type Spec struct {
	Kind      SpecKind
	Pattern   Pattern
	Names     []string
	Predicate func(prefs.Entry) bool

	names map[string]struct{}
}

// PatternSpec builds a pattern spec
func PatternSpec(m Matcher, targets Targets) *Spec {
	return &Spec{Kind: SpecPattern, Pattern: Pattern{Matcher: m, Targets: targets}}
}

// NameSetSpec builds a spec matching exactly the given names (case-sensitive)
func NameSetSpec(names ...string) *Spec {
	return &Spec{Kind: SpecNameSet, Names: names}
}

// PredicateSpec builds a spec that calls fn with each entry
func PredicateSpec(fn func(prefs.Entry) bool) *Spec {
	return &Spec{Kind: SpecPredicate, Predicate: fn}
}

// validate checks the fields required by the spec kind and prepares the name set.
func (s *Spec) validate() error {
	switch s.Kind {
	case SpecPattern:
		if s.Pattern.Matcher == nil {
			return fmt.Errorf("%w: pattern spec without a pattern", ErrInvalidSpec)
		}
		if !s.Pattern.Targets.Name && !s.Pattern.Targets.Value {
			return fmt.Errorf("%w: pattern spec matches neither name nor value", ErrInvalidSpec)
		}
	case SpecNameSet:
		s.names = make(map[string]struct{}, len(s.Names))
		for _, n := range s.Names {
			s.names[n] = struct{}{}
		}
	case SpecPredicate:
		if s.Predicate == nil {
			return fmt.Errorf("%w: predicate spec without a function", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unsupported kind %s", ErrInvalidSpec, s.Kind)
	}
	return nil
}

// QueryPredicate compiles a gjson query condition into an entry predicate.
// The condition is evaluated against the entry's JSON object, for example
// `status=="locked"`, `name%"browser.*"` or `value>100`.
func QueryPredicate(query string) (func(prefs.Entry) bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidSpec)
	}
	if err := checkQuerySyntax(query); err != nil {
		return nil, fmt.Errorf("%w: query %q: %w", ErrInvalidSpec, query, err)
	}
	path := "#(" + query + ")"

	return func(e prefs.Entry) bool {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode([]prefs.Entry{e}); err != nil {
			return false
		}
		return gjson.GetBytes(buf.Bytes(), path).Exists()
	}, nil
}

// checkQuerySyntax rejects unterminated strings and unbalanced brackets.
// gjson does not report path errors, a malformed query just matches nothing.
func checkQuerySyntax(query string) error {
	var stack []byte
	closing := map[byte]byte{')': '(', ']': '['}
	for i := 0; i < len(query); i++ {
		switch c := query[i]; c {
		case '"':
			end := i + 1
			for ; end < len(query) && query[end] != '"'; end++ {
				if query[end] == '\\' {
					end++
				}
			}
			if end >= len(query) {
				return fmt.Errorf("unterminated string at offset %d", i)
			}
			i = end
		case '(', '[':
			stack = append(stack, c)
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != closing[c] {
				return fmt.Errorf("unexpected %q at offset %d", c, i)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q", stack[len(stack)-1])
	}
	return nil
}
