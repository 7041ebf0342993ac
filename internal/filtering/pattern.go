package filtering

import (
	"fmt"
	"regexp"

	"github.com/gobwas/glob"
)

// Syntax names the pattern language of a Pattern spec
type Syntax string

const (
	// SyntaxRegex is Go regular expression syntax, unanchored
	SyntaxRegex Syntax = "regex"

	// SyntaxGlob is glob syntax; '*' matches across dots
	SyntaxGlob Syntax = "glob"
)

// Matcher tests a string against a compiled pattern
type Matcher interface {
	Match(s string) bool
	Syntax() Syntax
	String() string
}

// Targets selects what a pattern is applied to
type Targets struct {
	Name  bool
	Value bool
}

// Pattern is a compiled matcher plus the entry fields it applies to
type Pattern struct {
	Matcher Matcher
	Targets Targets
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(s string) bool { return m.re.MatchString(s) }
func (regexMatcher) Syntax() Syntax { return SyntaxRegex }
func (m regexMatcher) String() string { return m.re.String() }

type globMatcher struct {
	expr string
	g    glob.Glob
}

func (m globMatcher) Match(s string) bool { return m.g.Match(s) }
func (globMatcher) Syntax() Syntax { return SyntaxGlob }
func (m globMatcher) String() string { return m.expr }

// CompilePattern compiles expr in the given syntax. An empty syntax means regex.
func CompilePattern(expr string, syntax Syntax) (Matcher, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidSpec)
	}
	switch syntax {
	case SyntaxRegex, "":
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid regex pattern '%s': %v", ErrInvalidSpec, expr, err)
		}
		return regexMatcher{re: re}, nil
	case SyntaxGlob:
		// No separators, so * also matches across the dots of a pref name
		g, err := glob.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid glob pattern '%s': %v", ErrInvalidSpec, expr, err)
		}
		return globMatcher{expr: expr, g: g}, nil
	default:
		return nil, fmt.Errorf("%w: unknown pattern syntax '%s'", ErrInvalidSpec, syntax)
	}
}
