package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// maxParallelReads bounds how many default files are read and parsed at once.
const maxParallelReads = 4

// Statement kinds accepted in Gecko preference files.
const (
	fnPref       = "pref"
	fnStickyPref = "sticky_pref"
	fnLockPref   = "lockPref"
	fnUserPref   = "user_pref"
)

// GeckoStatement is one pref(...) style call read from a preference file.
type GeckoStatement struct {
	Func   string
	Name   string
	Value  prefs.Value
	Locked bool
	Sticky bool
	Line   int
}

// LoadGeckoPrefs builds a MemoryStore from default preference files (read in
// order, later definitions win) and an optional user preference file such as
// prefs.js.
func LoadGeckoPrefs(defaultFiles []string, userFile string, opts ...MemoryOption) (*MemoryStore, error) {
	parsed, err := readGeckoFiles(defaultFiles)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*Pref)
	var order []string

	for i, path := range defaultFiles {
		for _, st := range parsed[i] {
			if st.Func == fnUserPref {
				return nil, fmt.Errorf("%s:%d: user_pref is not allowed in default preferences", path, st.Line)
			}
			rec, ok := records[st.Name]
			if !ok {
				rec = &Pref{Name: st.Name}
				records[st.Name] = rec
				order = append(order, st.Name)
			}
			v := st.Value
			rec.Type = typeOf(v)
			rec.Default = &v
			rec.Locked = rec.Locked || st.Locked || st.Func == fnLockPref
		}
	}

	if userFile != "" {
		stmts, err := readGeckoFile(userFile)
		if err != nil {
			return nil, err
		}
		for _, st := range stmts {
			if st.Func != fnUserPref {
				return nil, fmt.Errorf("%s:%d: only user_pref is allowed in user preferences, got %s",
					userFile, st.Line, st.Func)
			}
			v := st.Value
			rec, ok := records[st.Name]
			if !ok {
				rec = &Pref{Name: st.Name, Type: typeOf(v)}
				records[st.Name] = rec
				order = append(order, st.Name)
			}
			if rec.Type != typeOf(v) {
				slog.Warn("Ignoring user value with mismatched type",
					"pref", st.Name, "defaultType", rec.Type, "userType", typeOf(v), "file", userFile, "line", st.Line)
				continue
			}
			rec.User = &v
		}
	}

	list := make([]Pref, 0, len(order))
	for _, name := range order {
		list = append(list, *records[name])
	}
	return NewMemoryStore(list, opts...)
}

// readGeckoFiles parses paths concurrently. Results keep the order of paths so
// that later files still override earlier ones.
func readGeckoFiles(paths []string) ([][]GeckoStatement, error) {
	parsed := make([][]GeckoStatement, len(paths))
	var g errgroup.Group
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() error {
			stmts, err := readGeckoFile(path)
			if err != nil {
				return err
			}
			parsed[i] = stmts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

func readGeckoFile(path string) ([]GeckoStatement, error) {
	// #nosec G304 -- path is supplied by the operator running the export
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read preference file: %w", err)
	}
	stmts, err := ParseGeckoPrefs(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stmts, nil
}

func typeOf(v prefs.Value) prefs.Type {
	switch v.Kind() {
	case prefs.KindBool:
		return prefs.TypeBoolean
	case prefs.KindInt:
		return prefs.TypeInteger
	case prefs.KindString:
		return prefs.TypeString
	default:
		return prefs.TypeInvalid
	}
}

// ParseGeckoPrefs parses the pref(), sticky_pref(), lockPref() and
// user_pref() statements of a Gecko preference file.
func ParseGeckoPrefs(src string) ([]GeckoStatement, error) {
	p := &geckoParser{src: src, line: 1}
	var stmts []GeckoStatement
	for {
		p.skipSpace()
		if p.eof() {
			return stmts, nil
		}
		st, err := p.statement()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
		stmts = append(stmts, st)
	}
}

type geckoParser struct {
	src  string
	pos  int
	line int
}

func (p *geckoParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *geckoParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *geckoParser) advance() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

// skipSpace skips whitespace and //, # and /* */ comments.
func (p *geckoParser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.advance()
		case c == '#' || strings.HasPrefix(p.src[p.pos:], "//"):
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			p.advance()
			p.advance()
			for !p.eof() && !strings.HasPrefix(p.src[p.pos:], "*/") {
				p.advance()
			}
			if !p.eof() {
				p.advance()
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *geckoParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected '%c', found %s", c, p.describe())
	}
	p.advance()
	return nil
}

func (p *geckoParser) describe() string {
	if p.eof() {
		return "end of file"
	}
	return strconv.Quote(string(p.peek()))
}

func (p *geckoParser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			p.advance()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *geckoParser) statement() (GeckoStatement, error) {
	st := GeckoStatement{Line: p.line}
	st.Func = p.ident()
	switch st.Func {
	case fnPref, fnStickyPref, fnLockPref, fnUserPref:
	case "":
		return st, fmt.Errorf("unexpected %s", p.describe())
	default:
		return st, fmt.Errorf("unknown statement '%s'", st.Func)
	}
	st.Sticky = st.Func == fnStickyPref

	if err := p.expect('('); err != nil {
		return st, err
	}
	p.skipSpace()
	name, err := p.str()
	if err != nil {
		return st, fmt.Errorf("pref name: %w", err)
	}
	if name == "" {
		return st, fmt.Errorf("pref name is empty")
	}
	st.Name = name

	if err := p.expect(','); err != nil {
		return st, err
	}
	p.skipSpace()
	if st.Value, err = p.value(); err != nil {
		return st, fmt.Errorf("pref '%s': %w", name, err)
	}

	for {
		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.advance()
		p.skipSpace()
		switch attr := p.ident(); attr {
		case "locked":
			st.Locked = true
		case "sticky":
			st.Sticky = true
		default:
			return st, fmt.Errorf("pref '%s': unknown attribute '%s'", name, attr)
		}
	}

	if err := p.expect(')'); err != nil {
		return st, err
	}
	if err := p.expect(';'); err != nil {
		return st, err
	}
	return st, nil
}

func (p *geckoParser) value() (prefs.Value, error) {
	c := p.peek()
	switch {
	case c == '"' || c == '\'':
		s, err := p.str()
		if err != nil {
			return prefs.Value{}, err
		}
		return prefs.StringValue(s), nil
	case c == '-' || c == '+' || c >= '0' && c <= '9':
		start := p.pos
		p.advance()
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.advance()
		}
		i, err := strconv.ParseInt(p.src[start:p.pos], 10, 32)
		if err != nil {
			return prefs.Value{}, fmt.Errorf("invalid integer '%s'", p.src[start:p.pos])
		}
		return prefs.IntValue(i), nil
	default:
		switch word := p.ident(); word {
		case "true":
			return prefs.BoolValue(true), nil
		case "false":
			return prefs.BoolValue(false), nil
		case "":
			return prefs.Value{}, fmt.Errorf("expected value, found %s", p.describe())
		default:
			return prefs.Value{}, fmt.Errorf("unexpected value '%s'", word)
		}
	}
}

// str reads a single or double quoted string with \\, \", \', \n, \r, \t,
// \xNN and \uNNNN escapes.
func (p *geckoParser) str() (string, error) {
	quote := p.peek()
	if quote != '"' && quote != '\'' {
		return "", fmt.Errorf("expected string, found %s", p.describe())
	}
	p.advance()

	var b strings.Builder
	for {
		if p.eof() {
			return "", fmt.Errorf("unterminated string")
		}
		c := p.advance()
		switch {
		case c == quote:
			return b.String(), nil
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (p *geckoParser) escape(b *strings.Builder) error {
	if p.eof() {
		return fmt.Errorf("unterminated escape")
	}
	switch c := p.advance(); c {
	case '\\', '"', '\'':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'x':
		r, err := p.hex(2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := p.hex(4)
		if err != nil {
			return err
		}
		if r >= 0xD800 && r <= 0xDBFF && strings.HasPrefix(p.src[p.pos:], "\\u") {
			p.pos += 2
			lo, err := p.hex(4)
			if err != nil {
				return err
			}
			r = utf16.DecodeRune(r, lo)
		}
		if !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	default:
		return fmt.Errorf("unknown escape '\\%c'", c)
	}
	return nil
}

func (p *geckoParser) hex(n int) (rune, error) {
	if p.pos+n > len(p.src) {
		return 0, fmt.Errorf("truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid escape digits '%s'", p.src[p.pos:p.pos+n])
	}
	p.pos += n
	return rune(v), nil
}
