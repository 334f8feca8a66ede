package matching

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher is implemented by URL patterns that test URLs themselves.
// *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(url string) bool
}

// Literal is a URL pattern given as a plain string, optionally with "*" wildcards.
type Literal struct {
	pattern string
	re      *regexp.Regexp
}

// NewLiteral compiles a literal pattern. The wildcard expression, if any, is built once.
func NewLiteral(pattern string) (*Literal, error) {
	l := &Literal{pattern: pattern}
	if strings.Contains(pattern, "*") {
		re, err := WildcardRegexp(pattern)
		if err != nil {
			return nil, err
		}
		l.re = re
	}
	return l, nil
}

// MatchString reports whether url matches the literal pattern.
func (l *Literal) MatchString(url string) bool {
	if l.pattern == url {
		return true
	}
	if l.re == nil {
		return false
	}
	return l.re.MatchString(url)
}

// String returns the pattern text.
func (l *Literal) String() string {
	return l.pattern
}

// WildcardRegexp converts a literal pattern into its wildcard expression: every
// regex metacharacter except "*" is escaped and each "*" becomes ".+".
// The result is not anchored.
func WildcardRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.Grow(len(pattern) * 2)
	for _, r := range pattern {
		switch {
		case r == '*':
			sb.WriteString(".+")
		case strings.ContainsRune(`-[]{}()+?.,\^$|#`, r), unicode.IsSpace(r):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid wildcard pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Glob is an anchored doublestar pattern: "*" stays inside one path segment and
// "**" crosses segments.
type Glob string

// MatchString reports whether url matches the glob. Malformed globs match nothing.
func (g Glob) MatchString(url string) bool {
	ok, err := doublestar.Match(string(g), url)
	return err == nil && ok
}

// String returns the glob text.
func (g Glob) String() string {
	return string(g)
}

// ValidateGlob returns an error if the glob cannot be parsed.
func ValidateGlob(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return nil
}

// CompileRegexp compiles a regular-expression URL pattern with RE2 syntax.
func CompileRegexp(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty regex pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	return re, nil
}

// Describe returns a printable form of any matcher for logs and CLI output.
func Describe(m Matcher) string {
	switch v := m.(type) {
	case nil:
		return ""
	case *Literal:
		return v.pattern
	case *regexp.Regexp:
		return "regex:" + v.String()
	case Glob:
		return "glob:" + string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", m)
	}
}
