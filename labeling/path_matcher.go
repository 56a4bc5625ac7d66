package labeling

import (
	"regexp"
	"strings"
)

// wildcardPattern is what a "*" in a path pattern expands to.
const wildcardPattern = `[A-Za-z0-9_.\s/-]*`

// PathMatcher holds a compiled list of glob-like directory patterns.
// A pattern matches a path when it matches a prefix of it that is followed by
// "/" or by the end of the path.
type PathMatcher struct {
	patterns []*regexp.Regexp
}

func NewPathMatcher(patterns []string) *PathMatcher {
	m := &PathMatcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		m.patterns = append(m.patterns, compilePattern(p))
	}
	return m
}

func (m *PathMatcher) Match(candidate string) bool {
	for _, re := range m.patterns {
		if re.MatchString(candidate) {
			return true
		}
	}
	return false
}

// MatchesAny reports whether candidate matches at least one pattern.
func MatchesAny(patterns []string, candidate string) bool {
	return NewPathMatcher(patterns).Match(candidate)
}

func compilePattern(pattern string) *regexp.Regexp {
	parts := strings.Split(strings.TrimSpace(pattern), "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, wildcardPattern) + "(?:/.*|$)")
}
