package labeling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesAny_PrefixBoundary(t *testing.T) {
	for _, p := range []string{"/a", "/gsv-images-to-custom-label", "/photos/2024"} {
		assert.True(t, MatchesAny([]string{p}, p), p)
		assert.True(t, MatchesAny([]string{p}, p+"/x"), p)
		assert.False(t, MatchesAny([]string{p}, p+"x"), p)
	}
}

func TestMatchesAny_Wildcard(t *testing.T) {
	patterns := []string{"/users/*/images"}

	assert.True(t, MatchesAny(patterns, "/users/alice/images"))
	assert.True(t, MatchesAny(patterns, "/users/alice/images/2024"))
	assert.True(t, MatchesAny(patterns, "/users/a b.c_d-e/images"))
	assert.True(t, MatchesAny(patterns, "/users//images"))
	assert.False(t, MatchesAny(patterns, "/users/alice/videos"))
	assert.False(t, MatchesAny(patterns, "/users/al!ce/images"))
}

func TestMatchesAny_LiteralCharacters(t *testing.T) {
	assert.True(t, MatchesAny([]string{"/a.b"}, "/a.b"))
	assert.False(t, MatchesAny([]string{"/a.b"}, "/axb"))
	assert.False(t, MatchesAny([]string{"/A"}, "/a"))
}

func TestMatchesAny_TrimsPatterns(t *testing.T) {
	assert.True(t, MatchesAny([]string{" /x", " /y "}, "/y/z"))
}

func TestMatchesAny_EmptyList(t *testing.T) {
	assert.False(t, MatchesAny(nil, "/a"))
	assert.False(t, MatchesAny([]string{}, "/"))
}

func TestPathMatcher_FirstMatchWins(t *testing.T) {
	m := NewPathMatcher([]string{"/a", "/b/*"})
	assert.True(t, m.Match("/b/c"))
	assert.True(t, m.Match("/a"))
	assert.False(t, m.Match("/c"))
}
