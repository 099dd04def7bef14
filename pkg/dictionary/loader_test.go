package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/levserve/pkg/fuzzy"
)

func TestLoaderLoad(t *testing.T) {
	l := NewLoader(fuzzy.NewTrie(), Options{})
	stats, err := l.Load(strings.NewReader("cat\ncats\n\ndog\ncat\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Accepted)
	assert.Equal(t, 1, stats.Skipped, "repeated word counts as skipped")
	assert.Equal(t, 4, stats.MaxWordLen)
	assert.Equal(t, 3, l.Index().Len())
	assert.True(t, l.Contains("cat"))
	assert.False(t, l.Contains("bat"))
}

func TestLoaderLowercase(t *testing.T) {
	l := NewLoader(fuzzy.NewTrie(), Options{Lowercase: true})
	_, err := l.Load(strings.NewReader("Cat\nCAT\ncat\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, l.Stats().Accepted)
	assert.True(t, l.Contains("cat"))
	assert.False(t, l.Contains("Cat"))
}

func TestLoaderNormalize(t *testing.T) {
	l := NewLoader(fuzzy.NewTrie(), Options{Normalize: true})
	_, err := l.Load(strings.NewReader("café\nnaïve\n"))
	require.NoError(t, err)

	assert.True(t, l.Contains("cafe"))
	assert.True(t, l.Contains("naive"))
	assert.False(t, l.Contains("café"))

	matches, err := l.Index().FuzzyAll("cafe", 0)
	require.NoError(t, err)
	assert.Equal(t, []fuzzy.Match{{Word: "cafe", Distance: 0}}, matches)
}

func TestLoaderMaxWordLen(t *testing.T) {
	l := NewLoader(fuzzy.NewTrie(), Options{MaxWordLen: 3})
	stats, err := l.Load(strings.NewReader("cat\ncats\nox\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 1, stats.Skipped)
	assert.False(t, l.Contains("cats"))
}

func TestLoaderReservedRune(t *testing.T) {
	l := NewLoader(fuzzy.NewTrie(), Options{})
	stats, err := l.Load(strings.NewReader("good\nbad\x00word\nfine\n"))
	require.NoError(t, err, "unindexable words are logged, not fatal")

	assert.Equal(t, 2, stats.Accepted)
	assert.Equal(t, 1, stats.Skipped)
	assert.False(t, l.Contains("bad\x00word"))
}

func TestLoaderFBIndex(t *testing.T) {
	l := NewLoader(fuzzy.NewFBIndex(), Options{})
	_, err := l.Load(strings.NewReader("cat\ncats\nbat\nrat\n"))
	require.NoError(t, err)

	matches, err := l.Index().FuzzyAll("cat", 1)
	require.NoError(t, err)
	got := fuzzy.Dedupe(matches)
	fuzzy.SortMatches(got)
	assert.Equal(t, []fuzzy.Match{
		{Word: "cat", Distance: 0},
		{Word: "bat", Distance: 1},
		{Word: "cats", Distance: 1},
		{Word: "rat", Distance: 1},
	}, got)
}

func TestLoaderCompletions(t *testing.T) {
	l := NewLoader(fuzzy.NewTrie(), Options{})
	_, err := l.Load(strings.NewReader("car\ncart\ncarton\ndog\n"))
	require.NoError(t, err)

	got := l.Completions("car", 0)
	assert.ElementsMatch(t, []string{"car", "cart", "carton"}, got)

	assert.Len(t, l.Completions("car", 2), 2)
	assert.Empty(t, l.Completions("zz", 0))
}
