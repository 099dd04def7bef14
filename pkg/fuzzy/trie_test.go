package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrieInsert(t *testing.T) {
	tr := NewTrie()
	require.NoError(t, tr.Insert("cat"))
	require.NoError(t, tr.Insert("cats"))
	require.NoError(t, tr.Insert("dog"))
	assert.Equal(t, 3, tr.Len())
	assert.Greater(t, tr.NodeCount(), 3)
}

func TestTrieInsertReservedRune(t *testing.T) {
	tr := NewTrie()
	err := tr.Insert("bad\x00word")
	require.ErrorIs(t, err, ErrReservedRune)
	assert.Equal(t, 0, tr.Len())

	// Nothing half-inserted: the word is rejected before the walk starts.
	matches, err := tr.FuzzyAll("bad", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestTrieInsertIdempotent(t *testing.T) {
	tr := NewTrie()
	require.NoError(t, tr.Insert("cat"))
	nodes := tr.NodeCount()
	require.NoError(t, tr.Insert("cat"))
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, nodes, tr.NodeCount())

	matches, err := tr.FuzzyAll("cat", 1)
	require.NoError(t, err)
	assert.Equal(t, []Match{{Word: "cat", Distance: 0}}, matches)
}

func TestTrieInsertEmptyWord(t *testing.T) {
	tr := NewTrie()
	require.NoError(t, tr.Insert(""))
	assert.Equal(t, 1, tr.Len())

	matches, err := tr.FuzzyAll("", 0)
	require.NoError(t, err)
	assert.Equal(t, []Match{{Word: "", Distance: 0}}, matches)
}

func TestTrieDump(t *testing.T) {
	tr := NewTrie()
	for _, w := range []string{"cat", "cats", "dog"} {
		require.NoError(t, tr.Insert(w))
	}
	var sb strings.Builder
	tr.Dump(&sb)
	want := "/\n" +
		" cat/\n" +
		"  cat\n" +
		"  cats\n" +
		" dog\n"
	assert.Equal(t, want, sb.String())
}
