package fuzzy

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// levenshtein is the full-table reference implementation the walk is checked
// against.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	row := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		row[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			row[j] = min(prev[j-1]+cost, prev[j]+1, row[j-1]+1)
		}
		prev, row = row, prev
	}
	return prev[len(br)]
}

// bruteMatches computes the expected result set directly from the word list.
func bruteMatches(words []string, query string, k int) map[string]int {
	want := make(map[string]int)
	for _, w := range words {
		if d := levenshtein(w, query); d <= k {
			want[w] = d
		}
	}
	return want
}

// allWords enumerates every string over alphabet up to maxLen runes.
func allWords(alphabet string, maxLen int) []string {
	words := []string{""}
	for l := 0; l < maxLen; l++ {
		var next []string
		for _, w := range words[len(words)-pow(len(alphabet), l):] {
			for _, c := range alphabet {
				next = append(next, w+string(c))
			}
		}
		words = append(words, next...)
	}
	return words
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

func asMap(t *testing.T, matches []Match) map[string]int {
	t.Helper()
	m := make(map[string]int, len(matches))
	for _, hit := range matches {
		_, dup := m[hit.Word]
		require.False(t, dup, "word %q reported twice", hit.Word)
		m[hit.Word] = hit.Distance
	}
	return m
}

func buildTrie(t *testing.T, words []string) *Trie {
	t.Helper()
	tr := NewTrie()
	for _, w := range words {
		require.NoError(t, tr.Insert(w))
	}
	return tr
}

func TestFuzzyKittenSitting(t *testing.T) {
	tr := buildTrie(t, []string{"kitten"})

	matches, err := tr.FuzzyAll("sitting", 3)
	require.NoError(t, err)
	assert.Equal(t, []Match{{Word: "kitten", Distance: 3}}, matches)

	matches, err = tr.FuzzyAll("sitting", 2)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFuzzyNeighborhood(t *testing.T) {
	tr := buildTrie(t, []string{"cat", "cats", "bat", "rat"})
	matches, err := tr.FuzzyAll("cat", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cat": 0, "cats": 1, "bat": 1, "rat": 1}, asMap(t, matches))
}

func TestFuzzyExactMatchOnly(t *testing.T) {
	tr := buildTrie(t, []string{"cat", "cats", "bat"})

	matches, err := tr.FuzzyAll("cat", 0)
	require.NoError(t, err)
	assert.Equal(t, []Match{{Word: "cat", Distance: 0}}, matches)

	matches, err = tr.FuzzyAll("dog", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFuzzyEmptyQuery(t *testing.T) {
	tr := buildTrie(t, []string{"", "a", "ab", "abc"})

	matches, err := tr.FuzzyAll("", 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"": 0, "a": 1}, asMap(t, matches))

	matches, err = tr.FuzzyAll("", 2)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"": 0, "a": 1, "ab": 2}, asMap(t, matches))
}

func TestFuzzyTableBoundary(t *testing.T) {
	// Words of length n+k sit exactly at table capacity and must still be
	// accepted; anything longer is cut off without descending out of range.
	tr := buildTrie(t, []string{
		"a",
		strings.Repeat("a", 11),
		strings.Repeat("a", 12),
		strings.Repeat("a", 20),
	})
	matches, err := tr.FuzzyAll(strings.Repeat("a", 10), 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{strings.Repeat("a", 11): 1}, asMap(t, matches))
}

func TestFuzzyBruteForce(t *testing.T) {
	words := allWords("abc", 4)
	rng := rand.New(rand.NewSource(1))
	queries := []string{"", "a", "ab", "abc", "cba", "abca", "aabb", "ccc", "bcab"}

	for trial := 0; trial < 20; trial++ {
		dict := make([]string, 0, 40)
		seen := make(map[string]bool)
		for len(dict) < 40 {
			w := words[rng.Intn(len(words))]
			if !seen[w] {
				seen[w] = true
				dict = append(dict, w)
			}
		}
		tr := buildTrie(t, dict)
		for _, q := range queries {
			for k := 0; k <= 3; k++ {
				matches, err := tr.FuzzyAll(q, k)
				require.NoError(t, err)
				assert.Equal(t, bruteMatches(dict, q, k), asMap(t, matches),
					"query %q k=%d dict %v", q, k, dict)
			}
		}
	}
}

func TestFuzzyMonotonicity(t *testing.T) {
	dict := []string{"cat", "cats", "bat", "rat", "catalog", "dog", "cart", "scatter"}
	tr := buildTrie(t, dict)

	var prev map[string]int
	for k := 0; k <= 4; k++ {
		matches, err := tr.FuzzyAll("cat", k)
		require.NoError(t, err)
		cur := asMap(t, matches)
		for w, d := range prev {
			got, ok := cur[w]
			require.True(t, ok, "word %q lost when budget grew to %d", w, k)
			assert.Equal(t, d, got, "distance for %q changed with budget", w)
		}
		prev = cur
	}
}

func TestFuzzySelfDistance(t *testing.T) {
	dict := []string{"alpha", "beta", "gamma", "delta"}
	tr := buildTrie(t, dict)
	for _, w := range dict {
		matches, err := tr.FuzzyAll(w, 0)
		require.NoError(t, err)
		assert.Equal(t, []Match{{Word: w, Distance: 0}}, matches)
	}
}

func TestFuzzyPrefixMode(t *testing.T) {
	tr := buildTrie(t, []string{"ca", "car", "cart", "carton", "dog"})

	t.Run("exact prefix enumerates completions", func(t *testing.T) {
		var got []Match
		require.NoError(t, tr.FuzzyPrefix("car", 0, collector(&got)))
		assert.Equal(t, map[string]int{"car": 0, "cart": 0, "carton": 0}, asMap(t, got))
	})

	t.Run("approximate prefix carries its distance", func(t *testing.T) {
		var got []Match
		require.NoError(t, tr.FuzzyPrefix("caq", 1, collector(&got)))
		assert.Equal(t, map[string]int{"ca": 1, "car": 1, "cart": 1, "carton": 1}, asMap(t, got))
	})

	t.Run("shorter words still match whole-word", func(t *testing.T) {
		var got []Match
		require.NoError(t, tr.FuzzyPrefix("cart", 1, collector(&got)))
		m := asMap(t, got)
		assert.Equal(t, 1, m["car"])
		assert.Equal(t, 0, m["cart"])
		assert.Equal(t, 0, m["carton"])
	})
}

func TestFuzzyStopWalk(t *testing.T) {
	tr := buildTrie(t, allWords("ab", 4))

	count := 0
	err := tr.Fuzzy("ab", 2, func(string, int) error {
		count++
		return ErrStopWalk
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "no hits may be produced after the visitor stops")
}

func TestFuzzyVisitorErrorPropagates(t *testing.T) {
	tr := buildTrie(t, []string{"cat", "cats"})
	boom := errors.New("boom")
	err := tr.Fuzzy("cat", 1, func(string, int) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestFuzzyBudgetDepthDependent(t *testing.T) {
	tr := buildTrie(t, []string{"aa", "aaaa"})

	// Budget 0 at shallow depths, 2 below: deep words get the relaxed
	// budget, shallow ones are held to the strict one. The terminator for
	// "aa" is reached at depth 3 and so sees the strict budget.
	budget := func(depth int) int {
		if depth <= 3 {
			return 0
		}
		return 2
	}
	var got []Match
	require.NoError(t, tr.FuzzyBudget("aaa", 2, budget, false, collector(&got)))
	m := asMap(t, got)
	assert.NotContains(t, m, "aa")
	assert.Equal(t, 1, m["aaaa"])
}

func TestSortAndDedupe(t *testing.T) {
	in := []Match{{"cats", 1}, {"cat", 0}, {"bat", 1}, {"cats", 2}, {"bat", 1}}
	out := Dedupe(in)
	assert.Equal(t, []Match{{"cats", 1}, {"cat", 0}, {"bat", 1}}, out)

	SortMatches(out)
	assert.Equal(t, []Match{{"cat", 0}, {"bat", 1}, {"cats", 1}}, out)
}

func BenchmarkFuzzy(b *testing.B) {
	tr := NewTrie()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		w := make([]byte, 3+rng.Intn(8))
		for j := range w {
			w[j] = byte('a' + rng.Intn(26))
		}
		if err := tr.Insert(string(w)); err != nil {
			b.Fatal(err)
		}
	}
	queries := []string{"table", "search", "random", "qwerty", "zzz"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.Fuzzy(queries[i%len(queries)], 2, func(string, int) error { return nil })
	}
}

func ExampleTrie_Fuzzy() {
	tr := NewTrie()
	for _, w := range []string{"cat", "cats", "bat", "rat"} {
		if err := tr.Insert(w); err != nil {
			panic(err)
		}
	}
	matches, _ := tr.FuzzyAll("cat", 1)
	SortMatches(matches)
	for _, m := range matches {
		fmt.Println(m.Distance, m.Word)
	}
	// Output:
	// 0 cat
	// 1 bat
	// 1 cats
	// 1 rat
}
