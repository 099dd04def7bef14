package fuzzy

import "sort"

// Match is one fuzzy search hit.
type Match struct {
	Word     string
	Distance int
}

// collector returns a VisitFunc that appends every hit to *dst.
func collector(dst *[]Match) VisitFunc {
	return func(word string, dist int) error {
		*dst = append(*dst, Match{Word: word, Distance: dist})
		return nil
	}
}

// FuzzyAll collects every match for query within distance k.
func (t *Trie) FuzzyAll(query string, k int) ([]Match, error) {
	var out []Match
	err := t.Fuzzy(query, k, collector(&out))
	return out, err
}

// FuzzyAll collects every match for query within distance k. The slice may
// contain a word twice when both passes reach it; see Dedupe.
func (x *FBIndex) FuzzyAll(query string, k int) ([]Match, error) {
	var out []Match
	err := x.Fuzzy(query, k, collector(&out))
	return out, err
}

// Dedupe collapses duplicate words, keeping the smallest distance reported
// for each. First-appearance order is preserved.
func Dedupe(matches []Match) []Match {
	at := make(map[string]int, len(matches))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if i, ok := at[m.Word]; ok {
			if m.Distance < out[i].Distance {
				out[i].Distance = m.Distance
			}
			continue
		}
		at[m.Word] = len(out)
		out = append(out, m)
	}
	return out
}

// SortMatches orders matches by distance, then word, for display.
func SortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Word < matches[j].Word
	})
}
