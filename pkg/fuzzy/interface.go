package fuzzy

// Index is the query surface shared by Trie and FBIndex. The server and CLI
// layers accept either through it.
type Index interface {
	// Insert stores a word; it fails only on the reserved terminator rune.
	Insert(word string) error

	// Fuzzy streams every stored word within distance k of query.
	Fuzzy(query string, k int, visit VisitFunc) error

	// FuzzyAll collects the matches of Fuzzy into a slice.
	FuzzyAll(query string, k int) ([]Match, error)

	// Len reports the number of distinct stored words.
	Len() int
}

var (
	_ Index = (*Trie)(nil)
	_ Index = (*FBIndex)(nil)
)
