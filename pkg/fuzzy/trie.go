// Package fuzzy is the core engine: a character trie over an arena of nodes,
// a bounded edit-distance walk across it, and the forward/backward index that
// splits a query in half to keep early branching cheap.
package fuzzy

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// terminator marks end-of-word inside the trie. It is reserved: it must never
// appear inside a stored word, otherwise an embedded marker would alias a
// real one and lookups become undefined.
const terminator = rune(0)

// ErrReservedRune is returned by Insert when a word contains the reserved
// end-of-word marker.
var ErrReservedRune = errors.New("fuzzy: word contains reserved terminator rune")

// VisitFunc receives each matched word with its edit distance. Returning a
// non-nil error stops the walk; ErrStopWalk stops it cleanly.
type VisitFunc func(word string, dist int) error

// Trie is a character trie stored as a node pool. The root is node 0; a
// stored word is its rune path followed by a terminator edge, so no word can
// be mistaken for a prefix of another.
type Trie struct {
	nodes []trieNode
	words int
}

type trieNode struct {
	children map[rune]int32
}

// edge pairs an outgoing symbol with its child node index.
type edge struct {
	c     rune
	child int32
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{nodes: []trieNode{{children: make(map[rune]int32)}}}
}

// Insert stores word in the trie. Re-inserting an existing word is a no-op;
// a word containing the reserved terminator rune is rejected.
func (t *Trie) Insert(word string) error {
	if strings.ContainsRune(word, terminator) {
		return fmt.Errorf("%w: %q", ErrReservedRune, word)
	}
	cur := int32(0)
	for _, c := range word + string(terminator) {
		next, ok := t.nodes[cur].children[c]
		if !ok {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, trieNode{children: make(map[rune]int32)})
			t.nodes[cur].children[c] = next
			if c == terminator {
				t.words++
			}
		}
		cur = next
	}
	return nil
}

// Len reports the number of distinct stored words.
func (t *Trie) Len() int {
	return t.words
}

// NodeCount reports the size of the node pool, root included.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}

// edges lists the outgoing edges of a node, by rune when sorted is set.
func (t *Trie) edges(node int32, sorted bool) []edge {
	m := t.nodes[node].children
	es := make([]edge, 0, len(m))
	for c, child := range m {
		es = append(es, edge{c, child})
	}
	if sorted {
		sort.Slice(es, func(i, j int) bool { return es[i].c < es[j].c })
	}
	return es
}

// enumerate reports every terminated word below node at the fixed distance d
// the caller has already committed to.
func (t *Trie) enumerate(node int32, prefix []rune, d int, visit VisitFunc) error {
	for c, child := range t.nodes[node].children {
		if c == terminator {
			if err := visit(string(prefix), d); err != nil {
				return err
			}
			continue
		}
		if err := t.enumerate(child, append(prefix, c), d, visit); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes a structural sketch of the trie for debugging: shared prefixes
// are printed once with a trailing slash, complete words on their own lines
// beneath, one indent level per branch point.
func (t *Trie) Dump(w io.Writer) {
	t.dump(w, 0, "", "")
}

func (t *Trie) dump(w io.Writer, node int32, sofar, indent string) {
	es := t.edges(node, true)
	if len(es) > 1 {
		fmt.Fprintf(w, "%s%s/\n", indent, sofar)
		indent += " "
	}
	for _, e := range es {
		if e.c == terminator {
			fmt.Fprintf(w, "%s%s\n", indent, sofar)
			continue
		}
		t.dump(w, e.child, sofar+string(e.c), indent)
	}
}
