package fuzzy

import (
	"errors"
	"io"
)

// FBIndex pairs a forward trie with a trie of reversed words. A query is
// split at its midpoint and each half is matched first in the orientation
// that makes it the cheaply-pruned early stage of the walk (Boytsov 2011):
// the forward pass constrains the first half, the backward pass the second.
type FBIndex struct {
	fwd *Trie
	bwd *Trie
}

// NewFBIndex returns an empty forward/backward index.
func NewFBIndex() *FBIndex {
	return &FBIndex{fwd: NewTrie(), bwd: NewTrie()}
}

// Insert stores word in the forward trie and its reversal in the backward
// trie. Both tries see every word; neither shares structure with the other.
func (x *FBIndex) Insert(word string) error {
	if err := x.fwd.Insert(word); err != nil {
		return err
	}
	return x.bwd.Insert(Reverse(word))
}

// Len reports the number of distinct stored words.
func (x *FBIndex) Len() int {
	return x.fwd.Len()
}

// Forward exposes the forward trie for diagnostics.
func (x *FBIndex) Forward() *Trie { return x.fwd }

// Backward exposes the reversed-word trie for diagnostics.
func (x *FBIndex) Backward() *Trie { return x.bwd }

// Dump writes both tries' structure sketches.
func (x *FBIndex) Dump(w io.Writer) {
	x.fwd.Dump(w)
	x.bwd.Dump(w)
}

// Fuzzy reports every stored word within Levenshtein distance k of query.
// Distances are always exact, but a word may be reported by both passes;
// dedupe with Dedupe when multiplicity matters.
//
// The sub-budgets are k1 = (k-1)/2 for the forward pass and k2 = k/2 for the
// backward one, one pass each. Boytsov's analysis prescribes ceil(k/2)
// forward and floor(k/2)+1 backward sub-queries; a single pass per side with
// these budgets already yields exact results (see the equivalence tests), so
// the extra passes are not performed.
func (x *FBIndex) Fuzzy(query string, k int, visit VisitFunc) error {
	if k < 0 {
		k = 0
	}
	q := []rune(query)
	n := len(q)

	// An empty query has no halves to split; the decomposition degenerates
	// to a plain bounded walk.
	if n == 0 {
		return x.fwd.Fuzzy(query, k, visit)
	}
	half := n / 2

	k1 := (k - 1) / 2 // truncates to 0 for k <= 1
	fw := &fbWalker{trie: x.fwd, query: q, sub: half, subk: k1, k: k, visit: visit}
	if err := fw.run(); err != nil {
		if errors.Is(err, ErrStopWalk) {
			return nil
		}
		return err
	}

	// Backward pass: reversed query against the reversed-word trie, with the
	// (reversed) second half constrained; hits are re-reversed on the way out.
	k2 := k / 2
	bw := &fbWalker{trie: x.bwd, query: reverseRunes(q), sub: n - half, subk: k2, k: k,
		visit: func(word string, d int) error { return visit(Reverse(word), d) }}
	err := bw.run()
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

const (
	phaseConstrained = 1 // first half still under the reduced budget
	phaseRelaxed     = 2 // first half satisfied, full budget applies
)

// fbWalker is the two-phase variant of walker. While constrained, descent is
// gated on the table cell at the sub-query column staying within the reduced
// budget; once that holds the remaining walk runs under the full budget.
// Edges are taken in rune order so both passes enumerate deterministically.
type fbWalker struct {
	trie  *Trie
	query []rune
	tab   [][]int
	sub   int // length of the constrained half
	subk  int // reduced budget while constrained
	k     int // full budget
	visit VisitFunc
}

func (w *fbWalker) run() error {
	w.tab = newTable(len(w.query), w.k)
	// The gate holds vacuously at depth 0 when the constrained half fits its
	// budget outright (tab[0][sub] = sub); start relaxed then, which matters
	// for one-rune queries whose first half is empty.
	phase := phaseConstrained
	if w.sub <= w.subk {
		phase = phaseRelaxed
	}
	return w.walk(0, 1, nil, phase)
}

func (w *fbWalker) walk(node int32, i int, sofar []rune, phase int) error {
	n := len(w.query)
	limit := w.subk
	if phase == phaseRelaxed {
		limit = w.k
	}
	for _, e := range w.trie.edges(node, true) {
		if e.c == terminator {
			// Whole-word acceptance always runs against the full budget.
			if d := w.tab[i-1][n]; d <= w.k {
				if err := w.visit(string(sofar), d); err != nil {
					return err
				}
			}
			continue
		}
		if i >= len(w.tab) {
			continue
		}
		fillRow(w.tab, w.query, i, e.c)
		if phase == phaseConstrained && w.tab[i][w.sub] <= w.subk {
			if err := w.walk(e.child, i+1, append(sofar, e.c), phaseRelaxed); err != nil {
				return err
			}
			continue
		}
		if minRow(w.tab[i]) <= limit {
			if err := w.walk(e.child, i+1, append(sofar, e.c), phase); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	return string(reverseRunes([]rune(s)))
}

func reverseRunes(q []rune) []rune {
	r := make([]rune, len(q))
	for i, c := range q {
		r[len(q)-1-i] = c
	}
	return r
}
