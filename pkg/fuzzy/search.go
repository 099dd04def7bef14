package fuzzy

import "errors"

// ErrStopWalk stops a fuzzy walk early from inside a visitor. The search
// treats it as clean cancellation and returns nil; no further trie nodes are
// visited once it is returned.
var ErrStopWalk = errors.New("fuzzy: stop walk")

// BudgetFunc returns the distance budget in effect at a trie depth. Depth 1
// is the first edge taken from the root.
type BudgetFunc func(depth int) int

// ConstantBudget allows k edits at every depth.
func ConstantBudget(k int) BudgetFunc {
	return func(int) int { return k }
}

// Fuzzy reports every stored word within Levenshtein distance k of query.
// Each word is reported once, with its exact distance.
func (t *Trie) Fuzzy(query string, k int, visit VisitFunc) error {
	return t.FuzzyBudget(query, k, nil, false, visit)
}

// FuzzyPrefix is the completion variant: once the walk has consumed the whole
// query within budget, every stored word below that point is reported at the
// distance committed there, instead of requiring a whole-word match.
func (t *Trie) FuzzyPrefix(query string, k int, visit VisitFunc) error {
	return t.FuzzyBudget(query, k, nil, true, visit)
}

// FuzzyBudget runs the bounded walk with an explicit budget strategy. k sizes
// the table and must be the largest value budget can return; a nil budget
// means a constant k.
func (t *Trie) FuzzyBudget(query string, k int, budget BudgetFunc, prefixMode bool, visit VisitFunc) error {
	if k < 0 {
		k = 0
	}
	if budget == nil {
		budget = ConstantBudget(k)
	}
	q := []rune(query)
	w := &walker{
		trie:   t,
		query:  q,
		tab:    newTable(len(q), k),
		budget: budget,
		prefix: prefixMode,
		visit:  visit,
	}
	err := w.walk(0, 1, nil)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

// walker holds one query's state: the shared DP scratch table, the budget
// strategy and the visitor. Not safe for concurrent use; FuzzyBudget builds a
// fresh one per call.
type walker struct {
	trie   *Trie
	query  []rune
	tab    [][]int
	budget BudgetFunc
	prefix bool
	visit  VisitFunc
}

// newTable allocates the (n+k+1) x (n+1) Levenshtein table with base row
// tab[0][j] = j.
func newTable(n, k int) [][]int {
	tab := make([][]int, n+k+1)
	cells := make([]int, (n+k+1)*(n+1))
	for i := range tab {
		tab[i] = cells[i*(n+1) : (i+1)*(n+1)]
	}
	for j := 0; j <= n; j++ {
		tab[0][j] = j
	}
	return tab
}

// fillRow computes table row i from row i-1 for edge symbol c: substitution
// from the diagonal, insertion from above, deletion from the left.
func fillRow(tab [][]int, query []rune, i int, c rune) {
	row, prev := tab[i], tab[i-1]
	row[0] = i
	for j := 1; j <= len(query); j++ {
		cost := 1
		if c == query[j-1] {
			cost = 0
		}
		row[j] = min(prev[j-1]+cost, prev[j]+1, row[j-1]+1)
	}
}

func minRow(row []int) int {
	m := row[0]
	for _, v := range row[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// walk advances one trie edge at a time. Row i of the table always describes
// the candidate path of length i; rows are rewritten before every descent, so
// backtracking needs no cleanup. Terminator edges are checked even at the
// final depth n+k+1 (their distance sits in the already-filled row above);
// only the DP descent itself is cut off at table capacity.
func (w *walker) walk(node int32, i int, sofar []rune) error {
	k := w.budget(i)
	n := len(w.query)

	if w.prefix && i > n {
		if d := w.tab[i-1][n]; d <= k {
			return w.trie.enumerate(node, sofar, d, w.visit)
		}
		return nil
	}

	for c, child := range w.trie.nodes[node].children {
		if c == terminator {
			if d := w.tab[i-1][n]; d <= k {
				if err := w.visit(string(sofar), d); err != nil {
					return err
				}
			}
			continue
		}
		// No candidate longer than n+k runes can land within budget.
		if i >= len(w.tab) {
			continue
		}
		fillRow(w.tab, w.query, i, c)
		if minRow(w.tab[i]) <= k {
			if err := w.walk(child, i+1, append(sofar, c)); err != nil {
				return err
			}
		}
	}
	return nil
}
