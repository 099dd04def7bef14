// Package dictionary reads word lists into a fuzzy search index. It keeps a
// patricia trie of accepted words alongside the index for exact-membership
// checks and prefix completions without a distance walk.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/bastiangx/levserve/pkg/fuzzy"
)

// Options control how raw words are cleaned up before indexing.
type Options struct {
	// Lowercase folds every word before insertion.
	Lowercase bool
	// Normalize strips combining marks (NFD, drop Mn, NFC), so "café"
	// indexes as "cafe".
	Normalize bool
	// MaxWordLen drops words longer than this many runes; 0 means no cap.
	MaxWordLen int
}

// Stats summarizes one load.
type Stats struct {
	Accepted   int
	Skipped    int
	MaxWordLen int
}

// Loader feeds words into an index, one per input line.
type Loader struct {
	index fuzzy.Index
	words *patricia.Trie
	opts  Options
	stats Stats
}

// NewLoader wraps index with the given cleanup options.
func NewLoader(index fuzzy.Index, opts Options) *Loader {
	return &Loader{
		index: index,
		words: patricia.NewTrie(),
		opts:  opts,
	}
}

// stripMarks removes combining marks after canonical decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// clean applies the configured transforms. It reports ok=false when the word
// should be skipped instead of indexed.
func (l *Loader) clean(word string) (string, bool) {
	if l.opts.Normalize {
		out, _, err := transform.String(stripMarks, word)
		if err != nil {
			log.Warnf("Normalization failed for %q: %v", word, err)
			return "", false
		}
		word = out
	}
	if l.opts.Lowercase {
		word = strings.ToLower(word)
	}
	if word == "" {
		return "", false
	}
	if l.opts.MaxWordLen > 0 && runeLen(word) > l.opts.MaxWordLen {
		return "", false
	}
	return word, true
}

// Add cleans and indexes a single word. Duplicates and skipped words are not
// errors; only an index failure is.
func (l *Loader) Add(word string) error {
	word, ok := l.clean(word)
	if !ok {
		l.stats.Skipped++
		return nil
	}
	if !l.words.Insert(patricia.Prefix(word), struct{}{}) {
		l.stats.Skipped++
		return nil
	}
	if err := l.index.Insert(word); err != nil {
		l.words.Delete(patricia.Prefix(word))
		l.stats.Skipped++
		return fmt.Errorf("index %q: %w", word, err)
	}
	l.stats.Accepted++
	if n := runeLen(word); n > l.stats.MaxWordLen {
		l.stats.MaxWordLen = n
	}
	return nil
}

// Load reads one word per line from r until EOF. Blank lines are skipped and
// unindexable words are logged and counted, not fatal.
func (l *Loader) Load(r io.Reader) (Stats, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		word := scanner.Text()
		if word == "" {
			continue
		}
		if err := l.Add(word); err != nil {
			log.Warnf("Skipping word: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return l.stats, fmt.Errorf("read dictionary: %w", err)
	}
	log.Debugf("Dictionary loaded: %d words accepted, %d skipped", l.stats.Accepted, l.stats.Skipped)
	return l.stats, nil
}

// LoadFile loads the dictionary at path.
func (l *Loader) LoadFile(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return l.stats, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Index returns the underlying fuzzy index.
func (l *Loader) Index() fuzzy.Index { return l.index }

// Stats returns the running load statistics.
func (l *Loader) Stats() Stats { return l.stats }

// Contains reports whether word was accepted into the dictionary. The lookup
// is exact: it sees words after cleanup, not raw input.
func (l *Loader) Contains(word string) bool {
	return l.words.Match(patricia.Prefix(word))
}

// Completions lists up to limit stored words beginning with prefix, in the
// patricia trie's lexicographic-ish visit order.
func (l *Loader) Completions(prefix string, limit int) []string {
	var out []string
	stop := errors.New("limit reached")
	err := l.words.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		if limit > 0 && len(out) >= limit {
			return stop
		}
		return nil
	})
	if err != nil && err != stop {
		log.Warnf("Completion walk aborted: %v", err)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
