// Package cli handles cmd line input and fuzzy lookups for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/levserve/internal/logger"
	"github.com/bastiangx/levserve/internal/utils"
	"github.com/bastiangx/levserve/pkg/fuzzy"
	"github.com/charmbracelet/log"
)

// InputHandler processes user input from stdin, running fuzzy queries against
// the loaded index. It accepts flags to control behavior such as minimum and
// maximum query length, result limits, and the default distance.
type InputHandler struct {
	index           fuzzy.Index
	log             *log.Logger
	minQueryLength  int
	maxQueryLength  int
	resultLimit     int
	defaultDistance int
	maxDistance     int
	sortResults     bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(index fuzzy.Index, minLength, maxLength, limit, defaultDistance, maxDistance int, sortResults bool) *InputHandler {
	return &InputHandler{
		index:           index,
		log:             logger.Default("cli"),
		minQueryLength:  minLength,
		maxQueryLength:  maxLength,
		resultLimit:     limit,
		defaultDistance: defaultDistance,
		maxDistance:     maxDistance,
		sortResults:     sortResults,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("LevServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a query, optionally followed by a distance, and press Enter (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes a single "query [k]" line. It validates the query,
// runs the bounded walk, then formats and prints the matches to the log.
func (h *InputHandler) handleInput(line string) {
	query := line
	k := h.defaultDistance
	if fields := strings.Fields(line); len(fields) == 2 {
		if parsed, err := strconv.Atoi(fields[1]); err == nil {
			query = fields[0]
			k = parsed
		}
	}
	if k < 0 {
		k = 0
	}
	if k > h.maxDistance {
		h.log.Warnf("Distance %d capped at %d", k, h.maxDistance)
		k = h.maxDistance
	}

	if utils.QueryLength(query) < h.minQueryLength {
		h.log.Errorf("Query too short: %s", query)
		return
	}
	if h.maxQueryLength > 0 && utils.QueryLength(query) > h.maxQueryLength {
		h.log.Errorf("Query too long: %s", query)
		return
	}
	if !utils.IsValidQuery(query, h.minQueryLength, h.maxQueryLength) {
		h.log.Warnf("No results for query: '%s'", query)
		return
	}

	start := time.Now()
	h.log.Debug("Processing request for", "query", query, "k", k)

	matches, err := h.index.FuzzyAll(query, k)
	if err != nil {
		h.log.Errorf("Search failed for '%s': %v", query, err)
		return
	}

	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	matches = fuzzy.Dedupe(matches)
	if h.sortResults {
		fuzzy.SortMatches(matches)
	}
	if h.resultLimit > 0 && len(matches) > h.resultLimit {
		matches = matches[:h.resultLimit]
	}

	if len(matches) == 0 {
		h.log.Warnf("No matches found for query: '%s'", query)
		return
	}

	h.log.Printf("Found %s matches for query '%s' (k=%d):",
		utils.FormatWithCommas(len(matches)), query, k)
	for i, m := range matches {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", m.Word)
		h.log.Printf("%2d. %-40s (dist: %d)", i+1, clWord, m.Distance)
	}
}
