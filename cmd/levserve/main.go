// Copyright 2025 The LevServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements a fuzzy dictionary search server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

LevServe provides bounded edit-distance word search over character tries.
Queries walk the trie with an incrementally maintained Levenshtein table, so
only candidate paths still within the distance budget are explored. It can
operate as a MessagePack IPC server for integration with editors and spell
checkers, or as a CLI application for testing and debugging.

Two index layouts are available. The plain trie walks words front to back.
The fbtrie layout keeps a second trie of reversed words and splits each query
in half, matching the cheaper half first in both orientations; the halved
budget prunes far more aggressively at larger distances while reporting the
same words with the same exact distances.

# Usage

Start the server with default settings:

	levserve -dict /path/to/words.txt

Use the plain trie layout and enable debug mode:

	levserve -dict words.txt -index trie -d

Run in CLI mode for interactive testing:

	levserve -dict words.txt -c -limit 10

One-shot mode searches a dictionary read from stdin and exits:

	levserve catz 1 fbtrie < words.txt

The dictionary is a plain word list, one word per line. Matches are written
to stdout as distance-tab-word lines ordered by distance, and a RESULT
summary line goes to stderr.

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, search settings, and CLI defaults:

	[server]
	max_limit = 64
	max_distance = 8
	min_query = 1
	max_query = 60

	[search]
	default_distance = 2
	default_index = "fbtrie"
	sort_results = true

	[dict]
	lowercase = false
	normalize = false
	max_word_len = 64

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Queries are
processed synchronously with microsecond timing information included in
responses.

Send a fuzzy query:

	{"id": "req1", "q": "catz", "k": 1, "l": 20}

Receive matches with exact distances:

	{"id": "req1", "s": [{"w": "cat", "d": 1}, {"w": "cats", "d": 1}], "c": 2, "t": 145}

Index management requests report on the loaded word set:

	{"id": "idx1", "action": "get_info"}

# Server Mode

The default mode starts a MessagePack IPC server that processes queries from
stdin and writes responses to stdout. This design enables integration with
editors and other applications through process communication.

	srv := server.NewServer(index, kind, cfg)
	err := srv.Start()

The server handles request parsing, validation, and response formatting, with
distance and result caps taken from the loaded configuration.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
search. It reads "query [k]" lines from stdin and displays matches with their
distances.

	inputHandler := cli.NewInputHandler(index, minLen, maxLen, limit, defaultK, maxK, sorted)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Search Engine

The core functionality is provided by the fuzzy package, which implements the
trie walk and the forward/backward decomposition.

	index := fuzzy.NewFBIndex()
	index.Insert("word")
	matches, err := index.FuzzyAll("wrod", 2)

Matches carry exact Levenshtein distances; the fbtrie layout may report a
word from both of its passes, so results are deduplicated before display.

# Command Line Flags

The following flags control application behavior:

	-dict string
	    Path to a word list file, one word per line (stdin in one-shot mode)
	-index string
	    Index layout: "trie" or "fbtrie" (default from config)
	-config string
	    Path to a custom config.toml
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of matches to return (default from config)
	-qmin int
	    Minimum query length
	-qmax int
	    Maximum query length
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bastiangx/levserve/internal/cli"
	"github.com/bastiangx/levserve/pkg/config"
	"github.com/bastiangx/levserve/pkg/dictionary"
	"github.com/bastiangx/levserve/pkg/fuzzy"
	"github.com/bastiangx/levserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.2.0-beta"
	AppName = "levserve"
	gh      = "https://github.com/bastiangx/levserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// newIndex maps a layout name to an index. Unknown names warn and fall back
// to the plain trie.
func newIndex(kind string) (fuzzy.Index, string) {
	switch kind {
	case "trie":
		return fuzzy.NewTrie(), "trie"
	case "fbtrie":
		return fuzzy.NewFBIndex(), "fbtrie"
	default:
		log.Warnf("Unknown index type %q, using trie", kind)
		return fuzzy.NewTrie(), "trie"
	}
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dictPath := flag.String("dict", "", "Path to a word list, one word per line")
	indexKind := flag.String("index", "", "Index layout: trie or fbtrie")
	configPath := flag.String("config", "", "Path to a custom config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of matches to return")
	minQuery := flag.Int("qmin", defaultConfig.Server.MinQuery, "Minimum query length (1 < n <= qmax)")
	maxQuery := flag.Int("qmax", defaultConfig.Server.MaxQuery, "Maximum query length")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(os.Stderr)

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if activePath != "" {
		log.Debugf("Using config file: (%s)", activePath)
	}
	appConfig.Server.MinQuery = *minQuery
	appConfig.Server.MaxQuery = *maxQuery
	appConfig.CLI.DefaultLimit = *limit

	kind := appConfig.Search.DefaultIndex
	if *indexKind != "" {
		kind = *indexKind
	}

	// One-shot mode: levserve <query> <k> [trie|fbtrie]
	if flag.NArg() > 0 {
		runOnce(flag.Args(), *dictPath, appConfig)
		return
	}

	index, kind := newIndex(kind)
	loader := dictionary.NewLoader(index, dictionary.Options{
		Lowercase:  appConfig.Dict.Lowercase,
		Normalize:  appConfig.Dict.Normalize,
		MaxWordLen: appConfig.Dict.MaxWordLen,
	})

	if *dictPath != "" {
		stats, err := loader.LoadFile(*dictPath)
		if err != nil {
			log.Fatalf("Failed to load dictionary: %v", err)
		}
		log.Debugf("Dictionary ready: words=[%d], skipped=[%d]", stats.Accepted, stats.Skipped)
	} else {
		log.Warn("No dictionary specified, running with empty index...")
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minQuery", appConfig.Server.MinQuery,
			"maxQuery", appConfig.Server.MaxQuery,
			"limit", *limit,
			"index", kind)

		inputHandler := cli.NewInputHandler(index,
			appConfig.Server.MinQuery, appConfig.Server.MaxQuery, *limit,
			appConfig.CLI.DefaultDistance, appConfig.Server.MaxDistance,
			appConfig.Search.SortResults)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(index, kind, appConfig)

	showStartupInfo(kind, loader.Stats())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runOnce searches a dictionary read from stdin (or -dict) for a single query
// and exits. Matches go to stdout as distance-tab-word lines; a RESULT
// summary goes to stderr.
func runOnce(args []string, dictPath string, cfg *config.Config) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <query> <k> [trie|fbtrie]\n", AppName)
		os.Exit(1)
	}
	query := args[0]
	k, err := parseDistance(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: %s <query> <k> [trie|fbtrie]\n", AppName)
		os.Exit(1)
	}

	kind := "trie"
	if len(args) == 3 {
		kind = args[2]
	}
	index, kind := newIndex(kind)

	loader := dictionary.NewLoader(index, dictionary.Options{
		Lowercase:  cfg.Dict.Lowercase,
		Normalize:  cfg.Dict.Normalize,
		MaxWordLen: cfg.Dict.MaxWordLen,
	})

	var stats dictionary.Stats
	if dictPath != "" {
		stats, err = loader.LoadFile(dictPath)
	} else {
		fmt.Fprintln(os.Stderr, "Reading dictionary from stdin...")
		stats, err = loader.Load(os.Stdin)
	}
	if err != nil {
		log.Fatalf("Failed to load dictionary: %v", err)
	}

	start := time.Now()
	matches, err := index.FuzzyAll(query, k)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	elapsed := time.Since(start)

	matches = fuzzy.Dedupe(matches)
	fuzzy.SortMatches(matches)
	for _, m := range matches {
		fmt.Printf("%d\t%s\n", m.Distance, m.Word)
	}
	fmt.Fprintf(os.Stderr, "RESULT %s: %d matches for %q (k=%d) in %d words, %v\n",
		kind, len(matches), query, k, stats.Accepted, elapsed)
}

// parseDistance parses k, rejecting negatives and garbage.
func parseDistance(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if k < 0 {
		return 0, fmt.Errorf("negative distance %d", k)
	}
	return k, nil
}

// showVersionInfo prints the styled version banner.
func showVersionInfo() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["version"] = lipgloss.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ LevServe ] Serves really fast fuzzy word search!")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(kind string, stats dictionary.Stats) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" LevServe ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("index: ( %s )", kind)
	log.Infof("words: [ %d ]", stats.Accepted)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
