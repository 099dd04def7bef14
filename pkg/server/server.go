package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/levserve/internal/logger"
	"github.com/bastiangx/levserve/internal/utils"
	"github.com/bastiangx/levserve/pkg/config"
	"github.com/bastiangx/levserve/pkg/fuzzy"
)

// prefixSearcher is implemented by indexes that can complete below an
// approximate prefix. The plain trie supports it, the split index does not.
type prefixSearcher interface {
	FuzzyPrefix(query string, k int, visit fuzzy.VisitFunc) error
}

// Server handles the IPC for fuzzy queries
type Server struct {
	index fuzzy.Index
	kind  string
	cfg   *config.Config
	log   *log.Logger
	dec   *msgpack.Decoder
	enc   *msgpack.Encoder
}

// NewServer creates a query server using stdin/stdout for IPC
func NewServer(index fuzzy.Index, kind string, cfg *config.Config) *Server {
	return NewServerIO(index, kind, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a query server over explicit streams
func NewServerIO(index fuzzy.Index, kind string, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		index: index,
		kind:  kind,
		cfg:   cfg,
		log:   logger.New("ipc"),
		dec:   msgpack.NewDecoder(r),
		enc:   msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil on clean EOF.
func (s *Server) Start() error {
	s.log.Debug("Starting server.")

	s.send(map[string]string{"status": "ready"})

	for {
		var raw map[string]any
		if err := s.dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

// handleRequest dispatches one decoded message. Messages carrying an "action"
// field are index ops, everything else is a query.
func (s *Server) handleRequest(raw map[string]any) {
	if _, ok := raw["action"]; ok {
		var req IndexRequest
		if err := remarshal(raw, &req); err != nil {
			s.sendError(stringField(raw, "id"), "Invalid index request", 400)
			s.log.Errorf("Decoding index request: %v", err)
			return
		}
		s.handleIndex(req)
		return
	}

	var req QueryRequest
	if err := remarshal(raw, &req); err != nil {
		s.sendError(stringField(raw, "id"), "Invalid query request", 400)
		s.log.Errorf("Decoding query request: %v", err)
		return
	}
	s.handleQuery(req)
}

// handleQuery validates the request, runs the bounded walk and sends matches
// ordered by distance.
func (s *Server) handleQuery(req QueryRequest) {
	if req.Query == "" {
		s.sendError(req.ID, "Missing 'q' parameter", 400)
		s.log.Debug("Query is empty in request")
		return
	}
	if !utils.IsValidQuery(req.Query, s.cfg.Server.MinQuery, s.cfg.Server.MaxQuery) {
		s.sendError(req.ID, fmt.Sprintf("Query must be %d to %d characters without control runes",
			s.cfg.Server.MinQuery, s.cfg.Server.MaxQuery), 400)
		s.log.Debugf("Rejected query %q", req.Query)
		return
	}

	k := s.cfg.Search.DefaultDistance
	if req.K != nil {
		k = *req.K
	}
	if k < 0 {
		k = 0
	}
	if k > s.cfg.Server.MaxDistance {
		s.log.Debugf("Distance %d capped at %d", k, s.cfg.Server.MaxDistance)
		k = s.cfg.Server.MaxDistance
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.cfg.CLI.DefaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	var matches []fuzzy.Match
	var err error
	switch req.Mode {
	case "", "fuzzy":
		matches, err = s.index.FuzzyAll(req.Query, k)
	case "prefix":
		ps, ok := s.index.(prefixSearcher)
		if !ok {
			s.sendError(req.ID, fmt.Sprintf("Index %q does not support prefix mode", s.kind), 400)
			return
		}
		err = ps.FuzzyPrefix(req.Query, k, func(word string, dist int) error {
			matches = append(matches, fuzzy.Match{Word: word, Distance: dist})
			return nil
		})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown mode: %s", req.Mode), 400)
		return
	}
	if err != nil {
		s.sendError(req.ID, "Search failed", 500)
		s.log.Errorf("Query %q failed: %v", req.Query, err)
		return
	}
	elapsed := time.Since(start)

	matches = fuzzy.Dedupe(matches)
	if s.cfg.Search.SortResults {
		fuzzy.SortMatches(matches)
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	suggestions := make([]QuerySuggestion, len(matches))
	for i, m := range matches {
		suggestions[i] = QuerySuggestion{Word: m.Word, Distance: m.Distance}
	}
	s.send(QueryResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleIndex serves index management ops.
func (s *Server) handleIndex(req IndexRequest) {
	switch req.Action {
	case "get_info":
		s.send(IndexResponse{
			ID:     req.ID,
			Status: "ok",
			Words:  s.index.Len(),
			Kind:   s.kind,
		})
	default:
		s.send(IndexResponse{
			ID:     req.ID,
			Status: "error",
			Error:  fmt.Sprintf("Unknown action: %s", req.Action),
		})
	}
}

// send encodes one msgpack message onto the response stream.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(QueryError{ID: id, Error: message, Code: code})
}

// remarshal converts a loosely decoded message into its typed form.
func remarshal(raw map[string]any, dst any) error {
	data, err := msgpack.Marshal(raw)
	if err != nil {
		return err
	}
	return msgpack.Unmarshal(data, dst)
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
