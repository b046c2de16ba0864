// Package server exposes the processing pipeline over HTTP: a health probe,
// the full BookNLP contract endpoint and the lightweight tagging parser.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lbrandt/litnlp/core/parser"
	"github.com/lbrandt/litnlp/database"
	"github.com/lbrandt/litnlp/model"
)

// DefaultMaxTextLength caps request text size; the external tool's memory
// use grows with input length.
const DefaultMaxTextLength = 50000

// Config holds the HTTP server settings.
type Config struct {
	Addr          string
	MaxTextLength int
}

// ConfigFromEnv reads LITNLP_ADDR and LITNLP_MAX_TEXT_LENGTH with defaults.
func ConfigFromEnv() Config {
	config := Config{
		Addr:          ":8000",
		MaxTextLength: DefaultMaxTextLength,
	}
	if addr := os.Getenv("LITNLP_ADDR"); addr != "" {
		config.Addr = addr
	}
	if raw := os.Getenv("LITNLP_MAX_TEXT_LENGTH"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			config.MaxTextLength = n
		}
	}
	return config
}

// Processor produces a contract for one text. Implemented by booknlp.Runner.
type Processor interface {
	Process(ctx context.Context, text, documentID string) (*model.Contract, error)
}

// Server wires the processor, the parser and the optional contract store
// into HTTP handlers.
type Server struct {
	config    Config
	processor Processor
	parse     parser.ParseFunc
	store     database.ContractsDBHandlerFunctions
	log       *slog.Logger
}

// New creates a Server. store may be nil; built contracts are then not
// persisted.
func New(config Config, processor Processor, parse parser.ParseFunc, store database.ContractsDBHandlerFunctions, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxTextLength <= 0 {
		config.MaxTextLength = DefaultMaxTextLength
	}
	if parse == nil {
		parse = parser.BasicParser()
	}

	return &Server{
		config:    config,
		processor: processor,
		parse:     parse,
		store:     store,
		log:       logger,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /booknlp", s.handleBookNLP)
	mux.HandleFunc("POST /parse", s.handleParse)
	return mux
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("Listening", slog.String("addr", s.config.Addr))
	return httpServer.ListenAndServe()
}

type processRequest struct {
	Text       string `json:"text"`
	DocumentID string `json:"document_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBookNLP(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readTextRequest(w, r)
	if !ok {
		return
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = model.NewDocumentID()
	}

	doc, err := s.processor.Process(r.Context(), req.Text, documentID)
	if err != nil {
		s.log.Error("Processing failed", slog.String("document_id", documentID), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "booknlp processing failed")
		return
	}

	if s.store != nil {
		if err := s.store.InsertContract(model.NewStoredContract(doc)); err != nil {
			// The caller still gets the document; persistence failures are
			// recoverable by re-posting.
			s.log.Error("Storing contract failed", slog.String("document_id", documentID), slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readTextRequest(w, r)
	if !ok {
		return
	}

	result, err := s.parse(req.Text)
	if err != nil {
		s.log.Error("Parsing failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "parsing failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// readTextRequest decodes and validates the shared request shape. On
// failure the response is already written and ok is false.
func (s *Server) readTextRequest(w http.ResponseWriter, r *http.Request) (processRequest, bool) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return req, false
	}
	if len(req.Text) > s.config.MaxTextLength {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum length of %d characters", s.config.MaxTextLength))
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responds with the {"detail": ...} error shape.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
