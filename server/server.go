package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"word_etymology/etymology"
	"word_etymology/history"
	"word_etymology/render"
)

//go:embed web/dist
var embeddedStatic embed.FS

const maxBodyBytes = 64 << 10

// HistoryStore is the part of history.Store the server needs.
type HistoryStore interface {
	Record(ctx context.Context, question string, answer etymology.Record) error
	List(ctx context.Context) ([]history.Entry, error)
	Clear(ctx context.Context) error
}

type Server struct {
	agent    *etymology.Agent
	provider string
	history  HistoryStore
	timeout  time.Duration
	logger   *zap.Logger
	staticFS http.Handler
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Provider string
	// History may be nil, which disables the /api/history routes.
	History HistoryStore
	// Timeout bounds a whole /api/chat request; zero means 60s.
	Timeout time.Duration
	Logger  *zap.Logger
}

func New(agent *etymology.Agent, opts Options) (*Server, error) {
	if agent == nil {
		return nil, errors.New("etymology agent required")
	}

	sub, err := fs.Sub(embeddedStatic, "web/dist")
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Server{
		agent:    agent,
		provider: opts.Provider,
		history:  opts.History,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		staticFS: http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/export", s.handleHistoryExport)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/", s.staticHandler())
	return logMiddleware(s.logger, mux)
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type chatReq struct {
	Message json.RawMessage `json:"message"`
}

// messageText returns the message as text. Non-string JSON values are looked
// up by their literal form (5 -> "5"); absent or null reports false.
func (r chatReq) messageText() (string, bool) {
	raw := bytes.TrimSpace(r.Message)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), true
	}
	return buf.String(), true
}

// Error kinds reported in the X-Error-Kind header; the body shape never changes.
const (
	kindBadRequest = "bad_request"
	kindUpstream   = "upstream"
	kindTimeout    = "timeout"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req chatReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.logger.Warn("invalid chat request body", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kindBadRequest, err.Error())
		return
	}
	message, ok := req.messageText()
	if !ok {
		writeError(w, http.StatusBadRequest, kindBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	ans, err := s.agent.Lookup(ctx, message)
	if err != nil {
		kind := kindUpstream
		if errors.Is(err, context.DeadlineExceeded) {
			kind = kindTimeout
		}
		s.logger.Error("lookup failed", zap.String("message", message), zap.Error(err))
		writeError(w, http.StatusInternalServerError, kind, err.Error())
		return
	}

	if ans.Correction.WasCorrected {
		w.Header().Set("X-Corrected-Term", ans.Correction.Corrected)
	}
	if ans.Degraded {
		w.Header().Set("X-Lookup-Degraded", "parse_error")
	}
	s.remember(r.Context(), message, ans.Record)
	writeJSON(w, http.StatusOK, ans.Record)
}

// remember records a successful lookup; failures only get logged.
func (s *Server) remember(ctx context.Context, question string, rec etymology.Record) {
	if s.history == nil || strings.TrimSpace(question) == "" {
		return
	}
	if err := s.history.Record(context.WithoutCancel(ctx), question, rec); err != nil {
		s.logger.Warn("record history failed", zap.String("question", question), zap.Error(err))
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		entries, err := s.history.List(r.Context())
		if err != nil {
			s.logger.Error("list history failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	case http.MethodDelete:
		if err := s.history.Clear(r.Context()); err != nil {
			s.logger.Error("clear history failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries, err := s.history.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := render.HTML(render.HistoryMarkdown(entries))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(render.Page("Lookup history", body)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "provider": s.provider})
}

// --- Helpers ---

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("X-Error-Kind", kind)
	writeJSON(w, status, etymology.ErrorRecord(msg))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
