package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/nbcheck/pkg/runner"
)

//go:embed templates
var content embed.FS

// indexTmpl is parsed once, the template is embedded and can't change at runtime.
var indexTmpl = template.Must(template.ParseFS(content, "templates/index.html"))

// ServerConfig holds configuration for the web server.
type ServerConfig struct {
	Port    int    // port to listen on
	Suite   string // suite name shown in the page header
	BaseURL string // notebook server, token-free
	Driver  string // browser driver
}

// Server provides the HTTP server for the live dashboard.
type Server struct {
	cfg    ServerConfig
	stream *Stream
	srv    *http.Server
}

// NewServer creates a new web server for the given stream.
func NewServer(cfg ServerConfig, stream *Stream) *Server {
	s := &Server{cfg: cfg, stream: stream}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// sse connections are long-lived, close them when the http server shuts down
	s.srv.RegisterOnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stream.Shutdown(ctx); err != nil {
			log.Printf("[WARN] %v", err)
		}
	})
	return s
}

// Handler returns the server's http handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /events", s.stream)
	mux.HandleFunc("GET /api/events", s.handleHistory)
	return mux
}

// Start listens on the configured port and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("http server: %w", err)
}

// templateData holds data for the dashboard template.
type templateData struct {
	Suite   string
	BaseURL string
	Driver  string
}

// handleIndex serves the main dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := templateData{Suite: s.cfg.Suite, BaseURL: s.cfg.BaseURL, Driver: s.cfg.Driver}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("[WARN] render index: %v", err)
	}
}

// handleHistory serves buffered events as a JSON array.
// ?phase=<phase>, ?since=<id> and ?scenario=<n> narrow the result and can be combined.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{Phase: runner.Phase(q.Get("phase"))}
	if v := q.Get("since"); v != "" {
		since, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		f.Since = since
	}
	if v := q.Get("scenario"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid scenario", http.StatusBadRequest)
			return
		}
		f.Scenario = n
	}

	events := s.stream.Buffer().Query(f)
	if events == nil {
		events = []Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		log.Printf("[WARN] encode events: %v", err)
	}
}
