// Package http exposes the USSD gateway endpoint. Gateways POST the
// cumulative conversation as form fields and render whatever plain
// text comes back, so the surface is deliberately tiny: one dialog
// route plus health and metrics.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tumaini/bizmanager/internal/logging"
)

// Dialoger advances a conversation by one step. Implemented by the
// service pipeline.
type Dialoger interface {
	Handle(ctx context.Context, sessionID, phone, text string) (body string, failed bool)
}

// Server is the gateway-facing HTTP server.
type Server struct {
	dialog   Dialoger
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	srv      *http.Server
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetricsGatherer exposes the given registry at /metrics.
func WithMetricsGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewServer builds the server on the given listen address.
func NewServer(addr string, dialog Dialoger, opts ...Option) *Server {
	s := &Server{
		dialog: dialog,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/ussd", s.handleUSSD)
	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe runs the server until it fails or is shut down.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// handleUSSD decodes the gateway's form post and replies in plain
// text. Dialog-level outcomes, END messages included, are 200s; only
// an internal fault is a 500, and even then the body is a well-formed
// END so the handset shows something sensible.
func (s *Server) handleUSSD(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "END Invalid request.", http.StatusBadRequest)
		return
	}

	sessionID := r.PostFormValue("sessionId")
	phone := r.PostFormValue("phoneNumber")
	text := r.PostFormValue("text")
	if sessionID == "" || phone == "" {
		http.Error(w, "END Invalid request.", http.StatusBadRequest)
		return
	}

	body, failed := s.dialog.Handle(r.Context(), sessionID, phone, text)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if failed {
		w.WriteHeader(http.StatusInternalServerError)
	}
	w.Write([]byte(body))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
