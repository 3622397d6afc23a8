package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-map-service/internal/dashboard"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/view"
)

// Dashboard is the state the server reads and the controls it drives.
type Dashboard interface {
	Snapshot() view.Snapshot
	Borders() (*domain.BorderSet, bool)
	SetWindow(ctx context.Context, w domain.Window) error
	SetMinMagnitude(ctx context.Context, raw string) error
	ToggleTheme() domain.Theme
}

// Server exposes the dashboard page, its JSON API, and the health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	page       *template.Template
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard and operational routes.
func NewServer(addr string, dash Dashboard, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Control requests wait for the refresh they trigger.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		page:   template.Must(template.New("page").Funcs(pageFuncs).Parse(pageTemplate)),
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/borders", s.handleBorders)
	mux.HandleFunc("POST /api/window", s.handleWindow)
	mux.HandleFunc("POST /api/min-magnitude", s.handleMinMagnitude)
	mux.HandleFunc("POST /api/theme", s.handleTheme)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, s.dash.Snapshot()); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

func (s *Server) handleBorders(w http.ResponseWriter, _ *http.Request) {
	set, ok := s.dash.Borders()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "border overlay not loaded"})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := json.NewEncoder(w).Encode(set); err != nil {
		s.logger.Error("encode borders", "error", err)
	}
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	win, err := domain.ParseWindow(r.FormValue("days"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.refreshed(w, s.dash.SetWindow(detach(r), win))
}

func (s *Server) handleMinMagnitude(w http.ResponseWriter, r *http.Request) {
	s.refreshed(w, s.dash.SetMinMagnitude(detach(r), r.FormValue("value")))
}

func (s *Server) handleTheme(w http.ResponseWriter, _ *http.Request) {
	s.dash.ToggleTheme()
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

// refreshed answers a control request with the current snapshot. Feed
// failures are reported through the snapshot status, not the HTTP code.
func (s *Server) refreshed(w http.ResponseWriter, err error) {
	switch {
	case err == nil, errors.Is(err, dashboard.ErrSuperseded):
	case errors.Is(err, domain.ErrUnknownWindow):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	default:
		s.logger.Debug("control refresh failed", "error", err)
	}
	writeJSON(w, http.StatusOK, s.dash.Snapshot())
}

// detach keeps a refresh running when the browser gives up on the request;
// the result still lands in the shared state.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
