package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"weather-dashboard/dashboard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// StateStore is the part of the dashboard controller the server needs
type StateStore interface {
	State() dashboard.State
	ToggleSelection(location string) dashboard.State
}

// PageRenderer writes the dashboard page for a snapshot
type PageRenderer interface {
	Render(w io.Writer, s dashboard.State) error
}

// Server represents the dashboard HTTP server
type Server struct {
	store    StateStore
	renderer PageRenderer
	server   *http.Server
}

// NewServer creates a new dashboard server listening on port
func NewServer(store StateStore, renderer PageRenderer, port int) *Server {
	s := &Server{
		store:    store,
		renderer: renderer,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	return s
}

// Router builds the route table
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Page
	r.Get("/", s.handleIndex)
	r.Post("/select/{location}", s.handleSelect)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleGetState)
		r.Post("/selection/{location}", s.handleToggleSelection)
		r.Get("/health", s.handleHealthCheck)
	})

	return r
}

// Start begins serving; it returns http.ErrServerClosed after Shutdown
func (s *Server) Start() error {
	slog.Info("starting dashboard server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleIndex renders the dashboard
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Render into a buffer so a template error doesn't leave a half-written page
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, s.store.State()); err != nil {
		slog.Error("failed to render dashboard", "err", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleSelect toggles the selection from the page and goes back to it
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(r)
	if !ok {
		http.Error(w, "Location not specified", http.StatusBadRequest)
		return
	}

	s.store.ToggleSelection(location)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleGetState returns the current snapshot
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

// handleToggleSelection toggles the selection and returns the new snapshot
func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	location, ok := locationParam(r)
	if !ok {
		writeJSONError(w, "Location not specified", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, s.store.ToggleSelection(location))
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"cycle":     string(s.store.State().Cycle),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// locationParam reads the {location} path segment; chi hands it over still
// escaped when the request path needed a raw form.
func locationParam(r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "location")
	location, err := url.PathUnescape(raw)
	if err != nil || location == "" {
		return "", false
	}
	return location, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
