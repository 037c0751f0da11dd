// Package server provides the HTTP surface of the mudra viewer: the scene
// websocket, the camera preview, and the settings/calibration API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/state"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration. Nil/zero fields disable the
// corresponding endpoints.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	States    *state.Cell[gesture.InteractionState]
	Frames    *state.Cell[scene.Frame]
	Status    func() string
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.States != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
	}

	if s.config.Store != nil {
		settingsHandler := api.NewSettingsHandler(s.config.Store)
		s.mux.Handle("/api/settings", settingsHandler)

		profilesHandler := api.NewProfilesHandler(s.config.Store)
		s.mux.Handle("/api/profiles", profilesHandler)
		s.mux.Handle("/api/profiles/", profilesHandler)
	}

	// Scene frame stream for the browser renderer
	if s.config.Frames != nil {
		sceneHandler := NewSceneHandler(s.config.Frames)
		s.mux.Handle("/api/scene", sceneHandler)
	}

	// Camera preview
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Serve the viewer page if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	session := "ok"
	if s.config.Status != nil {
		session = s.config.Status()
	}

	response := map[string]interface{}{
		"status":  "ok",
		"session": session,
		"uptime":  uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleState returns the latest interaction state snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.States.Load()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
