// Package api provides HTTP API handlers for the mudra settings and
// calibration endpoints.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/store"
)

// SettingsHandler handles HTTP requests for the key-value settings.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new SettingsHandler with the given store.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list returns every stored setting.
func (h *SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// update stores the provided key-value pairs. Unknown keys are accepted;
// the app only reads the ones it understands.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if len(values) == 0 {
		writeError(w, http.StatusBadRequest, "No settings provided")
		return
	}

	repo := h.store.Settings()
	for key, value := range values {
		if key == "" {
			writeError(w, http.StatusBadRequest, "Empty setting key")
			return
		}
		if err := repo.Set(key, value); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save setting")
			return
		}
	}

	settings, err := repo.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
