package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// ProfilesHandler handles HTTP requests for calibration profiles.
type ProfilesHandler struct {
	store      *store.Store
	calibrator *gesture.Calibrator
}

// NewProfilesHandler creates a new ProfilesHandler with the given store.
func NewProfilesHandler(s *store.Store) *ProfilesHandler {
	return &ProfilesHandler{
		store:      s,
		calibrator: gesture.NewCalibrator(),
	}
}

// Request and response types

type createProfileRequest struct {
	Name string `json:"name"`
}

type updateProfileRequest struct {
	Name           string  `json:"name"`
	PinchThreshold float64 `json:"pinch_threshold"`
}

type profileResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	PinchThreshold float64 `json:"pinch_threshold"`
	Samples        int     `json:"samples"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type calibrateResponse struct {
	Profile        profileResponse `json:"profile"`
	PinchThreshold float64         `json:"pinch_threshold"`
}

func toProfileResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		Name:           p.Name,
		PinchThreshold: p.PinchThreshold,
		Samples:        p.Samples,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}

// ServeHTTP implements the http.Handler interface and routes requests.
// Expected paths: /api/profiles, /api/profiles/{id},
// /api/profiles/{id}/samples and /api/profiles/{id}/calibrate.
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/profiles
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Sub-resource endpoints
	if id, ok := strings.CutSuffix(path, "/samples"); ok {
		switch r.Method {
		case http.MethodGet:
			h.listSamples(w, r, id)
		case http.MethodPost:
			h.addSample(w, r, id)
		case http.MethodDelete:
			h.clearSamples(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/calibrate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.calibrate(w, r, id)
		return
	}

	// Item endpoint: /api/profiles/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ProfilesHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *ProfilesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	profile := &store.Profile{
		ID:             uuid.New().String(),
		Name:           req.Name,
		PinchThreshold: gesture.DefaultPinchThreshold,
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusConflict, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(profile))
}

func (h *ProfilesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *ProfilesHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.PinchThreshold > 0 {
		profile.PinchThreshold = req.PinchThreshold
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *ProfilesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfilesHandler) listSamples(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Profiles().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	samples, err := h.store.Profiles().GetSamples(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"samples": samples,
	})
}

func (h *ProfilesHandler) addSample(w http.ResponseWriter, r *http.Request, id string) {
	var sample gesture.PinchSample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if sample.Kind != gesture.SampleKindPinched && sample.Kind != gesture.SampleKindRelaxed {
		writeError(w, http.StatusBadRequest, "Sample kind must be 'pinched' or 'relaxed'")
		return
	}

	data, err := json.Marshal(sample)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode sample")
		return
	}

	if err := h.store.Profiles().AddSample(id, data); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save sample")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *ProfilesHandler) clearSamples(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Profiles().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	if err := h.store.Profiles().ClearSamples(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear samples")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// calibrate derives a pinch threshold from the profile's recorded samples
// and stores it on the profile.
func (h *ProfilesHandler) calibrate(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	samples, err := h.store.Profiles().GetSamples(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}

	threshold, err := h.calibrator.Train(samples)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile.PinchThreshold = threshold
	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, calibrateResponse{
		Profile:        toProfileResponse(profile),
		PinchThreshold: threshold,
	})
}
