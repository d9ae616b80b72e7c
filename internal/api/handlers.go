// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/WarpSpeedNine/CosmiCam/internal/camera"
	"github.com/WarpSpeedNine/CosmiCam/internal/diskspace"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
	"github.com/WarpSpeedNine/CosmiCam/internal/sunphase"
	"github.com/WarpSpeedNine/CosmiCam/internal/validation"
	ws "github.com/WarpSpeedNine/CosmiCam/internal/websocket"
)

// BreakerInfo exposes the capture breaker state to the status
// endpoint.
type BreakerInfo interface {
	State() gobreaker.State
}

// Handlers carries the dependencies of every route.
type Handlers struct {
	manager  *camera.Manager
	store    *settings.Store
	calc     *sunphase.Calculator
	imageDir string
	breaker  BreakerInfo
	hub      *ws.Hub
}

// NewHandlers creates the handler set. breaker may be nil when the
// capture pipeline runs unwrapped; hub may be nil to disable the
// websocket event stream.
func NewHandlers(manager *camera.Manager, store *settings.Store, calc *sunphase.Calculator, imageDir string, breaker BreakerInfo, hub *ws.Hub) *Handlers {
	return &Handlers{
		manager:  manager,
		store:    store,
		calc:     calc,
		imageDir: imageDir,
		breaker:  breaker,
		hub:      hub,
	}
}

// EventStream upgrades the connection to a websocket and streams
// capture events to the client.
func (h *Handlers) EventStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "event stream is disabled", nil)
		return
	}
	ws.ServeWS(h.hub, w, r)
}

// currentPhase computes the sun phase for the stored coordinates
// without touching manager state.
func (h *Handlers) currentPhase() sunphase.Phase {
	coords, err := h.manager.Coordinates()
	if err != nil {
		return sunphase.PhaseDay
	}
	return h.calc.Phase(coords.Latitude, coords.Longitude)
}

// LatestImage returns metadata for the newest image on disk.
func (h *Handlers) LatestImage(w http.ResponseWriter, r *http.Request) {
	artifact, err := diskspace.Latest(h.imageDir)
	if errors.Is(err, diskspace.ErrNoArtifacts) {
		respondError(w, http.StatusNotFound, codeNotFound, "no images captured yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read image directory", nil)
		return
	}

	name, profile, err := h.manager.CurrentSettings()
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read profile settings", nil)
		return
	}

	respondData(w, http.StatusOK, models.LatestImageResponse{
		Path:           artifact.Path,
		Timestamp:      artifact.Timestamp,
		SunPhase:       string(h.currentPhase()),
		CameraProfile:  name,
		CameraSettings: profile,
	})
}

// LatestImageRaw streams the newest image file itself.
func (h *Handlers) LatestImageRaw(w http.ResponseWriter, r *http.Request) {
	artifact, err := diskspace.Latest(h.imageDir)
	if errors.Is(err, diskspace.ErrNoArtifacts) {
		respondError(w, http.StatusNotFound, codeNotFound, "no images captured yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read image directory", nil)
		return
	}
	http.ServeFile(w, r, artifact.Path)
}

// GetProfile returns the active profile and its settings.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	name, profile, err := h.manager.CurrentSettings()
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read profile settings", nil)
		return
	}
	respondData(w, http.StatusOK, models.ProfileResponse{
		CurrentProfile: name,
		Settings:       profile,
		SunPhase:       string(h.currentPhase()),
	})
}

// ListProfiles returns every stored profile.
func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.manager.Profiles()
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read profiles", nil)
		return
	}
	respondData(w, http.StatusOK, profiles)
}

// updateProfileRequest is the body of POST /api/v1/camera/profile.
type updateProfileRequest struct {
	Profile  string         `json:"profile"`
	Settings map[string]any `json:"settings"`
}

// UpdateProfile merges new settings into a named profile.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body", nil)
		return
	}
	if req.Profile == "" || len(req.Settings) == 0 {
		respondError(w, http.StatusBadRequest, codeBadRequest, "profile and settings are required", nil)
		return
	}

	if err := h.manager.UpdateProfile(req.Profile, req.Settings); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, codeValidation, verr.Error(), verr.Details())
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to update profile", nil)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"profile": req.Profile, "result": "updated"})
}

// SwitchProfile activates the profile named in the URL.
func (h *Handlers) SwitchProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ok, err := h.manager.SwitchProfile(name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to switch profile", nil)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, codeNotFound, "unknown profile: "+name, nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"current_profile": name})
}

// GetCoordinates returns the stored observation coordinates.
func (h *Handlers) GetCoordinates(w http.ResponseWriter, r *http.Request) {
	coords, err := h.manager.Coordinates()
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read coordinates", nil)
		return
	}
	respondData(w, http.StatusOK, coords)
}

// UpdateCoordinates validates and stores new observation coordinates.
func (h *Handlers) UpdateCoordinates(w http.ResponseWriter, r *http.Request) {
	var coords models.Coordinates
	if err := decodeBody(r, &coords); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body", nil)
		return
	}

	if err := h.manager.UpdateCoordinates(coords); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, codeValidation, verr.Error(), verr.Details())
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to store coordinates", nil)
		return
	}

	// The new site takes effect immediately, not on the next capture
	// cycle.
	if _, _, err := h.manager.RefreshFromSunPhase(); err != nil {
		logging.Warn().Err(err).Msg("sun phase refresh after coordinate update failed")
	}
	respondData(w, http.StatusOK, coords)
}

// statusResponse is the payload of GET /api/v1/status.
type statusResponse struct {
	CurrentProfile string             `json:"current_profile"`
	SunPhase       string             `json:"sun_phase"`
	DiskUsageBytes int64              `json:"disk_usage_bytes"`
	DiskQuotaBytes int64              `json:"disk_quota_bytes"`
	BreakerState   string             `json:"breaker_state,omitempty"`
	Coordinates    models.Coordinates `json:"coordinates"`
}

// Status reports the service's operational state.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	usage, err := diskspace.DirectorySize(h.imageDir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to measure image directory", nil)
		return
	}

	var system models.SystemSettings
	if err := h.store.Get(settings.DocSystem, &system); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read system settings", nil)
		return
	}

	coords, err := h.manager.Coordinates()
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to read coordinates", nil)
		return
	}

	resp := statusResponse{
		CurrentProfile: h.manager.CurrentProfile(),
		SunPhase:       string(h.currentPhase()),
		DiskUsageBytes: usage,
		DiskQuotaBytes: system.MaxDiskUsageBytes,
		Coordinates:    coords,
	}
	if h.breaker != nil {
		resp.BreakerState = h.breaker.State().String()
	}
	respondData(w, http.StatusOK, resp)
}

// Health is the liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
