// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package camera

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/events"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/metrics"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
	"github.com/WarpSpeedNine/CosmiCam/internal/sunphase"
	"github.com/WarpSpeedNine/CosmiCam/internal/validation"
)

var allPhaseNames = []string{
	string(sunphase.PhaseDay),
	string(sunphase.PhaseCivilTwilight),
	string(sunphase.PhaseNauticalTwilight),
	string(sunphase.PhaseAstronomicalTwilight),
	string(sunphase.PhaseNight),
}

// Manager tracks the active capture profile. The profile NAME is the
// only in-memory state; profile contents and coordinates are read
// fresh from the settings store on every use, so API updates take
// effect on the next capture without coordination.
type Manager struct {
	store     *settings.Store
	calc      *sunphase.Calculator
	publisher events.Publisher
	logger    zerolog.Logger

	mu      sync.RWMutex
	current string
}

// NewManager creates a Manager starting on the default profile.
func NewManager(store *settings.Store, calc *sunphase.Calculator, publisher events.Publisher) *Manager {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Manager{
		store:     store,
		calc:      calc,
		publisher: publisher,
		logger:    logging.With().Str("component", "profile_manager").Logger(),
		current:   settings.DefaultProfileName,
	}
}

// CurrentProfile returns the active profile name.
func (m *Manager) CurrentProfile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentSettings returns the active profile name and its settings,
// read fresh from the store so concurrent API updates are visible
// immediately.
func (m *Manager) CurrentSettings() (string, models.CameraProfile, error) {
	profiles, err := m.profiles()
	if err != nil {
		return "", models.CameraProfile{}, err
	}

	name := m.CurrentProfile()
	profile, ok := profiles[name]
	if !ok {
		// Active profile was deleted out from under us; fall back.
		name = settings.DefaultProfileName
		profile = profiles[name]
	}
	return name, profile.Clone(), nil
}

// Profiles returns a copy of all stored profiles.
func (m *Manager) Profiles() (models.ProfileMap, error) {
	profiles, err := m.profiles()
	if err != nil {
		return nil, err
	}
	return profiles.Clone(), nil
}

// Coordinates returns the stored observation coordinates.
func (m *Manager) Coordinates() (models.Coordinates, error) {
	var coords models.Coordinates
	if err := m.store.Get(settings.DocCoordinates, &coords); err != nil {
		return models.Coordinates{}, err
	}
	return coords, nil
}

// UpdateCoordinates validates and persists new observation
// coordinates. They take effect on the next sun-phase refresh.
func (m *Manager) UpdateCoordinates(coords models.Coordinates) error {
	if err := validation.ValidateStruct(&coords); err != nil {
		return err
	}
	if err := m.store.Put(settings.DocCoordinates, coords); err != nil {
		return err
	}
	m.logger.Info().
		Float64("latitude", coords.Latitude).
		Float64("longitude", coords.Longitude).
		Msg("coordinates updated")
	return nil
}

// RefreshFromSunPhase recomputes the sun phase for the stored
// coordinates and switches the active profile if the phase band
// changed. Calling it repeatedly within the same band is a no-op, so
// the capture loop can run it every cycle.
func (m *Manager) RefreshFromSunPhase() (bool, sunphase.Phase, error) {
	coords, err := m.Coordinates()
	if err != nil {
		return false, "", fmt.Errorf("read coordinates: %w", err)
	}

	phase := m.calc.Phase(coords.Latitude, coords.Longitude)
	metrics.SetSunPhase(string(phase), allPhaseNames)
	metrics.SolarAltitude.Set(m.calc.Altitude(coords.Latitude, coords.Longitude))

	profiles, err := m.profiles()
	if err != nil {
		return false, phase, err
	}
	target := string(phase)
	if _, ok := profiles[target]; !ok {
		// Keep whatever is active rather than guessing at settings.
		m.logger.Warn().
			Str("sun_phase", target).
			Msg("no profile matches sun phase, keeping current")
		return false, phase, nil
	}

	changed := m.setCurrent(target, phase)
	return changed, phase, nil
}

// SwitchProfile activates the named profile, reporting false if no
// such profile exists. Manual switches hold until the next sun-phase
// transition overrides them.
func (m *Manager) SwitchProfile(name string) (bool, error) {
	profiles, err := m.profiles()
	if err != nil {
		return false, err
	}
	if _, ok := profiles[name]; !ok {
		return false, nil
	}
	m.setCurrent(name, "")
	return true, nil
}

// UpdateProfile merges patch into the named profile and persists the
// result, creating the profile when no such name exists yet. The
// merged profile is validated after the write; a validation failure is
// reported but the written value stands, so a bad patch is corrected
// by a follow-up patch rather than a rollback.
func (m *Manager) UpdateProfile(name string, patch map[string]any) error {
	if err := m.store.Update(settings.DocCameraProfiles, map[string]any{name: patch}); err != nil {
		return fmt.Errorf("persist profile %s: %w", name, err)
	}

	merged, err := m.profiles()
	if err != nil {
		return err
	}
	profile := merged[name]
	if verr := validation.ValidateStruct(&profile); verr != nil {
		return fmt.Errorf("profile %s persisted with invalid values: %w", name, verr)
	}

	m.logger.Info().Str("profile", name).Msg("profile updated")
	return nil
}

func (m *Manager) profiles() (models.ProfileMap, error) {
	var profiles models.ProfileMap
	if err := m.store.Get(settings.DocCameraProfiles, &profiles); err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return profiles, nil
}

// setCurrent swaps the active profile name, emitting the transition
// event and metrics when it actually changes.
func (m *Manager) setCurrent(name string, phase sunphase.Phase) bool {
	m.mu.Lock()
	if name == m.current {
		m.mu.Unlock()
		return false
	}
	previous := m.current
	m.current = name
	m.mu.Unlock()

	m.logger.Info().
		Str("previous", previous).
		Str("current", name).
		Str("sun_phase", string(phase)).
		Msg("active profile changed")
	metrics.RecordProfileTransition(previous, name)
	_ = m.publisher.Publish(events.TopicProfileChanged, events.ProfileChanged{
		Previous:  previous,
		Current:   name,
		SunPhase:  phase,
		Timestamp: time.Now().UTC(),
	})
	return true
}
