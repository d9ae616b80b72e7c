// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package models defines the shared data types for CosmiCam: camera
// profiles, geographic coordinates, system settings, and the API
// response envelope.
package models

import "time"

// Coordinates holds the geographic position the sun-phase calculation
// runs against. Persisted as the "coordinates" settings document.
type Coordinates struct {
	Latitude  float64 `json:"latitude" koanf:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" koanf:"longitude" validate:"longitude"`
}

// CameraProfile is a named set of capture parameters. Zero shutter speed
// and zero gain mean "auto" and are omitted from the capture command.
// Brightness is a pointer because 0 is a valid non-auto value that must
// be distinguishable from "unset".
type CameraProfile struct {
	// ShutterSpeed is the exposure time in microseconds. 0 = auto.
	ShutterSpeed int64 `json:"shutter_speed" validate:"min=0"`

	// Gain is the analog gain multiplier. 0 = auto.
	Gain float64 `json:"gain" validate:"min=0"`

	// Brightness adjustment. nil = unset; 0 is valid and non-auto.
	Brightness *float64 `json:"brightness"`

	// Contrast multiplier. Values <= 0 are never sent to the camera.
	Contrast float64 `json:"contrast" validate:"gt=0"`
}

// Clone returns a deep copy so callers can't mutate a stored profile
// through the Brightness pointer.
func (p CameraProfile) Clone() CameraProfile {
	out := p
	if p.Brightness != nil {
		b := *p.Brightness
		out.Brightness = &b
	}
	return out
}

// ProfileMap keys camera profiles by name. Operational names are the
// five sun phases plus "default"; the map always contains "default".
type ProfileMap map[string]CameraProfile

// Clone returns a deep copy of the profile map.
func (m ProfileMap) Clone() ProfileMap {
	out := make(ProfileMap, len(m))
	for name, p := range m {
		out[name] = p.Clone()
	}
	return out
}

// FanSettings tunes the fan control loop. Temperatures are degrees
// Celsius; min maps to 0% duty, max to 100%.
type FanSettings struct {
	LogIntervalSeconds int     `json:"log_interval_seconds" validate:"min=1"`
	MinTemp            float64 `json:"min_temp"`
	MaxTemp            float64 `json:"max_temp" validate:"gtfield=MinTemp"`
}

// SystemSettings holds the live-tunable capture loop knobs. Persisted as
// the "system_settings" document and re-read every capture cycle, so
// edits take effect without a restart.
type SystemSettings struct {
	CaptureIntervalSeconds int         `json:"capture_interval_seconds" validate:"min=1"`
	MaxDiskUsageBytes      int64       `json:"max_disk_usage_bytes" validate:"gt=0"`
	FanControl             FanSettings `json:"fan_control"`
}

// Artifact describes one captured image on disk.
type Artifact struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}
