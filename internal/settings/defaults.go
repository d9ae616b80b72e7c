// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package settings

import (
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
)

// DefaultProfileName is the profile used before any sun-phase refresh
// has run and as the fallback for unclassifiable conditions.
const DefaultProfileName = "default"

func floatPtr(v float64) *float64 { return &v }

// DefaultCoordinates is the observation site used until the operator
// sets their own.
func DefaultCoordinates() models.Coordinates {
	return models.Coordinates{Latitude: 32.7, Longitude: -97.3}
}

// DefaultProfiles returns the built-in capture profiles, one per sun
// phase plus the neutral default. Shutter speeds are microseconds;
// daytime uses auto shutter and gain with an explicit neutral
// brightness, so the tool always receives a brightness flag.
func DefaultProfiles() models.ProfileMap {
	return models.ProfileMap{
		"default": {
			ShutterSpeed: 0,
			Gain:         0,
			Brightness:   floatPtr(0),
			Contrast:     1.0,
		},
		"day": {
			ShutterSpeed: 0,
			Gain:         0,
			Brightness:   floatPtr(0),
			Contrast:     1.0,
		},
		"civil_twilight": {
			ShutterSpeed: 100000,
			Gain:         1.5,
			Brightness:   floatPtr(0.2),
			Contrast:     1.1,
		},
		"nautical_twilight": {
			ShutterSpeed: 1000000,
			Gain:         1.8,
			Brightness:   floatPtr(0.3),
			Contrast:     1.2,
		},
		"astronomical_twilight": {
			ShutterSpeed: 3000000,
			Gain:         2.0,
			Brightness:   floatPtr(0.4),
			Contrast:     1.3,
		},
		"night": {
			ShutterSpeed: 6000000,
			Gain:         2.0,
			Brightness:   floatPtr(0.5),
			Contrast:     1.4,
		},
	}
}

// DefaultSystem returns the default capture cadence and retention
// limits.
func DefaultSystem() models.SystemSettings {
	return models.SystemSettings{
		CaptureIntervalSeconds: 60,
		MaxDiskUsageBytes:      20 * 1024 * 1024 * 1024,
		FanControl: models.FanSettings{
			LogIntervalSeconds: 300,
			MinTemp:            40,
			MaxTemp:            80,
		},
	}
}

func defaultDocuments() map[string]any {
	return map[string]any{
		DocCoordinates:    DefaultCoordinates(),
		DocCameraProfiles: DefaultProfiles(),
		DocSystem:         DefaultSystem(),
	}
}
