// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package models

import "time"

// APIResponse is the uniform envelope for every JSON response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError is the structured error payload inside an APIResponse.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LatestImageResponse is the payload for GET /api/v1/latest-image.
type LatestImageResponse struct {
	Path           string        `json:"path"`
	Timestamp      time.Time     `json:"timestamp"`
	SunPhase       string        `json:"sun_phase"`
	CameraProfile  string        `json:"camera_profile"`
	CameraSettings CameraProfile `json:"camera_settings"`
}

// ProfileResponse is the payload for GET /api/v1/camera/profile.
type ProfileResponse struct {
	CurrentProfile string        `json:"current_profile"`
	Settings       CameraProfile `json:"settings"`
	SunPhase       string        `json:"sun_phase"`
}
