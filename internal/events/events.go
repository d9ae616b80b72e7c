// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package events defines the in-process event bus. The service runs on
// a single host, so the bus is a Watermill GoChannel pub/sub rather
// than an external broker; publishers never block on slow consumers
// and events are best-effort observability signals, not state.
package events

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/WarpSpeedNine/CosmiCam/internal/models"
	"github.com/WarpSpeedNine/CosmiCam/internal/sunphase"
)

// Topics carried on the bus.
const (
	TopicProfileChanged = "camera.profile.changed"
	TopicImageCaptured  = "camera.image.captured"
	TopicQuotaEnforced  = "storage.quota.enforced"
)

// ProfileChanged is emitted when the active capture profile switches,
// whether from a sun-phase transition or an explicit API request.
type ProfileChanged struct {
	Previous  string        `json:"previous"`
	Current   string        `json:"current"`
	SunPhase  sunphase.Phase `json:"sun_phase,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ImageCaptured is emitted after a capture completes and the artifact
// is on disk.
type ImageCaptured struct {
	Path      string               `json:"path"`
	Profile   string               `json:"profile"`
	Settings  models.CameraProfile `json:"settings"`
	Duration  time.Duration        `json:"duration"`
	Timestamp time.Time            `json:"timestamp"`
}

// QuotaEnforced is emitted after a retention pass that deleted at
// least one artifact.
type QuotaEnforced struct {
	BytesReclaimed int64     `json:"bytes_reclaimed"`
	FilesDeleted   int       `json:"files_deleted"`
	UsageBytes     int64     `json:"usage_bytes"`
	Timestamp      time.Time `json:"timestamp"`
}

// SerializeEvent marshals an event payload for the wire.
func SerializeEvent(event any) ([]byte, error) {
	return json.Marshal(event)
}

// DeserializeEvent unmarshals an event payload into out.
func DeserializeEvent(data []byte, out any) error {
	return json.Unmarshal(data, out)
}
