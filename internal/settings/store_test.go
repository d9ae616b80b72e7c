// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package settings

import (
	"errors"
	"testing"

	"github.com/WarpSpeedNine/CosmiCam/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSeededDefaults(t *testing.T) {
	s := newTestStore(t)

	var coords models.Coordinates
	if err := s.Get(DocCoordinates, &coords); err != nil {
		t.Fatalf("get coordinates: %v", err)
	}
	if coords.Latitude != 32.7 || coords.Longitude != -97.3 {
		t.Errorf("default coordinates = %+v, want {32.7 -97.3}", coords)
	}

	var profiles models.ProfileMap
	if err := s.Get(DocCameraProfiles, &profiles); err != nil {
		t.Fatalf("get profiles: %v", err)
	}
	for _, name := range []string{"default", "day", "civil_twilight", "nautical_twilight", "astronomical_twilight", "night"} {
		if _, ok := profiles[name]; !ok {
			t.Errorf("default profiles missing %q", name)
		}
	}
	// Daylight brightness is an explicit neutral zero, not "unset";
	// the capture tool must receive the flag.
	day := profiles["day"]
	if day.Brightness == nil || *day.Brightness != 0 {
		t.Errorf("day brightness = %v, want explicit 0", day.Brightness)
	}
	if def := profiles["default"]; def.Brightness == nil || *def.Brightness != 0 {
		t.Errorf("default brightness = %v, want explicit 0", def.Brightness)
	}

	night := profiles["night"]
	if night.ShutterSpeed != 6000000 || night.Gain != 2.0 {
		t.Errorf("night profile = %+v", night)
	}
	if night.Brightness == nil || *night.Brightness != 0.5 {
		t.Errorf("night brightness = %v, want 0.5", night.Brightness)
	}

	// The wire names are part of the store contract; API clients and
	// external tooling address documents by these exact strings.
	if DocCoordinates != "coordinates" || DocCameraProfiles != "camera_profiles" || DocSystem != "system_settings" {
		t.Errorf("document names = %q %q %q", DocCoordinates, DocCameraProfiles, DocSystem)
	}

	var system models.SystemSettings
	if err := s.Get("system_settings", &system); err != nil {
		t.Fatalf("get system settings: %v", err)
	}
	if system.CaptureIntervalSeconds != 60 {
		t.Errorf("capture interval = %d, want 60", system.CaptureIntervalSeconds)
	}
	if system.MaxDiskUsageBytes != 20*1024*1024*1024 {
		t.Errorf("max disk usage = %d", system.MaxDiskUsageBytes)
	}
}

func TestUnknownDocument(t *testing.T) {
	s := newTestStore(t)

	var out map[string]any
	if err := s.Get("nonsense", &out); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("Get unknown = %v, want ErrUnknownDocument", err)
	}
	if err := s.Put("nonsense", out); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("Put unknown = %v, want ErrUnknownDocument", err)
	}
	if err := s.Update("nonsense", map[string]any{"a": 1}); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("Update unknown = %v, want ErrUnknownDocument", err)
	}
}

func TestPutThenGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := models.Coordinates{Latitude: 51.5, Longitude: -0.12}
	if err := s.Put(DocCoordinates, want); err != nil {
		t.Fatalf("put coordinates: %v", err)
	}

	var got models.Coordinates
	if err := s.Get(DocCoordinates, &got); err != nil {
		t.Fatalf("get coordinates: %v", err)
	}
	if got != want {
		t.Errorf("coordinates = %+v, want %+v", got, want)
	}
}

func TestUpdateMergesNestedObjects(t *testing.T) {
	s := newTestStore(t)

	// Patch one field of one profile; every other profile and the
	// untouched fields of the patched profile must survive.
	patch := map[string]any{
		"night": map[string]any{"gain": 4.0},
	}
	if err := s.Update(DocCameraProfiles, patch); err != nil {
		t.Fatalf("update profiles: %v", err)
	}

	var profiles models.ProfileMap
	if err := s.Get(DocCameraProfiles, &profiles); err != nil {
		t.Fatalf("get profiles: %v", err)
	}

	night := profiles["night"]
	if night.Gain != 4.0 {
		t.Errorf("night gain = %v, want 4.0", night.Gain)
	}
	if night.ShutterSpeed != 6000000 {
		t.Errorf("night shutter = %d, want untouched 6000000", night.ShutterSpeed)
	}
	if _, ok := profiles["day"]; !ok {
		t.Error("day profile lost by merge")
	}
}

func TestUpdateScalarOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.Update(DocSystem, map[string]any{"capture_interval_seconds": 15}); err != nil {
		t.Fatalf("update system: %v", err)
	}

	var system models.SystemSettings
	if err := s.Get(DocSystem, &system); err != nil {
		t.Fatalf("get system: %v", err)
	}
	if system.CaptureIntervalSeconds != 15 {
		t.Errorf("capture interval = %d, want 15", system.CaptureIntervalSeconds)
	}
	if system.FanControl.MaxTemp != 80 {
		t.Errorf("fan max temp = %v, want untouched 80", system.FanControl.MaxTemp)
	}
}

func TestMergeDocuments(t *testing.T) {
	base := map[string]any{
		"a": 1,
		"nested": map[string]any{
			"keep":    "yes",
			"replace": "old",
		},
	}
	patch := map[string]any{
		"a": 2,
		"nested": map[string]any{
			"replace": "new",
			"added":   true,
		},
	}

	got := mergeDocuments(base, patch)
	if got["a"] != 2 {
		t.Errorf("a = %v, want 2", got["a"])
	}
	nested := got["nested"].(map[string]any)
	if nested["keep"] != "yes" || nested["replace"] != "new" || nested["added"] != true {
		t.Errorf("nested = %v", nested)
	}
}
