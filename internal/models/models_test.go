// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package models

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestCameraProfileClone(t *testing.T) {
	orig := CameraProfile{
		ShutterSpeed: 6000000,
		Gain:         2.0,
		Brightness:   floatPtr(0.5),
		Contrast:     1.4,
	}

	clone := orig.Clone()
	if clone.Brightness == orig.Brightness {
		t.Fatal("clone shares the brightness pointer")
	}
	*clone.Brightness = 0.9
	if *orig.Brightness != 0.5 {
		t.Errorf("original brightness = %v after mutating clone, want 0.5", *orig.Brightness)
	}

	// nil stays nil; "unset" must not become a zero value.
	if c := (CameraProfile{Contrast: 1.0}).Clone(); c.Brightness != nil {
		t.Errorf("clone of unset brightness = %v, want nil", c.Brightness)
	}
}

func TestProfileMapClone(t *testing.T) {
	orig := ProfileMap{
		"night": {ShutterSpeed: 6000000, Brightness: floatPtr(0.5), Contrast: 1.4},
		"day":   {Brightness: floatPtr(0), Contrast: 1.0},
	}

	clone := orig.Clone()
	*clone["night"].Brightness = 0.1
	delete(clone, "day")

	if *orig["night"].Brightness != 0.5 {
		t.Errorf("original night brightness = %v, want 0.5", *orig["night"].Brightness)
	}
	if _, ok := orig["day"]; !ok {
		t.Error("deleting from the clone removed the original entry")
	}
}
