// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package fan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
)

func TestDutyForTemp(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		want float64
	}{
		{"below minimum", 30, 0.0},
		{"at minimum", 40, 0.0},
		{"midpoint", 60, 0.5},
		{"at maximum", 80, 1.0},
		{"above maximum", 95, 1.0},
		{"quarter", 50, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DutyForTemp(tt.temp, 40, 80); got != tt.want {
				t.Errorf("DutyForTemp(%v, 40, 80) = %v, want %v", tt.temp, got, tt.want)
			}
		})
	}
}

func TestDutyForTempDegenerateBand(t *testing.T) {
	if got := DutyForTemp(50, 80, 40); got != 1.0 {
		t.Errorf("inverted band duty = %v, want fail-safe 1.0", got)
	}
}

func TestSysfsSensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	if err := os.WriteFile(path, []byte("52341\n"), 0o644); err != nil {
		t.Fatalf("write sensor file: %v", err)
	}

	got, err := SysfsSensor{Path: path}.ReadTemp()
	if err != nil {
		t.Fatalf("read temp: %v", err)
	}
	if got != 52.341 {
		t.Errorf("temp = %v, want 52.341", got)
	}

	if _, err := (SysfsSensor{Path: filepath.Join(t.TempDir(), "missing")}).ReadTemp(); err == nil {
		t.Error("missing sensor file read succeeded")
	}
}

type fixedSensor struct{ temp float64 }

func (s fixedSensor) ReadTemp() (float64, error) { return s.temp, nil }

type recordingDriver struct{ duties []float64 }

func (d *recordingDriver) SetDuty(duty float64) error {
	d.duties = append(d.duties, duty)
	return nil
}

func TestRegulateAppliesConfiguredBand(t *testing.T) {
	store, err := settings.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	driver := &recordingDriver{}
	svc := NewService(fixedSensor{temp: 60}, driver, store)

	if err := svc.regulate(); err != nil {
		t.Fatalf("regulate: %v", err)
	}
	// Default band is 40..80, so 60C maps to half duty.
	if len(driver.duties) != 1 || driver.duties[0] != 0.5 {
		t.Errorf("duties = %v, want [0.5]", driver.duties)
	}

	// Narrow the band through the store; the next pass must see it.
	patch := map[string]any{"fan_control": map[string]any{"min_temp": 50.0, "max_temp": 70.0}}
	if err := store.Update(settings.DocSystem, patch); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if err := svc.regulate(); err != nil {
		t.Fatalf("regulate: %v", err)
	}
	if driver.duties[1] != 0.5 {
		t.Errorf("duty = %v, want 0.5 in 50..70 band", driver.duties[1])
	}

	svc.sensor = fixedSensor{temp: 75}
	if err := svc.regulate(); err != nil {
		t.Fatalf("regulate: %v", err)
	}
	if driver.duties[2] != 1.0 {
		t.Errorf("duty = %v, want clamped 1.0 above band", driver.duties[2])
	}
}

func TestRegulateZeroLogIntervalDoesNotLogEveryPoll(t *testing.T) {
	store, err := settings.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	patch := map[string]any{"fan_control": map[string]any{"log_interval_seconds": 0}}
	if err := store.Update(settings.DocSystem, patch); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	svc := NewService(fixedSensor{temp: 60}, &recordingDriver{}, store)
	if err := svc.regulate(); err != nil {
		t.Fatalf("regulate: %v", err)
	}
	first := svc.lastLog
	if first.IsZero() {
		t.Fatal("first pass did not emit a summary")
	}

	// Back-to-back passes fall inside the clamped cadence, so the
	// summary timestamp must not advance.
	if err := svc.regulate(); err != nil {
		t.Fatalf("regulate: %v", err)
	}
	if !svc.lastLog.Equal(first) {
		t.Error("zero log interval produced a summary on consecutive polls")
	}
}
