// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package sunphase

import (
	"testing"
	"time"
)

func TestPhaseForAltitude(t *testing.T) {
	tests := []struct {
		name     string
		altitude float64
		want     Phase
	}{
		{"high noon", 45.0, PhaseDay},
		{"horizon", 0.0, PhaseDay},
		{"just above civil boundary", -0.8, PhaseDay},
		{"civil boundary", -0.833, PhaseCivilTwilight},
		{"civil band", -3.0, PhaseCivilTwilight},
		{"nautical boundary", -6.0, PhaseNauticalTwilight},
		{"nautical band", -9.0, PhaseNauticalTwilight},
		{"astronomical boundary", -12.0, PhaseAstronomicalTwilight},
		{"astronomical band", -15.0, PhaseAstronomicalTwilight},
		{"night boundary", -18.0, PhaseNight},
		{"deep night", -40.0, PhaseNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhaseForAltitude(tt.altitude); got != tt.want {
				t.Errorf("PhaseForAltitude(%v) = %q, want %q", tt.altitude, got, tt.want)
			}
		})
	}
}

func TestBoundaryBelongsToDarkerBand(t *testing.T) {
	boundaries := []struct {
		altitude float64
		darker   Phase
		lighter  Phase
	}{
		{-0.833, PhaseCivilTwilight, PhaseDay},
		{-6.0, PhaseNauticalTwilight, PhaseCivilTwilight},
		{-12.0, PhaseAstronomicalTwilight, PhaseNauticalTwilight},
		{-18.0, PhaseNight, PhaseAstronomicalTwilight},
	}

	for _, b := range boundaries {
		if got := PhaseForAltitude(b.altitude); got != b.darker {
			t.Errorf("boundary %v = %q, want darker band %q", b.altitude, got, b.darker)
		}
		if got := PhaseForAltitude(b.altitude + 0.001); got != b.lighter {
			t.Errorf("just above %v = %q, want lighter band %q", b.altitude, got, b.lighter)
		}
	}
}

func TestPhaseAtNoonAndMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Fort Worth, mid-June: the sun is well up at local noon and well
	// below -18 degrees at local 1am.
	lat, lon := 32.7, -97.3
	calc := NewCalculatorAt(loc, func() time.Time {
		return time.Date(2026, 6, 15, 12, 0, 0, 0, loc)
	})
	if got := calc.Phase(lat, lon); got != PhaseDay {
		t.Errorf("noon phase = %q, want %q", got, PhaseDay)
	}

	calc = NewCalculatorAt(loc, func() time.Time {
		return time.Date(2026, 6, 15, 1, 0, 0, 0, loc)
	})
	if got := calc.Phase(lat, lon); got != PhaseNight {
		t.Errorf("midnight phase = %q, want %q", got, PhaseNight)
	}
}

func TestPhaseValid(t *testing.T) {
	for _, p := range []Phase{PhaseDay, PhaseCivilTwilight, PhaseNauticalTwilight, PhaseAstronomicalTwilight, PhaseNight} {
		if !p.Valid() {
			t.Errorf("Valid(%q) = false, want true", p)
		}
	}
	if Phase("dusk").Valid() {
		t.Error("Valid(\"dusk\") = true, want false")
	}
}
