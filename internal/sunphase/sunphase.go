// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package sunphase

import (
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Phase is a named band of solar altitude.
type Phase string

const (
	PhaseDay                  Phase = "day"
	PhaseCivilTwilight        Phase = "civil_twilight"
	PhaseNauticalTwilight     Phase = "nautical_twilight"
	PhaseAstronomicalTwilight Phase = "astronomical_twilight"
	PhaseNight                Phase = "night"
)

// Altitude thresholds in degrees. A boundary value belongs to the
// darker band below it.
const (
	civilBoundary        = -0.833
	nauticalBoundary     = -6.0
	astronomicalBoundary = -12.0
	nightBoundary        = -18.0
)

// Calculator computes the current sun phase for a coordinate pair.
// The zero value is not usable; construct with NewCalculator.
type Calculator struct {
	loc *time.Location
	now func() time.Time
}

// NewCalculator returns a Calculator evaluating times in the named
// IANA timezone.
func NewCalculator(timezone string) (*Calculator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Calculator{loc: loc, now: time.Now}, nil
}

// NewCalculatorAt returns a Calculator with an injected clock, for
// deterministic tests.
func NewCalculatorAt(loc *time.Location, now func() time.Time) *Calculator {
	return &Calculator{loc: loc, now: now}
}

// Phase returns the sun phase at the calculator's current local time
// for the given coordinates. A degenerate solar position (non-finite
// altitude) degrades to day, the most conservative capture profile.
func (c *Calculator) Phase(latitude, longitude float64) Phase {
	return c.PhaseAt(c.now().In(c.loc), latitude, longitude)
}

// PhaseAt returns the sun phase at an explicit instant.
func (c *Calculator) PhaseAt(t time.Time, latitude, longitude float64) Phase {
	pos := suncalc.GetPosition(t.In(c.loc), latitude, longitude)
	altitude := pos.Altitude * 180 / math.Pi
	if math.IsNaN(altitude) || math.IsInf(altitude, 0) {
		return PhaseDay
	}
	return PhaseForAltitude(altitude)
}

// Altitude returns the solar altitude in degrees at the calculator's
// current local time.
func (c *Calculator) Altitude(latitude, longitude float64) float64 {
	pos := suncalc.GetPosition(c.now().In(c.loc), latitude, longitude)
	return pos.Altitude * 180 / math.Pi
}

// PhaseForAltitude maps a solar altitude in degrees to its phase.
func PhaseForAltitude(degrees float64) Phase {
	switch {
	case degrees <= nightBoundary:
		return PhaseNight
	case degrees <= astronomicalBoundary:
		return PhaseAstronomicalTwilight
	case degrees <= nauticalBoundary:
		return PhaseNauticalTwilight
	case degrees <= civilBoundary:
		return PhaseCivilTwilight
	default:
		return PhaseDay
	}
}

// Valid reports whether p is a recognized phase name.
func (p Phase) Valid() bool {
	switch p {
	case PhaseDay, PhaseCivilTwilight, PhaseNauticalTwilight,
		PhaseAstronomicalTwilight, PhaseNight:
		return true
	}
	return false
}

func (p Phase) String() string { return string(p) }
