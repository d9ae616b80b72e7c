// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

/*
Package sunphase classifies local time into sun phases from solar
altitude.

The five phases and their altitude bands (degrees above the horizon):

	day                   - above -0.833
	civil_twilight        - (-6, -0.833]
	nautical_twilight     - (-12, -6]
	astronomical_twilight - (-18, -12]
	night                 - -18 and below

The -0.833 degree civil boundary is the refraction-corrected sunset
altitude. A boundary value belongs to the darker band: an altitude of
exactly -6 is nautical twilight, not civil.

Solar position comes from the suncalc library. A Calculator is bound
to a time zone at construction; Phase and Altitude evaluate at the
current wall clock, PhaseAt at an arbitrary instant. Non-finite
altitudes (degenerate coordinates) degrade to day, the brightest and
safest capture profile.
*/
package sunphase
