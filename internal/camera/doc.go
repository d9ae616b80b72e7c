// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

/*
Package camera implements the adaptive capture pipeline.

The pipeline continuously photographs the sky while adjusting exposure
to the sun's position. Each cycle re-evaluates the sun phase, switches
the active capture profile when the phase band changes, shells out to
libcamera-still with the profile's exposure settings, and finally runs
disk quota enforcement over the image directory.

# Components

	Manager          - tracks the active profile against the sun phase
	                   and serves profile/coordinate reads and writes
	LibcameraCapturer - builds and runs the libcamera-still command
	BreakerCapturer  - circuit breaker wrapper that sheds capture
	                   attempts while the camera hardware is failing
	Processor        - post-capture hook (pass-through by default)
	Service          - the supervised capture loop

# Profile selection

Profiles are stored by name in the settings store and selected by sun
phase: the day phase maps to the "day" profile, each twilight band to
its twilight profile, and night to "night". A phase with no stored
profile leaves the active profile unchanged; if the active profile
itself is deleted, settings reads fall back to "default". The Manager
holds only the active profile NAME in memory; settings content is
re-read from the store on every use so API edits take effect on the
next capture without a restart.

# Failure handling

A failed capture is retried after a short fixed delay rather than the
configured interval. Five consecutive capture failures open the
circuit breaker, which converts further attempts into immediate
ErrCaptureUnavailable errors until a probe succeeds.

# Usage

	manager := camera.NewManager(store, calc, bus)
	capturer := camera.NewBreakerCapturer(
		camera.NewLibcameraCapturer("libcamera-still", 4056, 3040),
	)
	svc := camera.NewService(manager, capturer, camera.PassThrough{},
		store, enforcer, bus, imageDir)
	supervisor.Add(svc) // svc implements suture.Service
*/
package camera
