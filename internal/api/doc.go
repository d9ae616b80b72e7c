// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

/*
Package api serves the HTTP interface.

Routes are assembled on chi with request ID, real IP, panic recovery,
timeout, CORS, per-IP rate limiting, and Prometheus instrumentation
middleware.

# Routes

Public reads:

	GET /healthz                  - liveness probe
	GET /metrics                  - Prometheus exposition
	GET /api/v1/latest-image      - metadata for the newest capture
	GET /api/v1/latest-image/raw  - the image bytes themselves
	GET /api/v1/camera/profile    - the active profile and its settings
	GET /api/v1/camera/profiles   - every stored profile
	GET /api/v1/coordinates       - observer coordinates
	GET /api/v1/status            - profile, phase, disk usage, breaker
	GET /api/v1/ws                - websocket event stream

Admin writes, behind a bearer key:

	POST /api/v1/camera/profile        - patch a profile's settings
	POST /api/v1/camera/profile/{name} - switch the active profile
	POST /api/v1/coordinates           - move the observer

# Responses

Every JSON endpoint wraps its payload in the APIResponse envelope
with a success flag, metadata timestamp, and an ETag derived from the
body. Errors carry a stable machine code (VALIDATION_ERROR, NOT_FOUND,
UNAUTHORIZED, ...) next to the human-readable message.

# Admin authentication

Admin routes compare a Bearer token against the configured key in
constant time. An empty configured key disables the admin surface
entirely rather than leaving it open.
*/
package api
