// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

/*
Package settings provides the durable runtime-settings store.

Unlike the static process configuration loaded at startup, these
documents are mutated through the API while the service runs and must
survive restarts. The store is a BadgerDB keyspace with one JSON value
per named document.

# Documents

	coordinates     - observer latitude/longitude for sun phase math
	camera_profiles - per-phase exposure profiles keyed by name
	system_settings - capture interval, disk quota, fan thresholds

Opening a store seeds any missing document with its default value;
documents that already exist are never overwritten on open, so edits
survive upgrades.

# Updates

Update applies a partial document: the patch is merged recursively
over the stored value, so patching one profile's gain leaves its
shutter speed and every other profile untouched. Scalar and array
values overwrite; only nested objects merge.

# Testing

OpenInMemory builds a store backed by Badger's in-memory mode with
the same seeded defaults, for tests that need real merge semantics
without a directory on disk.
*/
package settings
