// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package camera

import "context"

// Processor post-processes a captured image, returning the path of
// the artifact to retain. Implementations may transform in place and
// return the input path unchanged.
type Processor interface {
	Process(ctx context.Context, path string) (string, error)
}

// PassThrough retains captures exactly as written by the camera tool.
type PassThrough struct{}

func (PassThrough) Process(_ context.Context, path string) (string, error) {
	return path, nil
}
