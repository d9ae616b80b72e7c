// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package camera

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
)

// ErrCaptureFailed wraps any failure of the underlying capture tool.
var ErrCaptureFailed = errors.New("capture failed")

// Capturer produces one image at path using the given profile.
type Capturer interface {
	Capture(ctx context.Context, path string, profile models.CameraProfile) error
}

// commandRunner abstracts process execution so tests can capture the
// argument list without a camera attached.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// LibcameraCapturer shells out to libcamera-still.
type LibcameraCapturer struct {
	binary string
	width  int
	height int
	runner commandRunner
	logger zerolog.Logger
}

// NewLibcameraCapturer creates a capturer invoking binary at the given
// sensor resolution.
func NewLibcameraCapturer(binary string, width, height int) *LibcameraCapturer {
	return &LibcameraCapturer{
		binary: binary,
		width:  width,
		height: height,
		runner: execRunner,
		logger: logging.With().Str("component", "capturer").Logger(),
	}
}

// Capture runs the capture tool. Tool output is only logged on
// failure; libcamera-still is chatty on stderr even when healthy.
func (c *LibcameraCapturer) Capture(ctx context.Context, path string, profile models.CameraProfile) error {
	args := c.buildArgs(path, profile)
	out, err := c.runner(ctx, c.binary, args...)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("binary", c.binary).
			Str("output", string(out)).
			Msg("capture tool failed")
		return fmt.Errorf("%w: %s: %v", ErrCaptureFailed, c.binary, err)
	}
	return nil
}

// buildArgs assembles the libcamera-still invocation. Zero-valued
// exposure parameters are omitted so the tool falls back to
// auto-exposure.
func (c *LibcameraCapturer) buildArgs(path string, profile models.CameraProfile) []string {
	args := []string{
		"-o", path,
		"--width", strconv.Itoa(c.width),
		"--height", strconv.Itoa(c.height),
	}
	if profile.ShutterSpeed > 0 {
		args = append(args, "--shutter", strconv.FormatInt(profile.ShutterSpeed, 10))
	}
	if profile.Gain > 0 {
		args = append(args, "--gain", strconv.FormatFloat(profile.Gain, 'f', -1, 64))
	}
	if profile.Brightness != nil {
		args = append(args, "--brightness", strconv.FormatFloat(*profile.Brightness, 'f', -1, 64))
	}
	if profile.Contrast > 0 {
		args = append(args, "--contrast", strconv.FormatFloat(profile.Contrast, 'f', -1, 64))
	}
	return args
}
