// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package camera

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/metrics"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
)

// ErrCaptureUnavailable is returned while the breaker is open and the
// capture tool is not being invoked.
var ErrCaptureUnavailable = errors.New("capture temporarily unavailable")

// BreakerCapturer wraps a Capturer with a circuit breaker so a wedged
// camera stack (stuck libcamera process, disconnected sensor) stops
// being invoked every interval and gets time to recover.
//
// The breaker uses real time for its recovery windows; tests exercise
// the wrapped capturer directly.
type BreakerCapturer struct {
	inner Capturer
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerCapturer wraps inner. The breaker opens after 5
// consecutive failures and probes again after 2 minutes.
func NewBreakerCapturer(inner Capturer) *BreakerCapturer {
	metrics.CaptureBreakerState.Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "camera-capture",
		MaxRequests: 1,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("capture breaker state change")
			metrics.CaptureBreakerState.Set(stateToFloat(to))
		},
	})

	return &BreakerCapturer{inner: inner, cb: cb}
}

// Capture invokes the wrapped capturer under breaker protection.
func (b *BreakerCapturer) Capture(ctx context.Context, path string, profile models.CameraProfile) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Capture(ctx, path, profile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return err
}

// State returns the current breaker state, for the status endpoint.
func (b *BreakerCapturer) State() gobreaker.State {
	return b.cb.State()
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
