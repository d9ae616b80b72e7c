// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/diskspace"
	"github.com/WarpSpeedNine/CosmiCam/internal/events"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/metrics"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
)

// failureRetryDelay is the wait after a failed cycle, short enough to
// recover quickly from transient camera errors without hammering the
// tool.
const failureRetryDelay = 5 * time.Second

// filenameLayout produces image_YYYYMMDD_HHMMSS.jpg capture names.
const filenameLayout = "image_20060102_150405.jpg"

// QuotaEnforcer is the retention hook the capture loop runs after
// every successful capture.
type QuotaEnforcer interface {
	EnforceIfNeeded(maxBytes int64) (diskspace.Report, error)
}

// Service is the supervised capture loop. Each cycle refreshes the
// sun phase, captures one image with the active profile, post-processes
// it, and enforces the disk quota. The cycle interval is re-read from
// the settings store every pass so API changes apply without restart.
type Service struct {
	manager   *Manager
	capturer  Capturer
	processor Processor
	store     *settings.Store
	enforcer  QuotaEnforcer
	publisher events.Publisher
	imageDir  string
	logger    zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewService wires the capture loop. A nil processor defaults to
// PassThrough; a nil publisher discards events.
func NewService(manager *Manager, capturer Capturer, processor Processor, store *settings.Store, enforcer QuotaEnforcer, publisher events.Publisher, imageDir string) *Service {
	if processor == nil {
		processor = PassThrough{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		manager:   manager,
		capturer:  capturer,
		processor: processor,
		store:     store,
		enforcer:  enforcer,
		publisher: publisher,
		imageDir:  imageDir,
		logger:    logging.With().Str("component", "capture_service").Logger(),
		now:       time.Now,
	}
}

// Serve implements suture.Service. It loops until ctx is cancelled;
// cycle failures are logged and retried after a short delay rather
// than crashing the service, so one wedged capture never takes down
// the supervision tree.
func (s *Service) Serve(ctx context.Context) error {
	if err := os.MkdirAll(s.imageDir, 0o755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}
	s.logger.Info().Str("image_dir", s.imageDir).Msg("capture service started")

	for {
		delay := s.runCycle(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("capture service stopping")
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// runCycle executes one capture pass and returns how long to wait
// before the next one.
func (s *Service) runCycle(ctx context.Context) time.Duration {
	if err := s.captureOnce(ctx); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		s.logger.Error().Err(err).Msg("capture cycle failed")
		return failureRetryDelay
	}
	return s.interval()
}

// captureOnce runs a single capture cycle: phase refresh, capture,
// post-process, quota enforcement.
func (s *Service) captureOnce(ctx context.Context) error {
	if _, _, err := s.manager.RefreshFromSunPhase(); err != nil {
		// The phase calculator degrades internally; an error here
		// means the settings store is unreadable, which the capture
		// itself would also hit.
		return fmt.Errorf("refresh sun phase: %w", err)
	}

	name, profile, err := s.manager.CurrentSettings()
	if err != nil {
		return fmt.Errorf("read profile settings: %w", err)
	}

	path := filepath.Join(s.imageDir, s.now().Format(filenameLayout))

	start := s.now()
	err = s.capturer.Capture(ctx, path, profile)
	duration := s.now().Sub(start)
	metrics.RecordCapture(name, duration, err)
	if err != nil {
		return fmt.Errorf("capture with profile %s: %w", name, err)
	}

	finalPath, err := s.processor.Process(ctx, path)
	if err != nil {
		return fmt.Errorf("post-process %s: %w", path, err)
	}

	s.logger.Debug().
		Str("path", finalPath).
		Str("profile", name).
		Dur("duration", duration).
		Msg("image captured")
	_ = s.publisher.Publish(events.TopicImageCaptured, events.ImageCaptured{
		Path:      finalPath,
		Profile:   name,
		Settings:  profile,
		Duration:  duration,
		Timestamp: s.now().UTC(),
	})

	if s.enforcer != nil {
		system, err := s.systemSettings()
		if err != nil {
			return fmt.Errorf("read system settings: %w", err)
		}
		if _, err := s.enforcer.EnforceIfNeeded(system.MaxDiskUsageBytes); err != nil {
			return fmt.Errorf("enforce disk quota: %w", err)
		}
	}

	return nil
}

// interval returns the configured capture cadence, read fresh from
// the store. Store failures fall back to the default cadence; the
// next cycle will surface the error through captureOnce.
func (s *Service) interval() time.Duration {
	system, err := s.systemSettings()
	if err != nil || system.CaptureIntervalSeconds <= 0 {
		return time.Duration(settings.DefaultSystem().CaptureIntervalSeconds) * time.Second
	}
	return time.Duration(system.CaptureIntervalSeconds) * time.Second
}

func (s *Service) systemSettings() (models.SystemSettings, error) {
	var system models.SystemSettings
	if err := s.store.Get(settings.DocSystem, &system); err != nil {
		return models.SystemSettings{}, err
	}
	return system, nil
}

// String names the service for supervisor logs.
func (s *Service) String() string { return "capture-service" }
