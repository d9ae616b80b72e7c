// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Command server runs the CosmiCam daemon: the supervised capture
// loop, fan regulation, and the HTTP API.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/WarpSpeedNine/CosmiCam/internal/api"
	"github.com/WarpSpeedNine/CosmiCam/internal/backup"
	"github.com/WarpSpeedNine/CosmiCam/internal/camera"
	"github.com/WarpSpeedNine/CosmiCam/internal/config"
	"github.com/WarpSpeedNine/CosmiCam/internal/diskspace"
	"github.com/WarpSpeedNine/CosmiCam/internal/events"
	"github.com/WarpSpeedNine/CosmiCam/internal/fan"
	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
	"github.com/WarpSpeedNine/CosmiCam/internal/sunphase"
	"github.com/WarpSpeedNine/CosmiCam/internal/supervisor"
	"github.com/WarpSpeedNine/CosmiCam/internal/supervisor/services"
	"github.com/WarpSpeedNine/CosmiCam/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("image_dir", cfg.Paths.ImageDir).
		Str("camera_binary", cfg.Camera.Binary).
		Str("timezone", cfg.Camera.Timezone).
		Msg("Starting CosmiCam")

	if err := os.MkdirAll(cfg.Paths.ImageDir, 0o755); err != nil {
		logging.Fatal().Err(err).Msg("Failed to create image directory")
	}

	// Runtime settings store (profiles, coordinates, quotas). An
	// unreadable store degrades to in-memory defaults so captures keep
	// running; edits then last only until restart.
	store, err := settings.Open(filepath.Join(cfg.Paths.DataDir, "settings"))
	if err != nil {
		logging.Warn().Err(err).Msg("Settings store unavailable, falling back to in-memory defaults")
		store, err = settings.OpenInMemory()
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open settings store")
		}
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing settings store")
		}
	}()

	calc, err := sunphase.NewCalculator(cfg.Camera.Timezone)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build sun phase calculator")
	}

	// In-process event bus.
	bus := events.NewBus(logging.NewWatermillAdapter())
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// Capture pipeline.
	manager := camera.NewManager(store, calc, bus)
	capturer := camera.NewBreakerCapturer(
		camera.NewLibcameraCapturer(cfg.Camera.Binary, cfg.Camera.Width, cfg.Camera.Height),
	)
	enforcer := diskspace.NewEnforcer(cfg.Paths.ImageDir, bus)
	captureSvc := camera.NewService(manager, capturer, camera.PassThrough{}, store, enforcer, bus, cfg.Paths.ImageDir)

	// Daily settings snapshots.
	backupSvc := backup.NewService(
		backup.NewManager(store, filepath.Join(cfg.Paths.DataDir, "backups"), backup.DefaultRetentionPolicy()),
		24*time.Hour,
	)

	// Fan regulation. The log driver stands in on hosts without PWM
	// control; regulation still records temperature metrics.
	fanSvc := fan.NewService(fan.SysfsSensor{Path: fan.DefaultThermalZone}, fan.NewLogDriver(), store)

	// Live event stream for websocket clients.
	hub := websocket.NewHub()
	forwarder := websocket.NewForwarder(bus, hub)

	// HTTP API.
	handlers := api.NewHandlers(manager, store, calc, cfg.Paths.ImageDir, capturer, hub)
	router := api.NewRouter(cfg, handlers)
	server := api.NewServer(cfg, router)

	// Supervision tree.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCameraService(captureSvc)
	tree.AddCameraService(events.NewLogConsumer(bus))
	tree.AddHardwareService(fanSvc)
	tree.AddHardwareService(backupSvc)
	tree.AddAPIService(hub)
	tree.AddAPIService(forwarder)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("CosmiCam stopped gracefully")
}
