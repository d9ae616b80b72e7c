// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package fan regulates the enclosure fan from the CPU temperature.
// Duty cycle maps linearly between the configured minimum temperature
// (fan off) and maximum temperature (fan full). Hardware access goes
// through the Driver interface so hosts without PWM control can run
// the same loop with the logging driver.
package fan

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/WarpSpeedNine/CosmiCam/internal/logging"
	"github.com/WarpSpeedNine/CosmiCam/internal/metrics"
	"github.com/WarpSpeedNine/CosmiCam/internal/models"
	"github.com/WarpSpeedNine/CosmiCam/internal/settings"
)

// DefaultThermalZone is the Raspberry Pi CPU thermal sensor.
const DefaultThermalZone = "/sys/class/thermal/thermal_zone0/temp"

// pollInterval is how often the loop reads the temperature. Logging
// happens at the slower configured cadence; regulation stays tight.
const pollInterval = 5 * time.Second

// defaultLogInterval caps summary-log frequency when the stored
// cadence is missing or non-positive.
const defaultLogInterval = 5 * time.Minute

// TempSensor reads the CPU temperature in degrees Celsius.
type TempSensor interface {
	ReadTemp() (float64, error)
}

// SysfsSensor reads a sysfs thermal zone file holding millidegrees.
type SysfsSensor struct {
	Path string
}

func (s SysfsSensor) ReadTemp() (float64, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("read thermal zone: %w", err)
	}
	milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse thermal zone %s: %w", s.Path, err)
	}
	return float64(milli) / 1000, nil
}

// Driver applies a fan duty cycle in [0, 1].
type Driver interface {
	SetDuty(duty float64) error
}

// LogDriver records duty changes without touching hardware.
type LogDriver struct {
	logger zerolog.Logger
}

// NewLogDriver creates a LogDriver.
func NewLogDriver() *LogDriver {
	return &LogDriver{logger: logging.With().Str("component", "fan_driver").Logger()}
}

func (d *LogDriver) SetDuty(duty float64) error {
	d.logger.Debug().Float64("duty", duty).Msg("fan duty set")
	return nil
}

// DutyForTemp maps a temperature onto a duty cycle, linear between
// minTemp and maxTemp and clamped outside that range.
func DutyForTemp(temp, minTemp, maxTemp float64) float64 {
	if maxTemp <= minTemp {
		return 1.0
	}
	switch {
	case temp <= minTemp:
		return 0.0
	case temp >= maxTemp:
		return 1.0
	default:
		return (temp - minTemp) / (maxTemp - minTemp)
	}
}

// Service is the supervised fan regulation loop.
type Service struct {
	sensor TempSensor
	driver Driver
	store  *settings.Store
	logger zerolog.Logger

	lastLog time.Time
}

// NewService wires the fan loop. Settings (temperature band, log
// cadence) are read fresh from the store each poll.
func NewService(sensor TempSensor, driver Driver, store *settings.Store) *Service {
	return &Service{
		sensor: sensor,
		driver: driver,
		store:  store,
		logger: logging.With().Str("component", "fan_service").Logger(),
	}
}

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.regulate(); err != nil {
				s.logger.Warn().Err(err).Msg("fan regulation pass failed")
			}
		}
	}
}

func (s *Service) regulate() error {
	temp, err := s.sensor.ReadTemp()
	if err != nil {
		return err
	}
	metrics.CPUTemperature.Set(temp)

	cfg, err := s.fanSettings()
	if err != nil {
		return err
	}

	duty := DutyForTemp(temp, cfg.MinTemp, cfg.MaxTemp)
	metrics.FanDutyCycle.Set(duty)
	if err := s.driver.SetDuty(duty); err != nil {
		return fmt.Errorf("set fan duty: %w", err)
	}

	logInterval := time.Duration(cfg.LogIntervalSeconds) * time.Second
	if logInterval <= 0 {
		// A missing or zeroed cadence must not turn every poll into a
		// summary line.
		logInterval = defaultLogInterval
	}
	if time.Since(s.lastLog) >= logInterval {
		s.lastLog = time.Now()
		s.logger.Info().
			Float64("temperature", temp).
			Float64("duty", duty).
			Msg("fan status")
	}
	return nil
}

func (s *Service) fanSettings() (models.FanSettings, error) {
	var system models.SystemSettings
	if err := s.store.Get(settings.DocSystem, &system); err != nil {
		return models.FanSettings{}, err
	}
	return system.FanControl, nil
}

// String names the service for supervisor logs.
func (s *Service) String() string { return "fan-service" }
