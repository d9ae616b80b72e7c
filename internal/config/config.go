// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package config loads the static process configuration. Values
// layer in precedence order: built-in defaults, then an optional YAML
// file, then environment variables. Runtime-mutable state (profiles,
// coordinates, quotas) lives in the settings store instead, so this
// package only describes the things that require a restart anyway:
// listen address, filesystem paths, the capture binary, and security.
package config

import (
	"fmt"
	"time"
)

// Config is the complete static configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Paths    PathsConfig    `koanf:"paths"`
	Camera   CameraConfig   `koanf:"camera"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// PathsConfig holds the filesystem layout.
type PathsConfig struct {
	// DataDir holds the settings database.
	DataDir string `koanf:"data_dir"`
	// ImageDir holds capture artifacts and is the quota-managed tree.
	ImageDir string `koanf:"image_dir"`
}

// CameraConfig holds the capture tool invocation parameters.
type CameraConfig struct {
	Binary   string `koanf:"binary"`
	Width    int    `koanf:"width"`
	Height   int    `koanf:"height"`
	Timezone string `koanf:"timezone"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	// AdminAPIKey guards mutating endpoints. Empty disables them.
	AdminAPIKey string   `koanf:"admin_api_key"`
	CORSOrigins []string `koanf:"cors_origins"`
	// RateLimitRequests per RateLimitWindow per client IP.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		Paths: PathsConfig{
			DataDir:  "/data/cosmicam",
			ImageDir: "/data/cosmicam/images",
		},
		Camera: CameraConfig{
			Binary:   "libcamera-still",
			Width:    4056,
			Height:   3040,
			Timezone: "America/Chicago",
		},
		Security: SecurityConfig{
			AdminAPIKey:       "",
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Paths.ImageDir == "" {
		return fmt.Errorf("paths.image_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir must be set")
	}
	if c.Camera.Binary == "" {
		return fmt.Errorf("camera.binary must be set")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera resolution %dx%d invalid", c.Camera.Width, c.Camera.Height)
	}
	if _, err := time.LoadLocation(c.Camera.Timezone); err != nil {
		return fmt.Errorf("camera.timezone: %w", err)
	}
	return nil
}
