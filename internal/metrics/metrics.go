// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

// Package metrics exposes Prometheus instrumentation for the capture
// pipeline, disk retention, and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Capture Metrics
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camera_captures_total",
			Help: "Total number of capture attempts",
		},
		[]string{"profile", "result"}, // result: "success", "failure"
	)

	CaptureDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "camera_capture_duration_seconds",
			Help:    "Duration of capture invocations in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"profile"},
	)

	CaptureBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "camera_capture_breaker_state",
			Help: "Capture circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Profile Metrics
	ProfileTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camera_profile_transitions_total",
			Help: "Total number of active profile changes",
		},
		[]string{"from", "to"},
	)

	SunPhase = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "camera_sun_phase",
			Help: "Current sun phase (1 for the active phase, 0 otherwise)",
		},
		[]string{"phase"},
	)

	SolarAltitude = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "camera_solar_altitude_degrees",
			Help: "Solar altitude at the configured coordinates in degrees",
		},
	)

	// Retention Metrics
	DiskUsageBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storage_disk_usage_bytes",
			Help: "Measured size of the image directory in bytes",
		},
	)

	DiskQuotaBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storage_disk_quota_bytes",
			Help: "Configured disk usage limit in bytes",
		},
	)

	BytesReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storage_bytes_reclaimed_total",
			Help: "Total bytes reclaimed by quota enforcement",
		},
	)

	ArtifactsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storage_artifacts_deleted_total",
			Help: "Total artifacts deleted by quota enforcement",
		},
	)

	// Fan Metrics
	CPUTemperature = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_cpu_temperature_celsius",
			Help: "Last CPU temperature reading in Celsius",
		},
	)

	FanDutyCycle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "system_fan_duty_cycle",
			Help: "Commanded fan duty cycle (0.0 to 1.0)",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordCapture records one capture attempt.
func RecordCapture(profile string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CapturesTotal.WithLabelValues(profile, result).Inc()
	if err == nil {
		CaptureDuration.WithLabelValues(profile).Observe(duration.Seconds())
	}
}

// RecordProfileTransition records an active profile change.
func RecordProfileTransition(from, to string) {
	ProfileTransitions.WithLabelValues(from, to).Inc()
}

// SetSunPhase marks phase as active and clears the others.
func SetSunPhase(phase string, all []string) {
	for _, p := range all {
		v := 0.0
		if p == phase {
			v = 1.0
		}
		SunPhase.WithLabelValues(p).Set(v)
	}
}

// RecordEnforcement records the outcome of a quota enforcement pass.
func RecordEnforcement(usageBytes, quotaBytes, reclaimed int64, deleted int) {
	DiskUsageBytes.Set(float64(usageBytes))
	DiskQuotaBytes.Set(float64(quotaBytes))
	if reclaimed > 0 {
		BytesReclaimed.Add(float64(reclaimed))
	}
	if deleted > 0 {
		ArtifactsDeleted.Add(float64(deleted))
	}
}

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
