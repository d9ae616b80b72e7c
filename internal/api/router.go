// CosmiCam - Adaptive Sky Camera Service
// Copyright 2026 WarpSpeedNine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/WarpSpeedNine/CosmiCam

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/WarpSpeedNine/CosmiCam/internal/config"
)

// NewRouter assembles the HTTP routes. Read endpoints are public;
// anything that mutates state requires the admin bearer key.
func NewRouter(cfg *config.Config, h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.Timeout))
	r.Use(corsMiddleware(&cfg.Security))
	r.Use(rateLimitMiddleware(&cfg.Security))
	r.Use(metricsMiddleware)

	r.Get("/healthz", h.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/latest-image", h.LatestImage)
		r.Get("/latest-image/raw", h.LatestImageRaw)
		r.Get("/camera/profile", h.GetProfile)
		r.Get("/camera/profiles", h.ListProfiles)
		r.Get("/coordinates", h.GetCoordinates)
		r.Get("/status", h.Status)
		r.Get("/ws", h.EventStream)

		r.Group(func(r chi.Router) {
			r.Use(adminAuth(cfg.Security.AdminAPIKey))
			r.Post("/camera/profile", h.UpdateProfile)
			r.Post("/camera/profile/{name}", h.SwitchProfile)
			r.Post("/coordinates", h.UpdateCoordinates)
		})
	})

	return r
}

// NewServer builds the http.Server for the router with sane
// timeouts.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}
}
