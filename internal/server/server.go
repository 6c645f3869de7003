/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server wires the recorder's services together behind one HTTP
// server.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/api"
	"github.com/friendsincode/grimnir_recorder/internal/clock"
	"github.com/friendsincode/grimnir_recorder/internal/config"
	"github.com/friendsincode/grimnir_recorder/internal/credentials"
	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
	"github.com/friendsincode/grimnir_recorder/internal/emishows"
	"github.com/friendsincode/grimnir_recorder/internal/pipeline"
	"github.com/friendsincode/grimnir_recorder/internal/ports"
	"github.com/friendsincode/grimnir_recorder/internal/recorder"
	"github.com/friendsincode/grimnir_recorder/internal/records"
	"github.com/friendsincode/grimnir_recorder/internal/telemetry"
)

// Server bundles the HTTP server and the services behind it.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server

	pool     *ports.Pool
	recorder *recorder.Service
	catalog  *records.Catalog
	api      *api.API
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.TracingMiddleware("grimnir-recorder-api"))
	router.Use(telemetry.MetricsMiddleware)
	// Skip the request timeout for record transfers: downloads and uploads
	// stream arbitrarily large objects.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(60 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/records/") {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		// Uploads and downloads stream; handlers own their deadlines.
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return srv, nil
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")

		// Only advertise HSTS for requests served over HTTPS.
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) initDependencies() error {
	clk := clock.System{}

	shows := emishows.NewClient(s.cfg.Emishows.URL(), s.logger)

	store, err := datarecords.NewClient(s.cfg.S3, s.logger)
	if err != nil {
		return fmt.Errorf("object store client: %w", err)
	}

	s.pool = ports.New(s.cfg.SRTPorts, s.logger)
	minter := credentials.NewMinter(s.cfg.RecorderTimeout, clk)
	factory := pipeline.NewFFmpegFactory(s.cfg.FFmpegBin, store, s.logger)

	s.recorder = recorder.NewService(
		s.cfg.HTTPBind,
		s.cfg.RecorderWindow,
		s.pool,
		minter,
		shows,
		factory,
		clk,
		s.logger,
	)
	s.catalog = records.NewCatalog(shows, store, s.logger)
	s.api = api.New(s.recorder, s.catalog, s.logger)

	s.logger.Info().
		Ints("srt_ports", s.cfg.SRTPorts).
		Dur("timeout", s.cfg.RecorderTimeout).
		Dur("window", s.cfg.RecorderWindow).
		Str("emishows", s.cfg.Emishows.URL()).
		Str("s3", s.cfg.S3.Endpoint()).
		Msg("recorder wired")

	return nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Handle("/metrics", telemetry.Handler())

	s.api.Routes(s.router)
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Router exposes the chi router, used by tests.
func (s *Server) Router() chi.Router {
	return s.router
}
