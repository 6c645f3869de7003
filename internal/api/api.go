/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package api exposes the HTTP handlers of the recorder service.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
	"github.com/friendsincode/grimnir_recorder/internal/recorder"
	"github.com/friendsincode/grimnir_recorder/internal/records"
)

// RecorderService starts recordings.
type RecorderService interface {
	Record(ctx context.Context, req recorder.Request) (recorder.Response, error)
}

// CatalogService serves stored recordings.
type CatalogService interface {
	List(ctx context.Context, event uuid.UUID, query records.ListQuery) (records.Listing, error)
	Download(ctx context.Context, event uuid.UUID, start time.Time) (datarecords.Download, error)
	Head(ctx context.Context, event uuid.UUID, start time.Time) (datarecords.Meta, error)
	Upload(ctx context.Context, event uuid.UUID, start time.Time, contentType string, body io.Reader) error
	Delete(ctx context.Context, event uuid.UUID, start time.Time) error
}

// API exposes HTTP handlers.
type API struct {
	recorder RecorderService
	catalog  CatalogService
	logger   zerolog.Logger
}

// New creates the API router wrapper.
func New(recorderSvc RecorderService, catalog CatalogService, logger zerolog.Logger) *API {
	return &API{
		recorder: recorderSvc,
		catalog:  catalog,
		logger:   logger,
	}
}

// Routes mounts API routes on the provided router.
func (a *API) Routes(r chi.Router) {
	r.Get("/ping", a.handlePing)
	r.Post("/record", a.handleRecord)
	r.Get("/records/{event}", a.handleRecordsList)
	r.Get("/records/{event}/{start}", a.handleRecordDownload)
	r.Head("/records/{event}/{start}", a.handleRecordHead)
	r.Put("/records/{event}/{start}", a.handleRecordUpload)
	r.Delete("/records/{event}/{start}", a.handleRecordDelete)
}

func (a *API) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
