/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
	"github.com/friendsincode/grimnir_recorder/internal/emishows"
	"github.com/friendsincode/grimnir_recorder/internal/records"
)

const defaultListLimit = 10

type recordPayload struct {
	Event uuid.UUID `json:"event"`
	Start string    `json:"start"`
}

type listResponse struct {
	Count   int             `json:"count"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Records []recordPayload `json:"records"`
}

func (a *API) handleRecordsList(w http.ResponseWriter, r *http.Request) {
	event, ok := parseEvent(w, r)
	if !ok {
		return
	}

	query := records.ListQuery{}

	q := r.URL.Query()
	if v := q.Get("after"); v != "" {
		after, err := clock.ParseNaive(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_after")
			return
		}
		query.After = &after
	}
	if v := q.Get("before"); v != "" {
		before, err := clock.ParseNaive(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_before")
			return
		}
		query.Before = &before
	}

	limit := defaultListLimit
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		limit = parsed
	}
	query.Limit = &limit

	if v := q.Get("offset"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid_offset")
			return
		}
		query.Offset = parsed
	}

	switch order := records.Order(q.Get("order")); order {
	case "", records.OrderAsc, records.OrderDesc:
		query.Order = order
	default:
		writeError(w, http.StatusBadRequest, "invalid_order")
		return
	}

	listing, err := a.catalog.List(r.Context(), event, query)
	if err != nil {
		a.writeCatalogError(w, err)
		return
	}

	payload := listResponse{
		Count:   listing.Count,
		Limit:   limit,
		Offset:  listing.Offset,
		Records: make([]recordPayload, 0, len(listing.Records)),
	}
	for _, record := range listing.Records {
		payload.Records = append(payload.Records, recordPayload{
			Event: record.Event,
			Start: clock.Stringify(record.Start),
		})
	}

	writeJSON(w, http.StatusOK, payload)
}

func (a *API) handleRecordDownload(w http.ResponseWriter, r *http.Request) {
	event, start, ok := parseRecordPath(w, r)
	if !ok {
		return
	}

	download, err := a.catalog.Download(r.Context(), event, start)
	if err != nil {
		a.writeCatalogError(w, err)
		return
	}
	defer download.Body.Close()

	writeMetaHeaders(w, download.Meta)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, download.Body); err != nil {
		a.logger.Warn().Err(err).Msg("record download interrupted")
	}
}

func (a *API) handleRecordHead(w http.ResponseWriter, r *http.Request) {
	event, start, ok := parseRecordPath(w, r)
	if !ok {
		return
	}

	meta, err := a.catalog.Head(r.Context(), event, start)
	if err != nil {
		a.writeCatalogError(w, err)
		return
	}

	writeMetaHeaders(w, meta)
	w.WriteHeader(http.StatusOK)
}

func (a *API) handleRecordUpload(w http.ResponseWriter, r *http.Request) {
	event, start, ok := parseRecordPath(w, r)
	if !ok {
		return
	}

	err := a.catalog.Upload(r.Context(), event, start, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		a.writeCatalogError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	event, start, ok := parseRecordPath(w, r)
	if !ok {
		return
	}

	if err := a.catalog.Delete(r.Context(), event, start); err != nil {
		a.writeCatalogError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseEvent(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	event, err := uuid.Parse(chi.URLParam(r, "event"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_event")
		return uuid.Nil, false
	}
	return event, true
}

func parseRecordPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, bool) {
	event, ok := parseEvent(w, r)
	if !ok {
		return uuid.Nil, time.Time{}, false
	}

	start, err := clock.ParseNaive(chi.URLParam(r, "start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start")
		return uuid.Nil, time.Time{}, false
	}
	return event, start, true
}

func writeMetaHeaders(w http.ResponseWriter, meta datarecords.Meta) {
	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	if meta.ETag != "" {
		w.Header().Set("ETag", `"`+meta.ETag+`"`)
	}
	if !meta.LastModified.IsZero() {
		w.Header().Set("Last-Modified", clock.HTTPDate(meta.LastModified))
	}
}

func (a *API) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, records.ErrBadEventType):
		writeError(w, http.StatusBadRequest, "bad_event_type")
	case errors.Is(err, records.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "event_not_found")
	case errors.Is(err, records.ErrInstanceNotFound):
		writeError(w, http.StatusNotFound, "instance_not_found")
	case errors.Is(err, records.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record_not_found")
	case errors.Is(err, records.ErrRecordAlreadyExists):
		writeError(w, http.StatusConflict, "record_already_exists")
	case errors.Is(err, emishows.ErrUnavailable):
		a.logger.Error().Err(err).Msg("schedule service unavailable")
		writeError(w, http.StatusBadGateway, "schedule_unavailable")
	case errors.Is(err, datarecords.ErrUnavailable):
		a.logger.Error().Err(err).Msg("object store unavailable")
		writeError(w, http.StatusBadGateway, "object_store_unavailable")
	default:
		a.logger.Error().Err(err).Msg("catalog operation failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
