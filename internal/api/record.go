/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
	"github.com/friendsincode/grimnir_recorder/internal/pipeline"
	"github.com/friendsincode/grimnir_recorder/internal/recorder"
)

type recordRequest struct {
	Event  uuid.UUID `json:"event"`
	Format string    `json:"format"`
}

type credentialsPayload struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type recordResponse struct {
	Credentials credentialsPayload `json:"credentials"`
	Port        int                `json:"port"`
}

func (a *API) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Event == uuid.Nil {
		writeError(w, http.StatusBadRequest, "event_required")
		return
	}

	format := pipeline.Format(req.Format)
	if format == "" {
		format = pipeline.FormatOgg
	}
	if format != pipeline.FormatOgg {
		writeError(w, http.StatusBadRequest, "unsupported_format")
		return
	}

	resp, err := a.recorder.Record(r.Context(), recorder.Request{Event: req.Event, Format: format})
	if err != nil {
		switch {
		case errors.Is(err, recorder.ErrBusy):
			writeError(w, http.StatusConflict, "recorder_busy")
		case errors.Is(err, recorder.ErrInstanceNotFound):
			writeError(w, http.StatusUnprocessableEntity, "instance_not_found")
		case errors.Is(err, recorder.ErrScheduleUnavailable):
			writeError(w, http.StatusBadGateway, "schedule_unavailable")
		case errors.Is(err, pipeline.ErrLaunchFailed):
			a.logger.Error().Err(err).Msg("pipeline launch failed")
			writeError(w, http.StatusInternalServerError, "pipeline_launch_failed")
		default:
			a.logger.Error().Err(err).Msg("record failed")
			writeError(w, http.StatusInternalServerError, "internal_error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, recordResponse{
		Credentials: credentialsPayload{
			Token:     resp.Credentials.Token,
			ExpiresAt: clock.Stringify(resp.Credentials.ExpiresAt),
		},
		Port: resp.Port,
	})
}
