/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package emishows is the HTTP client for the emishows schedule service,
// which owns event metadata and their scheduled occurrences.
package emishows

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
)

// EventType tags the variety of an event. Only live events are recordable.
type EventType string

const (
	EventTypeLive        EventType = "live"
	EventTypeReplay      EventType = "replay"
	EventTypePrerecorded EventType = "prerecorded"
)

// Event is a broadcast item owned by the schedule service.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Type     EventType `json:"type"`
	Timezone string    `json:"timezone"`
}

// EventInstance is one scheduled occurrence of an event. Start is a naive
// local datetime in the event's timezone.
type EventInstance struct {
	Start time.Time
}

func (i *EventInstance) UnmarshalJSON(data []byte) error {
	var raw struct {
		Start string `json:"start"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := clock.ParseNaive(raw.Start)
	if err != nil {
		return err
	}
	i.Start = start
	return nil
}

func (i EventInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
	}{Start: clock.Stringify(i.Start)})
}

// Schedule pairs an event with its instances inside a queried window.
type Schedule struct {
	Event     Event           `json:"event"`
	Instances []EventInstance `json:"instances"`
}

type scheduleListResponse struct {
	Schedules []Schedule `json:"schedules"`
}
