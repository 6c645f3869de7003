/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package records is the catalog of stored recordings. It gates access
// through the schedule service and maps object keys to records.
package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
)

// Record identifies one stored recording: the event and the naive local
// start of the instance it captured.
type Record struct {
	Event uuid.UUID
	Start time.Time
}

// MakePrefix returns the listing prefix for an event's records.
func MakePrefix(event uuid.UUID) string {
	return event.String() + "/"
}

// MakeKey returns the object key for a record.
func MakeKey(event uuid.UUID, start time.Time) string {
	return fmt.Sprintf("%s/%s", event, clock.Stringify(start))
}

// ParseKey is the inverse of MakeKey. The name splits at the first slash;
// the prefix is the event UUID and the suffix a naive ISO-8601 datetime.
func ParseKey(name string) (Record, error) {
	prefix, suffix, found := strings.Cut(name, "/")
	if !found {
		return Record{}, fmt.Errorf("malformed record key %q", name)
	}

	event, err := uuid.Parse(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return Record{}, fmt.Errorf("malformed record key %q: %w", name, err)
	}

	start, err := clock.ParseNaive(suffix)
	if err != nil {
		return Record{}, fmt.Errorf("malformed record key %q: %w", name, err)
	}

	return Record{Event: event, Start: start}, nil
}
