/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package records

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestKeyRoundTrip(t *testing.T) {
	event := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	key := MakeKey(event, start)
	if key != "11111111-2222-3333-4444-555555555555/2025-01-01T12:00:00" {
		t.Errorf("unexpected key: %q", key)
	}

	record, err := ParseKey(key)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if record.Event != event {
		t.Errorf("event = %s, want %s", record.Event, event)
	}
	if !record.Start.Equal(start) {
		t.Errorf("start = %v, want %v", record.Start, start)
	}
}

func TestMakePrefix(t *testing.T) {
	event := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	if got := MakePrefix(event); got != "11111111-2222-3333-4444-555555555555/" {
		t.Errorf("unexpected prefix: %q", got)
	}
}

func TestParseKeyMalformed(t *testing.T) {
	cases := []string{
		"",
		"no-slash",
		"not-a-uuid/2025-01-01T12:00:00",
		"11111111-2222-3333-4444-555555555555/not-a-time",
		"11111111-2222-3333-4444-555555555555/2025-01-01T12:00:00.ogg",
	}
	for _, name := range cases {
		if _, err := ParseKey(name); err == nil {
			t.Errorf("ParseKey(%q) succeeded, want error", name)
		}
	}
}
