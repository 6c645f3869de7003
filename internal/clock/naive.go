/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

import (
	"fmt"
	"time"
)

// Schedule instants travel as naive local datetimes: ISO-8601 without a zone
// offset, interpreted in the owning event's IANA timezone. Internally they are
// time.Time values in UTC location with the zone meaning carried separately.

// NaiveLayout is the wire format for naive datetimes.
const NaiveLayout = "2006-01-02T15:04:05"

// Stringify renders a naive datetime in the ISO-8601 wire format.
func Stringify(t time.Time) string {
	return t.Format(NaiveLayout)
}

// ParseNaive parses a naive ISO-8601 datetime. Fractional seconds are
// accepted and truncated away, matching the schedule service output.
func ParseNaive(s string) (time.Time, error) {
	for _, layout := range []string{NaiveLayout, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse naive datetime %q", s)
}

// ToUTC interprets a naive datetime in the given IANA zone and converts it to
// a naive UTC datetime. DST transitions follow the host timezone database.
func ToUTC(naive time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	local := time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc)
	utc := local.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), utc.Minute(), utc.Second(), utc.Nanosecond(), time.UTC), nil
}

// FloorDay truncates a naive datetime to midnight of the same day.
func FloorDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HTTPDate renders an instant in the HTTP-date format used by
// Last-Modified headers.
func HTTPDate(t time.Time) string {
	return t.UTC().Format(http1123)
}

const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"
