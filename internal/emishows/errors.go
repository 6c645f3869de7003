/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package emishows

import "errors"

var (
	// ErrEventNotFound is returned when the schedule service does not know
	// the requested event.
	ErrEventNotFound = errors.New("event not found")

	// ErrUnavailable wraps transport failures and unexpected responses from
	// the schedule service.
	ErrUnavailable = errors.New("schedule service unavailable")
)
