/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package recorder

import "errors"

var (
	// ErrInstanceNotFound means no instance of the requested event falls
	// inside the search window.
	ErrInstanceNotFound = errors.New("no matching event instance")

	// ErrBusy means every configured SRT port is reserved.
	ErrBusy = errors.New("no recording ports available")

	// ErrScheduleUnavailable wraps failures of the schedule service.
	ErrScheduleUnavailable = errors.New("schedule service unavailable")
)
