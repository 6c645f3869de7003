/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package records

import "errors"

var (
	// ErrEventNotFound means the schedule service knows no such event.
	ErrEventNotFound = errors.New("event not found")

	// ErrBadEventType means the event exists but is not a live event.
	ErrBadEventType = errors.New("event is not recordable")

	// ErrInstanceNotFound means no scheduled instance matches the start.
	ErrInstanceNotFound = errors.New("no matching event instance")

	// ErrRecordNotFound means no object is stored under the record's key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordAlreadyExists rejects uploads that would overwrite.
	ErrRecordAlreadyExists = errors.New("record already exists")
)
