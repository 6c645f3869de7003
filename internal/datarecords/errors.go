/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package datarecords

import "errors"

var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrUnavailable wraps transport failures and unexpected responses from
	// the object store.
	ErrUnavailable = errors.New("object store unavailable")
)
