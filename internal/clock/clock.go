/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package clock

import "time"

// Clock provides the current time. Injected so services can be tested
// against a fixed reference.
type Clock interface {
	// NowUTC returns the current wall-clock time in UTC.
	NowUTC() time.Time
}

// System reads the host clock.
type System struct{}

func (System) NowUTC() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) NowUTC() time.Time {
	return f.T
}
