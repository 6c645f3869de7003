/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package credentials mints single-use SRT listener passphrases.
package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
)

// Credentials bind one SRT listener session: the passphrase a client must
// present and the UTC instant after which the listener refuses connections.
type Credentials struct {
	Token     string
	ExpiresAt time.Time
}

// Minter produces credentials bounded by a configured timeout.
type Minter struct {
	timeout time.Duration
	clock   clock.Clock
}

// NewMinter creates a minter. The timeout must be non-negative.
func NewMinter(timeout time.Duration, clk clock.Clock) *Minter {
	if timeout < 0 {
		timeout = 0
	}
	return &Minter{timeout: timeout, clock: clk}
}

// Mint returns fresh credentials: a 128-bit hex token from the CSPRNG and an
// expiry of now plus the configured timeout.
func (m *Minter) Mint() (Credentials, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return Credentials{}, fmt.Errorf("generate token: %w", err)
	}

	return Credentials{
		Token:     hex.EncodeToString(buf),
		ExpiresAt: m.clock.NowUTC().Add(m.timeout),
	}, nil
}
