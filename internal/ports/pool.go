/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package ports

import (
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/telemetry"
)

// ErrExhausted is returned by Reserve when every configured port is in use.
var ErrExhausted = errors.New("no ports available")

// Pool hands out SRT listener ports from a fixed configured set.
// Reservation and release are the only mutators; both hold the mutex for the
// duration of the set update and nothing else.
type Pool struct {
	mu     sync.Mutex
	ports  []int
	inUse  map[int]bool
	logger zerolog.Logger
}

// New creates a pool over the configured port set. Duplicates are collapsed.
func New(ports []int, logger zerolog.Logger) *Pool {
	seen := make(map[int]bool, len(ports))
	unique := make([]int, 0, len(ports))
	for _, p := range ports {
		if !seen[p] {
			seen[p] = true
			unique = append(unique, p)
		}
	}
	sort.Ints(unique)

	return &Pool{
		ports:  unique,
		inUse:  make(map[int]bool, len(unique)),
		logger: logger.With().Str("component", "port_pool").Logger(),
	}
}

// Reserve picks a free port and marks it in use. Which free port is picked is
// unspecified. Returns ErrExhausted when none are free.
func (p *Pool) Reserve() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, port := range p.ports {
		if !p.inUse[port] {
			p.inUse[port] = true
			telemetry.RecorderPortsInUse.Set(float64(len(p.inUse)))
			p.logger.Debug().Int("port", port).Msg("port reserved")
			return port, nil
		}
	}

	return 0, ErrExhausted
}

// Release returns a reserved port to the pool. Releasing a port that is not
// reserved indicates a bookkeeping bug; it is logged and ignored.
func (p *Pool) Release(port int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.inUse[port] {
		p.logger.Error().Int("port", port).Msg("release of port that is not reserved")
		return
	}

	delete(p.inUse, port)
	telemetry.RecorderPortsInUse.Set(float64(len(p.inUse)))
	p.logger.Debug().Int("port", port).Msg("port released")
}

// InUse returns the currently reserved ports, sorted.
func (p *Pool) InUse() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	used := make([]int, 0, len(p.inUse))
	for port := range p.inUse {
		used = append(used, port)
	}
	sort.Ints(used)
	return used
}

// Size returns the number of configured ports.
func (p *Pool) Size() int {
	return len(p.ports)
}
