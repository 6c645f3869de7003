/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package recorder orchestrates live recordings: it resolves the nearest
// scheduled instance of an event, mints listener credentials, reserves an
// SRT port and launches a detached recording pipeline.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
	"github.com/friendsincode/grimnir_recorder/internal/credentials"
	"github.com/friendsincode/grimnir_recorder/internal/emishows"
	"github.com/friendsincode/grimnir_recorder/internal/pipeline"
	"github.com/friendsincode/grimnir_recorder/internal/ports"
	"github.com/friendsincode/grimnir_recorder/internal/telemetry"
)

// Request asks for a recording of the nearest instance of an event.
type Request struct {
	Event  uuid.UUID
	Format pipeline.Format
}

// Response tells the client where to stream and how to authenticate.
type Response struct {
	Credentials credentials.Credentials
	Port        int
}

// Service starts recordings.
type Service struct {
	host    string
	window  time.Duration
	pool    *ports.Pool
	minter  *credentials.Minter
	shows   emishows.ScheduleClient
	factory pipeline.Factory
	clock   clock.Clock
	logger  zerolog.Logger
}

func NewService(
	host string,
	window time.Duration,
	pool *ports.Pool,
	minter *credentials.Minter,
	shows emishows.ScheduleClient,
	factory pipeline.Factory,
	clk clock.Clock,
	logger zerolog.Logger,
) *Service {
	return &Service{
		host:    host,
		window:  window,
		pool:    pool,
		minter:  minter,
		shows:   shows,
		factory: factory,
		clock:   clk,
		logger:  logger.With().Str("component", "recorder").Logger(),
	}
}

// Record starts a recording and returns once the pipeline is launched. The
// pipeline itself outlives the call; a supervisor goroutine owns the handle
// and releases the port when it ends.
func (s *Service) Record(ctx context.Context, req Request) (Response, error) {
	reference := s.clock.NowUTC()

	schedule, err := s.findSchedule(ctx, req.Event, reference)
	if err != nil {
		return Response{}, err
	}

	instance, err := s.nearestInstance(schedule, reference)
	if err != nil {
		return Response{}, err
	}

	creds, err := s.minter.Mint()
	if err != nil {
		return Response{}, fmt.Errorf("mint credentials: %w", err)
	}

	port, err := s.pool.Reserve()
	if err != nil {
		if errors.Is(err, ports.ErrExhausted) {
			return Response{}, ErrBusy
		}
		return Response{}, err
	}

	if err := ctx.Err(); err != nil {
		s.pool.Release(port)
		return Response{}, err
	}

	plan := s.buildPlan(schedule.Event, instance, creds, port, req.Format)

	handle, err := s.factory.Create(plan)
	if err != nil {
		s.pool.Release(port)
		return Response{}, err
	}

	telemetry.RecordingsStarted.Inc()
	telemetry.RecordingsActive.Inc()
	go s.supervise(handle, port)

	s.logger.Info().
		Str("event", schedule.Event.ID.String()).
		Str("instance_start", clock.Stringify(instance.Start)).
		Int("port", port).
		Msg("recording started")

	return Response{Credentials: creds, Port: port}, nil
}

// findSchedule queries the schedule service for the event's instances in
// the window around the reference time.
func (s *Service) findSchedule(ctx context.Context, event uuid.UUID, reference time.Time) (emishows.Schedule, error) {
	start := reference.Add(-s.window)
	end := reference.Add(s.window)

	schedules, err := s.shows.ListSchedule(ctx, start, end, event)
	if err != nil {
		return emishows.Schedule{}, fmt.Errorf("%w: %w", ErrScheduleUnavailable, err)
	}

	for _, schedule := range schedules {
		if schedule.Event.ID == event {
			return schedule, nil
		}
	}
	return emishows.Schedule{}, fmt.Errorf("%w: event %s", ErrInstanceNotFound, event)
}

// nearestInstance picks the instance whose UTC start is closest to the
// reference. Ties keep the earlier candidate.
func (s *Service) nearestInstance(schedule emishows.Schedule, reference time.Time) (emishows.EventInstance, error) {
	var nearest emishows.EventInstance
	best := time.Duration(-1)

	for _, instance := range schedule.Instances {
		start, err := clock.ToUTC(instance.Start, schedule.Event.Timezone)
		if err != nil {
			return emishows.EventInstance{}, fmt.Errorf("%w: timezone %q: %w",
				ErrScheduleUnavailable, schedule.Event.Timezone, err)
		}

		distance := start.Sub(reference)
		if distance < 0 {
			distance = -distance
		}
		if best < 0 || distance < best {
			best = distance
			nearest = instance
		}
	}

	if best < 0 {
		return emishows.EventInstance{}, fmt.Errorf("%w: event %s", ErrInstanceNotFound, schedule.Event.ID)
	}
	return nearest, nil
}

func (s *Service) buildPlan(
	event emishows.Event,
	instance emishows.EventInstance,
	creds credentials.Credentials,
	port int,
	format pipeline.Format,
) pipeline.Plan {
	return pipeline.Plan{
		SRT: pipeline.SRTStage{
			Host:          s.host,
			Port:          port,
			ListenTimeout: creds.ExpiresAt.Sub(s.clock.NowUTC()),
			Passphrase:    creds.Token,
			Format:        format,
		},
		Upload: pipeline.UploadStage{
			Key:         fmt.Sprintf("%s/%s.%s", event.ID, clock.Stringify(instance.Start), format),
			ContentType: format.ContentType(),
		},
	}
}

// supervise waits for a detached pipeline and releases its port on every
// exit path. Errors are logged, never surfaced to the request that started
// the recording.
func (s *Service) supervise(handle pipeline.Handle, port int) {
	defer s.pool.Release(port)
	defer telemetry.RecordingsActive.Dec()

	if err := handle.Wait(); err != nil {
		telemetry.RecordingsFinished.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Int("port", port).Msg("recording failed")
		return
	}

	telemetry.RecordingsFinished.WithLabelValues("completed").Inc()
	s.logger.Info().Int("port", port).Msg("recording completed")
}
