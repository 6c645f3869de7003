/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package emishows

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
)

// ScheduleClient enumerates the schedule service operations the recorder
// consumes. Implementations are injected; tests use fakes.
type ScheduleClient interface {
	// GetEvent fetches a single event. Returns ErrEventNotFound when the
	// service responds 404.
	GetEvent(ctx context.Context, id uuid.UUID) (Event, error)

	// ListSchedule returns every schedule for the event with at least one
	// instance inside [start, end]. Bounds are naive UTC datetimes.
	ListSchedule(ctx context.Context, start, end time.Time, id uuid.UUID) ([]Schedule, error)
}

// Client talks to the emishows HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a client against the given base URL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("component", "emishows_client").Logger(),
	}
}

func (c *Client) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	endpoint := fmt.Sprintf("%s/events/%s", c.baseURL, id)

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch {
	case status == http.StatusNotFound:
		return Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	case status != http.StatusOK:
		return Event{}, fmt.Errorf("%w: events endpoint returned %d", ErrUnavailable, status)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("%w: decode event: %w", ErrUnavailable, err)
	}
	return event, nil
}

func (c *Client) ListSchedule(ctx context.Context, start, end time.Time, id uuid.UUID) ([]Schedule, error) {
	where, err := json.Marshal(map[string]string{"id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("%w: encode filter: %w", ErrUnavailable, err)
	}

	query := url.Values{}
	query.Set("start", clock.Stringify(start))
	query.Set("end", clock.Stringify(end))
	query.Set("where", string(where))

	endpoint := fmt.Sprintf("%s/schedule?%s", c.baseURL, query.Encode())

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: schedule endpoint returned %d", ErrUnavailable, status)
	}

	var res scheduleListResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode schedules: %w", ErrUnavailable, err)
	}
	return res.Schedules, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, 0, err
	}
	return body, res.StatusCode, nil
}
