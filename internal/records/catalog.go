/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/clock"
	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
	"github.com/friendsincode/grimnir_recorder/internal/emishows"
)

// Order sorts listings by record start.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ListQuery narrows and paginates a listing. After and Before compare
// strictly. A nil Limit means no limit.
type ListQuery struct {
	After  *time.Time
	Before *time.Time
	Limit  *int
	Offset int
	Order  Order
}

// Listing is a page of records. Count is the filtered total before
// pagination.
type Listing struct {
	Count   int
	Limit   *int
	Offset  int
	Records []Record
}

// Catalog serves the records of live events. Every operation checks the
// event with the schedule service first.
type Catalog struct {
	shows  emishows.ScheduleClient
	store  datarecords.ObjectStore
	logger zerolog.Logger
}

func NewCatalog(shows emishows.ScheduleClient, store datarecords.ObjectStore, logger zerolog.Logger) *Catalog {
	return &Catalog{
		shows:  shows,
		store:  store,
		logger: logger.With().Str("component", "records_catalog").Logger(),
	}
}

// List returns the event's records filtered, counted, sorted and paginated
// in that order.
func (c *Catalog) List(ctx context.Context, event uuid.UUID, query ListQuery) (Listing, error) {
	if _, err := c.gateEvent(ctx, event); err != nil {
		return Listing{}, err
	}

	objects, err := c.store.List(ctx, MakePrefix(event), false)
	if err != nil {
		return Listing{}, err
	}

	var records []Record
	for _, obj := range objects {
		record, err := ParseKey(obj.Name)
		if err != nil {
			// Foreign objects under the prefix are not records.
			c.logger.Warn().Str("name", obj.Name).Err(err).Msg("skipping unparsable object")
			continue
		}
		if query.After != nil && !record.Start.After(*query.After) {
			continue
		}
		if query.Before != nil && !record.Start.Before(*query.Before) {
			continue
		}
		records = append(records, record)
	}

	count := len(records)

	switch query.Order {
	case OrderAsc:
		sort.Slice(records, func(i, j int) bool { return records[i].Start.Before(records[j].Start) })
	case OrderDesc:
		sort.Slice(records, func(i, j int) bool { return records[i].Start.After(records[j].Start) })
	}

	if query.Offset > 0 {
		if query.Offset >= len(records) {
			records = nil
		} else {
			records = records[query.Offset:]
		}
	}
	if query.Limit != nil && *query.Limit < len(records) {
		records = records[:*query.Limit]
	}

	return Listing{
		Count:   count,
		Limit:   query.Limit,
		Offset:  query.Offset,
		Records: records,
	}, nil
}

// Download returns a record's metadata and content stream. The caller must
// close the body.
func (c *Catalog) Download(ctx context.Context, event uuid.UUID, start time.Time) (datarecords.Download, error) {
	if err := c.gateRecord(ctx, event, start); err != nil {
		return datarecords.Download{}, err
	}

	download, err := c.store.Get(ctx, MakeKey(event, start))
	if err != nil {
		return datarecords.Download{}, mapStoreError(err)
	}
	return download, nil
}

// Head returns a record's metadata.
func (c *Catalog) Head(ctx context.Context, event uuid.UUID, start time.Time) (datarecords.Meta, error) {
	if err := c.gateRecord(ctx, event, start); err != nil {
		return datarecords.Meta{}, err
	}

	meta, err := c.store.Head(ctx, MakeKey(event, start))
	if err != nil {
		return datarecords.Meta{}, mapStoreError(err)
	}
	return meta, nil
}

// Upload stores a new record. Uploads never overwrite: an existing object
// under the key fails with ErrRecordAlreadyExists.
func (c *Catalog) Upload(ctx context.Context, event uuid.UUID, start time.Time, contentType string, body io.Reader) error {
	if err := c.gateRecord(ctx, event, start); err != nil {
		return err
	}

	key := MakeKey(event, start)

	_, err := c.store.Head(ctx, key)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrRecordAlreadyExists, key)
	case !errors.Is(err, datarecords.ErrNotFound):
		return err
	}

	return c.store.Put(ctx, key, contentType, body)
}

// Delete removes a record.
func (c *Catalog) Delete(ctx context.Context, event uuid.UUID, start time.Time) error {
	if err := c.gateRecord(ctx, event, start); err != nil {
		return err
	}

	if err := c.store.Delete(ctx, MakeKey(event, start)); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// gateEvent verifies the event exists and is recordable.
func (c *Catalog) gateEvent(ctx context.Context, event uuid.UUID) (emishows.Event, error) {
	ev, err := c.shows.GetEvent(ctx, event)
	if err != nil {
		if errors.Is(err, emishows.ErrEventNotFound) {
			return emishows.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, event)
		}
		return emishows.Event{}, err
	}

	if ev.Type != emishows.EventTypeLive {
		return emishows.Event{}, fmt.Errorf("%w: %s is %s", ErrBadEventType, event, ev.Type)
	}
	return ev, nil
}

// gateRecord additionally verifies the start matches a scheduled instance
// within the event-local day containing it.
func (c *Catalog) gateRecord(ctx context.Context, event uuid.UUID, start time.Time) error {
	ev, err := c.gateEvent(ctx, event)
	if err != nil {
		return err
	}

	dayStart, err := clock.ToUTC(clock.FloorDay(start), ev.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %w", emishows.ErrUnavailable, ev.Timezone, err)
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	schedules, err := c.shows.ListSchedule(ctx, dayStart, dayEnd, event)
	if err != nil {
		return err
	}

	for _, schedule := range schedules {
		if schedule.Event.ID != event {
			continue
		}
		for _, instance := range schedule.Instances {
			if instance.Start.Equal(start) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s at %s", ErrInstanceNotFound, event, clock.Stringify(start))
}

func mapStoreError(err error) error {
	if errors.Is(err, datarecords.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	return err
}
