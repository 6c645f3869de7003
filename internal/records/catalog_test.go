/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package records

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
	"github.com/friendsincode/grimnir_recorder/internal/emishows"
)

var (
	catalogEvent = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	noon         = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
)

type stubShows struct {
	event     emishows.Event
	eventErr  error
	instances []emishows.EventInstance
	listErr   error
}

func (s *stubShows) GetEvent(ctx context.Context, id uuid.UUID) (emishows.Event, error) {
	if s.eventErr != nil {
		return emishows.Event{}, s.eventErr
	}
	return s.event, nil
}

func (s *stubShows) ListSchedule(ctx context.Context, start, end time.Time, id uuid.UUID) ([]emishows.Schedule, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []emishows.Schedule{{Event: s.event, Instances: s.instances}}, nil
}

func liveShows(starts ...time.Time) *stubShows {
	s := &stubShows{
		event: emishows.Event{ID: catalogEvent, Type: emishows.EventTypeLive, Timezone: "Etc/UTC"},
	}
	for _, start := range starts {
		s.instances = append(s.instances, emishows.EventInstance{Start: start})
	}
	return s
}

type stubStore struct {
	objects map[string][]byte
}

func newStubStore(names ...string) *stubStore {
	s := &stubStore{objects: make(map[string][]byte)}
	for _, name := range names {
		s.objects[name] = []byte("audio")
	}
	return s
}

func (s *stubStore) List(ctx context.Context, prefix string, recursive bool) ([]datarecords.Object, error) {
	var objects []datarecords.Object
	for name, data := range s.objects {
		if strings.HasPrefix(name, prefix) {
			objects = append(objects, datarecords.Object{Name: name, Size: int64(len(data))})
		}
	}
	return objects, nil
}

func (s *stubStore) Head(ctx context.Context, name string) (datarecords.Meta, error) {
	data, ok := s.objects[name]
	if !ok {
		return datarecords.Meta{}, datarecords.ErrNotFound
	}
	return datarecords.Meta{ContentType: "audio/ogg", Size: int64(len(data)), ETag: "tag"}, nil
}

func (s *stubStore) Get(ctx context.Context, name string) (datarecords.Download, error) {
	data, ok := s.objects[name]
	if !ok {
		return datarecords.Download{}, datarecords.ErrNotFound
	}
	return datarecords.Download{
		Meta: datarecords.Meta{ContentType: "audio/ogg", Size: int64(len(data))},
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (s *stubStore) Put(ctx context.Context, name, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[name] = data
	return nil
}

func (s *stubStore) Delete(ctx context.Context, name string) error {
	if _, ok := s.objects[name]; !ok {
		return datarecords.ErrNotFound
	}
	delete(s.objects, name)
	return nil
}

func newCatalog(shows emishows.ScheduleClient, store datarecords.ObjectStore) *Catalog {
	return NewCatalog(shows, store, zerolog.Nop())
}

func key(day int) string {
	return MakeKey(catalogEvent, time.Date(2025, 1, day, 12, 0, 0, 0, time.UTC))
}

func TestListCountsSortsAndPaginates(t *testing.T) {
	store := newStubStore(key(1), key(2), key(3))
	catalog := newCatalog(liveShows(), store)

	limit := 2
	listing, err := catalog.List(context.Background(), catalogEvent, ListQuery{
		Order:  OrderDesc,
		Limit:  &limit,
		Offset: 1,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if listing.Count != 3 {
		t.Errorf("count = %d, want 3", listing.Count)
	}
	if len(listing.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(listing.Records))
	}
	if listing.Records[0].Start.Day() != 2 || listing.Records[1].Start.Day() != 1 {
		t.Errorf("unexpected page: %v", listing.Records)
	}
}

func TestListFiltersStrictly(t *testing.T) {
	store := newStubStore(key(1), key(2), key(3))
	catalog := newCatalog(liveShows(), store)

	after := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	before := time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)
	listing, err := catalog.List(context.Background(), catalogEvent, ListQuery{
		After:  &after,
		Before: &before,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	// Bounds are exclusive, so only the middle record survives.
	if listing.Count != 1 || len(listing.Records) != 1 {
		t.Fatalf("unexpected listing: %+v", listing)
	}
	if listing.Records[0].Start.Day() != 2 {
		t.Errorf("unexpected record: %v", listing.Records[0])
	}
}

func TestListSkipsForeignObjects(t *testing.T) {
	store := newStubStore(key(1), catalogEvent.String()+"/notes.txt")
	catalog := newCatalog(liveShows(), store)

	listing, err := catalog.List(context.Background(), catalogEvent, ListQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listing.Count != 1 {
		t.Errorf("count = %d, want 1", listing.Count)
	}
}

func TestListOffsetPastEnd(t *testing.T) {
	store := newStubStore(key(1))
	catalog := newCatalog(liveShows(), store)

	listing, err := catalog.List(context.Background(), catalogEvent, ListQuery{Offset: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listing.Count != 1 || len(listing.Records) != 0 {
		t.Errorf("unexpected listing: %+v", listing)
	}
}

func TestEventGate(t *testing.T) {
	t.Run("missing event", func(t *testing.T) {
		shows := &stubShows{eventErr: emishows.ErrEventNotFound}
		catalog := newCatalog(shows, newStubStore())

		_, err := catalog.List(context.Background(), catalogEvent, ListQuery{})
		if !errors.Is(err, ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("non-live event", func(t *testing.T) {
		shows := liveShows()
		shows.event.Type = emishows.EventTypeReplay
		catalog := newCatalog(shows, newStubStore())

		_, err := catalog.List(context.Background(), catalogEvent, ListQuery{})
		if !errors.Is(err, ErrBadEventType) {
			t.Fatalf("expected ErrBadEventType, got %v", err)
		}
	})

	t.Run("schedule service down", func(t *testing.T) {
		shows := &stubShows{eventErr: emishows.ErrUnavailable}
		catalog := newCatalog(shows, newStubStore())

		_, err := catalog.List(context.Background(), catalogEvent, ListQuery{})
		if !errors.Is(err, emishows.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestDownloadReturnsRecord(t *testing.T) {
	store := newStubStore(MakeKey(catalogEvent, noon))
	catalog := newCatalog(liveShows(noon), store)

	download, err := catalog.Download(context.Background(), catalogEvent, noon)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer download.Body.Close()

	if download.ContentType != "audio/ogg" {
		t.Errorf("unexpected content type: %q", download.ContentType)
	}
	data, _ := io.ReadAll(download.Body)
	if string(data) != "audio" {
		t.Errorf("unexpected body: %q", data)
	}
}

func TestDownloadInstanceGate(t *testing.T) {
	// The object exists, but the schedule has no instance at that start.
	store := newStubStore(MakeKey(catalogEvent, noon))
	catalog := newCatalog(liveShows(noon.Add(time.Hour)), store)

	_, err := catalog.Download(context.Background(), catalogEvent, noon)
	if !errors.Is(err, ErrInstanceNotFound) {
		t.Fatalf("expected ErrInstanceNotFound, got %v", err)
	}
}

func TestDownloadMissingRecord(t *testing.T) {
	catalog := newCatalog(liveShows(noon), newStubStore())

	_, err := catalog.Download(context.Background(), catalogEvent, noon)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestHeadReturnsMeta(t *testing.T) {
	store := newStubStore(MakeKey(catalogEvent, noon))
	catalog := newCatalog(liveShows(noon), store)

	meta, err := catalog.Head(context.Background(), catalogEvent, noon)
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if meta.Size != 5 || meta.ETag != "tag" {
		t.Errorf("unexpected meta: %+v", meta)
	}
}

func TestUploadStoresRecord(t *testing.T) {
	store := newStubStore()
	catalog := newCatalog(liveShows(noon), store)

	err := catalog.Upload(context.Background(), catalogEvent, noon, "audio/ogg", strings.NewReader("fresh"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if string(store.objects[MakeKey(catalogEvent, noon)]) != "fresh" {
		t.Error("upload did not store the body")
	}
}

func TestUploadConflictLeavesObjectIntact(t *testing.T) {
	store := newStubStore(MakeKey(catalogEvent, noon))
	catalog := newCatalog(liveShows(noon), store)

	err := catalog.Upload(context.Background(), catalogEvent, noon, "audio/ogg", strings.NewReader("other"))
	if !errors.Is(err, ErrRecordAlreadyExists) {
		t.Fatalf("expected ErrRecordAlreadyExists, got %v", err)
	}
	if string(store.objects[MakeKey(catalogEvent, noon)]) != "audio" {
		t.Error("conflicting upload modified the stored object")
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	store := newStubStore(MakeKey(catalogEvent, noon))
	catalog := newCatalog(liveShows(noon), store)

	if err := catalog.Delete(context.Background(), catalogEvent, noon); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.objects) != 0 {
		t.Error("object still present after delete")
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	catalog := newCatalog(liveShows(noon), newStubStore())

	err := catalog.Delete(context.Background(), catalogEvent, noon)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestInstanceGateMatchesLocalDay(t *testing.T) {
	// Warsaw local 00:30 on Jan 2 is Jan 1 23:30 UTC; the gate must query
	// the local day window and still find the instance.
	shows := liveShows(time.Date(2025, 1, 2, 0, 30, 0, 0, time.UTC))
	shows.event.Timezone = "Europe/Warsaw"
	start := time.Date(2025, 1, 2, 0, 30, 0, 0, time.UTC)
	store := newStubStore(MakeKey(catalogEvent, start))
	catalog := newCatalog(shows, store)

	if _, err := catalog.Head(context.Background(), catalogEvent, start); err != nil {
		t.Fatalf("head: %v", err)
	}
}
