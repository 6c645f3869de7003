/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
)

type captureStore struct {
	mu          sync.Mutex
	key         string
	contentType string
	data        []byte
	putErr      error
}

func (s *captureStore) List(ctx context.Context, prefix string, recursive bool) ([]datarecords.Object, error) {
	return nil, nil
}

func (s *captureStore) Head(ctx context.Context, name string) (datarecords.Meta, error) {
	return datarecords.Meta{}, datarecords.ErrNotFound
}

func (s *captureStore) Get(ctx context.Context, name string) (datarecords.Download, error) {
	return datarecords.Download{}, datarecords.ErrNotFound
}

func (s *captureStore) Put(ctx context.Context, name, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.key = name
	s.contentType = contentType
	s.data = data
	return nil
}

func (s *captureStore) Delete(ctx context.Context, name string) error { return nil }

func testPlan() Plan {
	return Plan{
		SRT: SRTStage{
			Host:          "0.0.0.0",
			Port:          31000,
			ListenTimeout: time.Minute,
			Passphrase:    "deadbeef",
			Format:        FormatOgg,
		},
		Upload: UploadStage{
			Key:         "event/2025-01-01T12:00:00.ogg",
			ContentType: FormatOgg.ContentType(),
		},
	}
}

func TestCreateStreamsStdoutToStore(t *testing.T) {
	store := &captureStore{}
	// echo prints its arguments, standing in for ffmpeg's muxed output.
	factory := NewFFmpegFactory("echo", store, zerolog.Nop())

	handle, err := factory.Create(testPlan())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := handle.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	if store.key != "event/2025-01-01T12:00:00.ogg" {
		t.Errorf("unexpected key: %q", store.key)
	}
	if store.contentType != "audio/ogg" {
		t.Errorf("unexpected content type: %q", store.contentType)
	}
	if !strings.Contains(string(store.data), "srt://0.0.0.0:31000") {
		t.Errorf("stdout not uploaded: %q", store.data)
	}
}

func TestCreateLaunchFailure(t *testing.T) {
	factory := NewFFmpegFactory("/nonexistent/ffmpeg", &captureStore{}, zerolog.Nop())

	handle, err := factory.Create(testPlan())
	if !errors.Is(err, ErrLaunchFailed) {
		t.Fatalf("expected ErrLaunchFailed, got %v", err)
	}
	if handle != nil {
		t.Fatal("expected nil handle on launch failure")
	}
}

func TestWaitReportsProcessFailure(t *testing.T) {
	factory := NewFFmpegFactory("false", &captureStore{}, zerolog.Nop())

	handle, err := factory.Create(testPlan())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = handle.Wait()
	if err == nil {
		t.Fatal("expected error from failing process")
	}
	if !strings.Contains(err.Error(), "pipeline process") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWaitReportsUploadFailure(t *testing.T) {
	store := &captureStore{putErr: errors.New("bucket gone")}
	factory := NewFFmpegFactory("echo", store, zerolog.Nop())

	handle, err := factory.Create(testPlan())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = handle.Wait()
	if err == nil || !strings.Contains(err.Error(), "pipeline upload") {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestWaitIsIdempotent(t *testing.T) {
	factory := NewFFmpegFactory("false", &captureStore{}, zerolog.Nop())

	handle, err := factory.Create(testPlan())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := handle.Wait()
	second := handle.Wait()
	if first == nil || second == nil || first.Error() != second.Error() {
		t.Errorf("wait not idempotent: %v vs %v", first, second)
	}
}
