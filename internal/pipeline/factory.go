/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_recorder/internal/datarecords"
)

// ErrLaunchFailed is returned when the pipeline process cannot be spawned.
var ErrLaunchFailed = errors.New("pipeline launch failed")

// Handle supervises a running pipeline. Wait blocks until both the process
// and the upload finish and returns the first error of either.
type Handle interface {
	Wait() error
}

// Factory launches pipelines from plans.
type Factory interface {
	Create(plan Plan) (Handle, error)
}

// FFmpegFactory spawns an ffmpeg process per plan and streams its stdout
// into the object store.
type FFmpegFactory struct {
	bin    string
	store  datarecords.ObjectStore
	logger zerolog.Logger
}

func NewFFmpegFactory(bin string, store datarecords.ObjectStore, logger zerolog.Logger) *FFmpegFactory {
	return &FFmpegFactory{
		bin:    bin,
		store:  store,
		logger: logger.With().Str("component", "pipeline_factory").Logger(),
	}
}

// Create launches the pipeline. The process runs under a background
// context: a recording must outlive the request that started it.
func (f *FFmpegFactory) Create(plan Plan) (Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, f.bin, plan.SRT.Args()...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: stdout pipe: %w", ErrLaunchFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: stderr pipe: %w", ErrLaunchFailed, err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}

	logger := f.logger.With().
		Int("pid", cmd.Process.Pid).
		Int("port", plan.SRT.Port).
		Str("key", plan.Upload.Key).
		Logger()
	logger.Info().Msg("pipeline started")

	proc := &process{
		cmd:       cmd,
		cancel:    cancel,
		uploadErr: make(chan error, 1),
		logger:    logger,
	}

	proc.drained.Add(1)
	go func() {
		defer proc.drained.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			logger.Debug().Str("line", scanner.Text()).Msg("pipeline output")
		}
	}()

	proc.drained.Add(1)
	go func() {
		defer proc.drained.Done()
		err := f.store.Put(ctx, plan.Upload.Key, plan.Upload.ContentType, stdout)
		if err != nil {
			// Nobody reads stdout anymore; kill the process so it
			// cannot block on a full pipe.
			cancel()
		}
		proc.uploadErr <- err
	}()

	return proc, nil
}

type process struct {
	cmd       *exec.Cmd
	cancel    context.CancelFunc
	uploadErr chan error
	drained   sync.WaitGroup
	logger    zerolog.Logger

	once sync.Once
	err  error
}

// Wait blocks until the process exits and the upload completes. Safe to
// call more than once. Pipe readers must finish before cmd.Wait closes
// the pipes, hence the WaitGroup ordering.
func (p *process) Wait() error {
	p.once.Do(func() {
		p.drained.Wait()
		waitErr := p.cmd.Wait()
		uploadErr := <-p.uploadErr
		p.cancel()

		// An upload failure kills the process, so when both are set the
		// upload error is the root cause.
		switch {
		case uploadErr != nil:
			p.err = fmt.Errorf("pipeline upload: %w", uploadErr)
		case waitErr != nil:
			p.err = fmt.Errorf("pipeline process: %w", waitErr)
		}

		if p.err != nil {
			p.logger.Error().Err(p.err).Msg("pipeline finished with error")
		} else {
			p.logger.Info().Msg("pipeline finished")
		}
	})
	return p.err
}
