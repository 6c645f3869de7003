/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package pipeline builds and supervises recording pipelines: an ffmpeg
// process listening on an SRT port, piped into an object store upload.
package pipeline

import (
	"fmt"
	"math"
	"net/url"
	"time"
)

// Format is the container format recordings are muxed into.
type Format string

const FormatOgg Format = "ogg"

// ContentType returns the MIME type stored alongside uploaded recordings.
func (f Format) ContentType() string {
	return "audio/" + string(f)
}

// SRTStage describes the ffmpeg input: an SRT listener that accepts a
// single caller authenticated by passphrase.
type SRTStage struct {
	Host          string
	Port          int
	ListenTimeout time.Duration
	Passphrase    string
	Format        Format

	// Realtime adds the -re flag, throttling input to native rate.
	// Recordings read from a live socket, so it stays off.
	Realtime bool
}

// UploadStage describes where the muxed stream ends up.
type UploadStage struct {
	Key         string
	ContentType string
}

// Plan is everything needed to launch one recording pipeline.
type Plan struct {
	SRT    SRTStage
	Upload UploadStage
}

// ListenTimeoutMicros converts a timeout to the microsecond value the SRT
// listen_timeout option expects, rounding up and clamping at zero.
func ListenTimeoutMicros(d time.Duration) int64 {
	micros := int64(math.Ceil(d.Seconds() * 1e6))
	if micros < 0 {
		return 0
	}
	return micros
}

func (s SRTStage) inputURL() string {
	return fmt.Sprintf("srt://%s:%d?mode=listener&listen_timeout=%d&passphrase=%s",
		s.Host, s.Port, ListenTimeoutMicros(s.ListenTimeout), url.QueryEscape(s.Passphrase))
}

// Args renders the ffmpeg argument list for the stage. The muxed output
// goes to stdout so it can be piped into the upload stage.
func (s SRTStage) Args() []string {
	var args []string
	if s.Realtime {
		args = append(args, "-re")
	}
	return append(args,
		"-i", s.inputURL(),
		"-acodec", "copy",
		"-f", string(s.Format),
		"pipe:1",
	)
}
