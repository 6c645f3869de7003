/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package pipeline

import (
	"strings"
	"testing"
	"time"
)

func TestListenTimeoutMicros(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want int64
	}{
		{"one minute", time.Minute, 60_000_000},
		{"rounds up", 1500 * time.Nanosecond, 2},
		{"zero", 0, 0},
		{"negative clamps", -time.Second, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ListenTimeoutMicros(tc.in); got != tc.want {
				t.Errorf("ListenTimeoutMicros(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatContentType(t *testing.T) {
	if got := FormatOgg.ContentType(); got != "audio/ogg" {
		t.Errorf("unexpected content type: %q", got)
	}
}

func TestSRTStageArgs(t *testing.T) {
	stage := SRTStage{
		Host:          "0.0.0.0",
		Port:          31000,
		ListenTimeout: time.Minute,
		Passphrase:    "deadbeef",
		Format:        FormatOgg,
	}

	args := stage.Args()
	joined := strings.Join(args, " ")

	want := "-i srt://0.0.0.0:31000?mode=listener&listen_timeout=60000000&passphrase=deadbeef -acodec copy -f ogg pipe:1"
	if joined != want {
		t.Errorf("args = %q, want %q", joined, want)
	}
}

func TestSRTStageArgsRealtime(t *testing.T) {
	stage := SRTStage{Host: "0.0.0.0", Port: 31000, Format: FormatOgg, Realtime: true}

	args := stage.Args()
	if len(args) == 0 || args[0] != "-re" {
		t.Fatalf("expected leading -re, got %v", args)
	}
}

func TestSRTStageArgsEscapesPassphrase(t *testing.T) {
	stage := SRTStage{Host: "0.0.0.0", Port: 31000, Passphrase: "a&b=c", Format: FormatOgg}

	joined := strings.Join(stage.Args(), " ")
	if !strings.Contains(joined, "passphrase=a%26b%3Dc") {
		t.Errorf("passphrase not escaped: %q", joined)
	}
}
