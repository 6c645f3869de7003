/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EmishowsConfig locates the schedule service HTTP API.
type EmishowsConfig struct {
	Scheme string
	Host   string
	Port   int // 0 means no explicit port
	Path   string
}

// URL renders the base URL of the schedule service.
func (c EmishowsConfig) URL() string {
	url := fmt.Sprintf("%s://%s", c.Scheme, c.Host)
	if c.Port != 0 {
		url = fmt.Sprintf("%s:%d", url, c.Port)
	}
	if c.Path != "" {
		path := c.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		url += strings.TrimRight(path, "/")
	}
	return url
}

// S3Config locates the records object store.
type S3Config struct {
	Secure   bool
	Host     string
	Port     int // 0 means no explicit port
	User     string
	Password string
	Bucket   string
	Region   string
}

// Endpoint renders the S3 endpoint URL.
func (c S3Config) Endpoint() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	if c.Port == 0 {
		return fmt.Sprintf("%s://%s", scheme, c.Host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	SRTPorts    []int

	RecorderTimeout time.Duration
	RecorderWindow  time.Duration
	FFmpegBin       string

	Emishows EmishowsConfig
	S3       S3Config

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	srtPorts, err := parsePortSet(getEnv("GRIMNIR_SRT_PORTS", "31000"))
	if err != nil {
		return nil, fmt.Errorf("GRIMNIR_SRT_PORTS: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("GRIMNIR_ENV", "development"),
		HTTPBind:    getEnv("GRIMNIR_HTTP_BIND", "0.0.0.0"),
		HTTPPort:    getEnvInt("GRIMNIR_HTTP_PORT", 31000),
		SRTPorts:    srtPorts,

		RecorderTimeout: getEnvDuration("GRIMNIR_RECORDER_TIMEOUT", 60*time.Second),
		RecorderWindow:  getEnvDuration("GRIMNIR_RECORDER_WINDOW", time.Hour),
		FFmpegBin:       getEnv("GRIMNIR_FFMPEG_BIN", "ffmpeg"),

		Emishows: EmishowsConfig{
			Scheme: getEnv("GRIMNIR_EMISHOWS_SCHEME", "http"),
			Host:   getEnv("GRIMNIR_EMISHOWS_HOST", "localhost"),
			Port:   getEnvInt("GRIMNIR_EMISHOWS_PORT", 10500),
			Path:   getEnv("GRIMNIR_EMISHOWS_PATH", ""),
		},

		S3: S3Config{
			Secure:   getEnvBool("GRIMNIR_S3_SECURE", false),
			Host:     getEnv("GRIMNIR_S3_HOST", "localhost"),
			Port:     getEnvInt("GRIMNIR_S3_PORT", 10710),
			User:     getEnv("GRIMNIR_S3_USER", "readwrite"),
			Password: getEnv("GRIMNIR_S3_PASSWORD", "password"),
			Bucket:   getEnv("GRIMNIR_S3_BUCKET", "default"),
			Region:   getEnv("GRIMNIR_S3_REGION", "us-east-1"),
		},

		TracingEnabled:    getEnvBool("GRIMNIR_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("GRIMNIR_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("GRIMNIR_TRACING_SAMPLE_RATE", 1.0),
	}

	if len(cfg.SRTPorts) == 0 {
		return nil, fmt.Errorf("GRIMNIR_SRT_PORTS must contain at least one port")
	}
	if cfg.RecorderTimeout < 0 {
		return nil, fmt.Errorf("GRIMNIR_RECORDER_TIMEOUT must be non-negative")
	}
	if cfg.RecorderWindow <= 0 {
		return nil, fmt.Errorf("GRIMNIR_RECORDER_WINDOW must be positive")
	}

	return cfg, nil
}

// parsePortSet parses a comma separated list of ports and a-b ranges,
// e.g. "31000" or "31000-31009,31020".
func parsePortSet(spec string) ([]int, error) {
	var ports []int

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := parsePort(lo)
			if err != nil {
				return nil, err
			}
			end, err := parsePort(hi)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("invalid port range %q", part)
			}
			for p := start; p <= end; p++ {
				ports = append(ports, p)
			}
			continue
		}

		p, err := parsePort(part)
		if err != nil {
			return nil, err
		}
		ports = append(ports, p)
	}

	return ports, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return p, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("90s", "1h30m") and bare
// integers, which are read as seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
