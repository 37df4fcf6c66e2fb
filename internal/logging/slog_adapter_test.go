// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelError + 4, "error"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(NewSlogHandler(zerolog.New(&buf).Level(zerolog.DebugLevel)))
		logger.Log(context.Background(), tt.level, "msg")
		if got := decodeLine(t, &buf)["level"]; got != tt.want {
			t.Errorf("level %v logged as %v, want %s", tt.level, got, tt.want)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(zerolog.New(&buf))).
		With("service", "api").
		WithGroup("event")

	logger.Info("service restarted",
		"name", "http",
		"attempt", 3,
		"healthy", true,
		"ratio", 0.5,
		"backoff", 2*time.Second,
		"err", errors.New("boom"),
		slog.Group("detail", "code", 7),
	)

	m := decodeLine(t, &buf)
	want := map[string]any{
		"message":           "service restarted",
		"service":           "api",
		"event.name":        "http",
		"event.attempt":     float64(3),
		"event.healthy":     true,
		"event.ratio":       0.5,
		"event.err":         "boom",
		"event.detail.code": float64(7),
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %v (%T), want %v", k, m[k], m[k], v)
		}
	}
	if _, ok := m["event.backoff"]; !ok {
		t.Errorf("missing duration attribute: %v", m)
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
	if h.WithAttrs(nil) != h {
		t.Error("WithAttrs(nil) should return the same handler")
	}
}

func TestNewSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewSlogLogger(zerolog.New(&buf)).Warn("careful")
	if !strings.Contains(buf.String(), "careful") {
		t.Errorf("output = %s", buf.String())
	}
}
