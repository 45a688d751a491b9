// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package logging

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newCapturedSlogger(buf *bytes.Buffer) *slog.Logger {
	h := &SlogHandler{logger: zerolog.New(buf)}
	return slog.New(h)
}

func TestSlogHandlerLevels(t *testing.T) {
	tests := []struct {
		name  string
		logFn func(l *slog.Logger)
		want  string
	}{
		{
			name:  "debug maps to zerolog debug",
			logFn: func(l *slog.Logger) { l.Debug("d") },
			want:  `"level":"debug"`,
		},
		{
			name:  "info maps to zerolog info",
			logFn: func(l *slog.Logger) { l.Info("i") },
			want:  `"level":"info"`,
		},
		{
			name:  "warn maps to zerolog warn",
			logFn: func(l *slog.Logger) { l.Warn("w") },
			want:  `"level":"warn"`,
		},
		{
			name:  "error maps to zerolog error",
			logFn: func(l *slog.Logger) { l.Error("e") },
			want:  `"level":"error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFn(newCapturedSlogger(&buf))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestSlogHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturedSlogger(&buf)

	l.Info("attrs",
		slog.String("s", "v"),
		slog.Int("n", 7),
		slog.Bool("b", true),
		slog.Duration("d", 2*time.Second),
	)

	out := buf.String()
	assert.Contains(t, out, `"s":"v"`)
	assert.Contains(t, out, `"n":7`)
	assert.Contains(t, out, `"b":true`)
	assert.Contains(t, out, `"d":2000`)
}

func TestSlogHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturedSlogger(&buf).With(slog.String("service", "http"))

	l.WithGroup("srv").Info("grouped", slog.String("addr", ":8080"))

	out := buf.String()
	assert.Contains(t, out, `"service":"http"`)
	assert.Contains(t, out, `"srv.addr":":8080"`)
}

func TestSlogHandlerEnabled(t *testing.T) {
	h := &SlogHandler{logger: zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel)}

	assert.False(t, h.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, h.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, h.Enabled(t.Context(), slog.LevelError))
}
