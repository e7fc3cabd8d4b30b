// Package testutil provides test utilities for structured logging and
// shared fixtures.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Record is one captured log entry.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Capture collects log records for assertions.
type Capture struct {
	mu      sync.Mutex
	records []Record
}

// NewCaptureLogger returns a logger whose records are kept in the
// returned Capture.
func NewCaptureLogger() (*slog.Logger, *Capture) {
	c := &Capture{}
	return slog.New(&captureHandler{c: c}), c
}

// Records returns a copy of everything logged so far.
func (c *Capture) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Warnings returns the messages logged at Warn or above.
func (c *Capture) Warnings() []Record {
	var out []Record
	for _, r := range c.Records() {
		if r.Level >= slog.LevelWarn {
			out = append(out, r)
		}
	}
	return out
}

// HasWarning reports whether a warning message contains substr.
func (c *Capture) HasWarning(substr string) bool {
	for _, r := range c.Warnings() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// String renders every record, one per line, for failure messages.
func (c *Capture) String() string {
	var b bytes.Buffer
	for _, r := range c.Records() {
		b.WriteString(r.Level.String())
		b.WriteByte(' ')
		b.WriteString(r.Message)
		for k, v := range r.Attrs {
			b.WriteString(" " + k + "=" + v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type captureHandler struct {
	c     *Capture
	attrs []slog.Attr
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := Record{Level: r.Level, Message: r.Message, Attrs: make(map[string]string)}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.String()
		return true
	})
	h.c.mu.Lock()
	h.c.records = append(h.c.records, rec)
	h.c.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &captureHandler{c: h.c, attrs: merged}
}

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

// Fixture returns the absolute path of a file under the repository's
// testdata directory.
func Fixture(t testing.TB, elem ...string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil source")
	}
	root := filepath.Join(filepath.Dir(file), "..", "..", "testdata")
	return filepath.Join(append([]string{root}, elem...)...)
}

// APIFixture is the path of the shared LVGL API description fixture.
func APIFixture(t testing.TB) string {
	t.Helper()
	return Fixture(t, "lvgl_api.json")
}
