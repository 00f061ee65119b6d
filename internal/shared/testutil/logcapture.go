package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log record with its attributes flattened by key.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is an slog.Handler that records every entry it receives.
// Handlers derived through WithAttrs share the same entry list.
type LogCapture struct {
	mu      *sync.Mutex
	entries *[]Entry
	attrs   []slog.Attr
	group   string
	t       testing.TB
}

// NewCaptureLogger returns a logger backed by a fresh LogCapture.
func NewCaptureLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	c := &LogCapture{mu: &sync.Mutex{}, entries: &[]Entry{}, t: t}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.attrs)+r.NumAttrs())
	for _, a := range c.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[c.key(a.Key)] = a.Value.Any()
		return true
	})

	c.mu.Lock()
	*c.entries = append(*c.entries, Entry{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *c
	next.attrs = append([]slog.Attr{}, c.attrs...)
	for _, a := range attrs {
		a.Key = c.key(a.Key)
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (c *LogCapture) WithGroup(name string) slog.Handler {
	next := *c
	next.group = c.key(name)
	return &next
}

func (c *LogCapture) key(k string) string {
	if c.group == "" {
		return k
	}
	return c.group + "." + k
}

// Entries returns a copy of everything captured so far.
func (c *LogCapture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(*c.entries))
	copy(out, *c.entries)
	return out
}

// Find returns the first entry at level whose message contains msg.
func (c *LogCapture) Find(level slog.Level, msg string) (Entry, bool) {
	for _, e := range c.Entries() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			return e, true
		}
	}
	return Entry{}, false
}

// AssertLogged fails the test unless an entry at level contains msg, and
// returns the entry for further checks on its attributes.
func AssertLogged(t testing.TB, c *LogCapture, level slog.Level, msg string) Entry {
	t.Helper()
	e, ok := c.Find(level, msg)
	if !ok {
		t.Errorf("no %s entry containing %q", level, msg)
		for _, got := range c.Entries() {
			t.Logf("  captured [%s] %s", got.Level, got.Message)
		}
	}
	return e
}

// AssertNoErrors fails the test if anything was logged at error level.
func AssertNoErrors(t testing.TB, c *LogCapture) {
	t.Helper()
	for _, e := range c.Entries() {
		if e.Level >= slog.LevelError {
			t.Errorf("unexpected error log: %s %v", e.Message, e.Attrs)
		}
	}
}
