package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Entry is one captured log record with its attributes flattened to strings.
// Group names are joined to attribute keys with ".".
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// BufferedHandler is a slog.Handler that keeps records in memory.
// It is meant for tests that assert on what the segmentation code logged.
//
//	h := logging.NewBufferedHandler(slog.LevelDebug)
//	logging.SetLogger(slog.New(h))
//	defer logging.SetLogger(nil)
type BufferedHandler struct {
	level  slog.Leveler
	store  *entryStore
	attrs  []slog.Attr
	groups []string
}

type entryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewBufferedHandler returns a handler that captures records at or above level.
func NewBufferedHandler(level slog.Leveler) *BufferedHandler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &BufferedHandler{level: level, store: &entryStore{}}
}

// Enabled implements slog.Handler.
func (h *BufferedHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *BufferedHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]string, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		e.Attrs[h.key(a.Key)] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		e.Attrs[h.key(a.Key)] = a.Value.String()
		return true
	})

	h.store.mu.Lock()
	h.store.entries = append(h.store.entries, e)
	h.store.mu.Unlock()
	return nil
}

func (h *BufferedHandler) key(k string) string {
	if len(h.groups) == 0 {
		return k
	}
	return strings.Join(h.groups, ".") + "." + k
}

// WithAttrs implements slog.Handler.
func (h *BufferedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferedHandler{level: h.level, store: h.store, attrs: merged, groups: h.groups}
}

// WithGroup implements slog.Handler.
func (h *BufferedHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &BufferedHandler{level: h.level, store: h.store, attrs: h.attrs, groups: groups}
}

// Entries returns a copy of everything captured so far.
func (h *BufferedHandler) Entries() []Entry {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	out := make([]Entry, len(h.store.entries))
	copy(out, h.store.entries)
	return out
}

// Find returns the first captured entry with the given message.
func (h *BufferedHandler) Find(msg string) (Entry, bool) {
	for _, e := range h.Entries() {
		if e.Message == msg {
			return e, true
		}
	}
	return Entry{}, false
}

// Reset drops all captured entries.
func (h *BufferedHandler) Reset() {
	h.store.mu.Lock()
	h.store.entries = nil
	h.store.mu.Unlock()
}
