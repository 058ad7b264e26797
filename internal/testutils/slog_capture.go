package testutils

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry represents a simplified log record for testing.
type LogEntry map[string]interface{}

// TestSlogHandler is a memory-backed slog.Handler for testing.
type TestSlogHandler struct {
	mu      *sync.Mutex
	attrs   []slog.Attr
	entries *[]LogEntry
}

// NewTestSlogHandler creates a new memory-backed slog handler.
func NewTestSlogHandler() *TestSlogHandler {
	entries := make([]LogEntry, 0)
	return &TestSlogHandler{mu: &sync.Mutex{}, entries: &entries}
}

// Enabled satisfies the slog.Handler interface.
func (h *TestSlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle satisfies the slog.Handler interface.
func (h *TestSlogHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := make(LogEntry)
	entry["level"] = r.Level.String()
	entry["message"] = r.Message

	for _, attr := range h.attrs {
		entry[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(attr slog.Attr) bool {
		entry[attr.Key] = attr.Value.Any()
		return true
	})

	*h.entries = append(*h.entries, entry)
	return nil
}

// WithAttrs satisfies the slog.Handler interface. The derived handler
// shares the entry buffer with its parent so captured records stay in
// one place.
func (h *TestSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TestSlogHandler{mu: h.mu, attrs: merged, entries: h.entries}
}

// WithGroup satisfies the slog.Handler interface. Groups are flattened.
func (h *TestSlogHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Entries returns a copy of all captured log entries.
func (h *TestSlogHandler) Entries() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]LogEntry, len(*h.entries))
	copy(result, *h.entries)
	return result
}

// Clear resets the captured log entries.
func (h *TestSlogHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	*h.entries = (*h.entries)[:0]
}
