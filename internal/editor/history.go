package editor

import (
	"github.com/framecut/framecut/internal/timeline"
)

// DefaultHistoryLimit bounds the undo stack depth.
const DefaultHistoryLimit = 50

// History is a bounded sequence of document snapshots plus a cursor.
// Snapshots are compared by reference: pushing the entry the cursor
// already points at is a no-op, which is what makes the commit step of
// the store idempotent under double invocation.
type History struct {
	entries []*timeline.Document
	cursor  int
	limit   int
}

// NewHistory creates a history seeded with the initial snapshot.
func NewHistory(initial *timeline.Document, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{entries: []*timeline.Document{initial}, cursor: 0, limit: limit}
}

// Len returns the number of entries currently held.
func (h *History) Len() int {
	return len(h.entries)
}

// Current returns the snapshot under the cursor.
func (h *History) Current() *timeline.Document {
	return h.entries[h.cursor]
}

// Push records a snapshot: no-op when reference-equal to the current
// entry, otherwise the redo branch beyond the cursor is truncated, the
// snapshot appended, and the oldest entry evicted once the limit is
// exceeded.
func (h *History) Push(doc *timeline.Document) {
	if doc == h.entries[h.cursor] {
		return
	}
	h.entries = append(h.entries[:h.cursor+1], doc)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back and returns the restored snapshot, or nil
// at the start of history.
func (h *History) Undo() *timeline.Document {
	if h.cursor == 0 {
		return nil
	}
	h.cursor--
	return h.entries[h.cursor]
}

// Redo moves the cursor forward and returns the restored snapshot, or
// nil at the end of history.
func (h *History) Redo() *timeline.Document {
	if h.cursor >= len(h.entries)-1 {
		return nil
	}
	h.cursor++
	return h.entries[h.cursor]
}

// CanUndo reports whether an undo step exists.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a redo step exists.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }
