package formstate

import (
	"formcraft/internal/config"
	"formcraft/internal/domain/models/form"
)

// HistoryStatus is the 1-based cursor position for display ("3 of 7")
type HistoryStatus struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// History is a bounded linear undo/redo stack of form snapshots.
// Entries are deep copies and are never modified once stored; every value
// handed out is another copy. Entries after the cursor are the redo tail.
type History struct {
	entries  []*form.Form
	index    int
	capacity int
}

// NewHistory creates an empty history holding at most capacity entries.
// A capacity below 1 falls back to config.DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = config.DefaultHistoryCapacity
	}
	return &History{
		entries:  make([]*form.Form, 0, capacity),
		index:    -1,
		capacity: capacity,
	}
}

// Reset discards all entries and seeds the history with a single snapshot.
// A nil snapshot leaves the history empty.
func (h *History) Reset(snapshot *form.Form) {
	h.entries = h.entries[:0]
	h.index = -1
	if snapshot != nil {
		h.entries = append(h.entries, snapshot.Clone())
		h.index = 0
	}
}

// Push records snapshot as the newest entry. The redo tail is discarded and
// the oldest entries are dropped once capacity is exceeded.
func (h *History) Push(snapshot *form.Form) {
	h.entries = h.entries[:h.index+1]
	h.entries = append(h.entries, snapshot.Clone())

	if overflow := len(h.entries) - h.capacity; overflow > 0 {
		// Shift in place so the backing array stays at capacity
		n := copy(h.entries, h.entries[overflow:])
		for i := n; i < len(h.entries); i++ {
			h.entries[i] = nil
		}
		h.entries = h.entries[:n]
	}

	h.index = len(h.entries) - 1
}

// Undo moves the cursor back one entry and returns a copy of it.
// Returns false at the oldest entry.
func (h *History) Undo() (*form.Form, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo moves the cursor forward one entry and returns a copy of it.
// Returns false at the newest entry.
func (h *History) Redo() (*form.Form, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// CanUndo reports whether the cursor can move back
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether a redo tail exists
func (h *History) CanRedo() bool { return h.index >= 0 && h.index < len(h.entries)-1 }

// Status returns the 1-based cursor position and the entry count
func (h *History) Status() HistoryStatus {
	return HistoryStatus{Current: h.index + 1, Total: len(h.entries)}
}

// Len is the number of retained entries
func (h *History) Len() int { return len(h.entries) }

// Index is the cursor position, -1 when empty
func (h *History) Index() int { return h.index }

// Capacity is the maximum number of retained entries
func (h *History) Capacity() int { return h.capacity }
