package formstate

import (
	"fmt"
	"testing"

	"formcraft/internal/domain/models/form"
)

func snapshot(title string) *form.Form {
	return &form.Form{ID: "f", Title: title, Pages: []form.Page{{ID: "p1"}}}
}

func TestHistory_ResetAndStatus(t *testing.T) {
	h := NewHistory(5)
	if h.Len() != 0 || h.Index() != -1 {
		t.Fatalf("new history should be empty, got len=%d index=%d", h.Len(), h.Index())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history cannot undo or redo")
	}

	h.Reset(snapshot("v0"))
	if got := h.Status(); got != (HistoryStatus{Current: 1, Total: 1}) {
		t.Errorf("unexpected status after reset: %+v", got)
	}
	if h.CanUndo() {
		t.Error("single entry history cannot undo")
	}
}

func TestHistory_PushTruncatesRedoTail(t *testing.T) {
	h := NewHistory(10)
	h.Reset(snapshot("v0"))
	h.Push(snapshot("v1"))
	h.Push(snapshot("v2"))

	got, ok := h.Undo()
	if !ok || got.Title != "v1" {
		t.Fatalf("expected undo to v1, got %v %v", got, ok)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	h.Push(snapshot("v1b"))
	if h.CanRedo() {
		t.Error("redo tail should be discarded after a push")
	}
	if h.Len() != h.Index()+1 {
		t.Errorf("len %d should equal index+1 (%d)", h.Len(), h.Index()+1)
	}
	if h.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", h.Len())
	}
}

func TestHistory_CapacityDropsOldest(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushes   int
		wantLen  int
		wantLast string
	}{
		{"under capacity", 5, 3, 4, "v3"},
		{"exactly at capacity", 5, 4, 5, "v4"},
		{"over capacity", 5, 12, 5, "v12"},
		{"default capacity", 0, 60, 50, "v60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.capacity)
			h.Reset(snapshot("v0"))
			for i := 1; i <= tt.pushes; i++ {
				h.Push(snapshot(fmt.Sprintf("v%d", i)))
			}

			if h.Len() != tt.wantLen {
				t.Errorf("expected len %d, got %d", tt.wantLen, h.Len())
			}
			if h.Index() != h.Len()-1 {
				t.Errorf("index %d should point at the newest entry", h.Index())
			}
			if h.entries[h.Index()].Title != tt.wantLast {
				t.Errorf("expected newest entry %s, got %s", tt.wantLast, h.entries[h.Index()].Title)
			}

			// Walk back to the oldest retained entry
			var oldest *form.Form
			for h.CanUndo() {
				oldest, _ = h.Undo()
			}
			wantOldest := fmt.Sprintf("v%d", tt.pushes+1-tt.wantLen)
			if oldest != nil && oldest.Title != wantOldest {
				t.Errorf("expected oldest %s, got %s", wantOldest, oldest.Title)
			}
		})
	}
}

func TestHistory_EntriesAreIsolated(t *testing.T) {
	h := NewHistory(5)
	live := snapshot("v0")
	h.Reset(live)

	live.Title = "mutated"
	live.Pages[0].ID = "changed"

	h.Push(snapshot("v1"))
	restored, _ := h.Undo()
	if restored.Title != "v0" || restored.Pages[0].ID != "p1" {
		t.Fatalf("stored entry was affected by later mutation: %+v", restored)
	}

	restored.Title = "scribble"
	h.Redo()
	again, _ := h.Undo()
	if again.Title != "v0" {
		t.Errorf("returned copy aliases stored entry: %s", again.Title)
	}
}

func TestHistory_UndoRedoAtEnds(t *testing.T) {
	h := NewHistory(5)
	h.Reset(snapshot("v0"))

	if _, ok := h.Undo(); ok {
		t.Error("undo at oldest entry should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Error("redo at newest entry should be a no-op")
	}
	if h.Index() != 0 {
		t.Errorf("cursor moved: %d", h.Index())
	}
}
