// Package formstate holds the live form document being edited together with
// its undo/redo history, selection and dirty state.
//
// An Engine is not safe for concurrent use. It must be owned by a single
// goroutine; see the session package for an actor that provides that.
// Mutations validate their targets before touching anything, so a rejected
// call leaves the form, history, selection and dirty flag exactly as they were.
package formstate

import (
	"log/slog"

	"formcraft/internal/config"
	"formcraft/internal/domain"
	"formcraft/internal/domain/models/form"

	"github.com/google/uuid"
)

// Option configures an Engine
type Option func(*Engine)

// WithHistoryCapacity bounds the number of retained history entries
func WithHistoryCapacity(n int) Option {
	return func(e *Engine) {
		e.history = NewHistory(n)
	}
}

// WithIDGenerator overrides how identifiers are minted for duplicated blocks and pages
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Engine applies structural edits to a form and tracks history, selection and dirty state
type Engine struct {
	logger    *slog.Logger
	newID     func() string
	form      *form.Form
	history   *History
	selection Selection
	dirty     bool
	revision  uint64
}

// NewEngine creates an engine with no form loaded
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger:  logger,
		newID:   uuid.NewString,
		history: NewHistory(config.DefaultHistoryCapacity),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize loads a copy of f, seeds history with it, clears dirty and
// selects the first page
func (e *Engine) Initialize(f *form.Form) {
	e.load(f)
	e.selection = Selection{}
	if e.form != nil && len(e.form.Pages) > 0 {
		e.selection.PageID = e.form.Pages[0].ID
	}
	e.logger.Debug("form initialized", "form_id", e.FormID())
}

// SetForm loads a copy of f like Initialize but keeps the current selection,
// dropping any selected ID the new form does not contain
func (e *Engine) SetForm(f *form.Form) {
	e.load(f)
	e.pruneSelection()
	e.logger.Debug("form replaced", "form_id", e.FormID())
}

func (e *Engine) load(f *form.Form) {
	e.form = f.Clone()
	e.history.Reset(e.form)
	e.dirty = false
	e.revision++
}

// Reset returns the engine to its pristine state with no form loaded
func (e *Engine) Reset() {
	e.form = nil
	e.history.Reset(nil)
	e.selection = Selection{}
	e.dirty = false
	e.revision++
	e.logger.Debug("engine reset")
}

// Loaded reports whether a form is loaded
func (e *Engine) Loaded() bool { return e.form != nil }

// Form returns a deep copy of the live form, nil when nothing is loaded.
// The copy may be handed to another goroutine.
func (e *Engine) Form() *form.Form { return e.form.Clone() }

// IsDirty reports whether changes were applied since load or the last clean mark
func (e *Engine) IsDirty() bool { return e.dirty }

// MarkClean clears the dirty flag
func (e *Engine) MarkClean() { e.dirty = false }

// Revision increments on every load, mutation, undo and redo
func (e *Engine) Revision() uint64 { return e.revision }

// MarkCleanAt clears the dirty flag only if nothing changed since rev was read.
// Returns whether the flag was cleared.
func (e *Engine) MarkCleanAt(rev uint64) bool {
	if rev != e.revision {
		return false
	}
	e.dirty = false
	return true
}

// Undo restores the previous history entry. Returns false when there is none.
func (e *Engine) Undo() bool {
	snapshot, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(snapshot, "undo")
	return true
}

// Redo restores the next history entry. Returns false when there is none.
func (e *Engine) Redo() bool {
	snapshot, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(snapshot, "redo")
	return true
}

func (e *Engine) restore(snapshot *form.Form, op string) {
	e.form = snapshot
	e.dirty = true
	e.revision++
	e.pruneSelection()
	e.logger.Debug("history moved",
		"op", op,
		"form_id", e.FormID(),
		"history_index", e.history.Index(),
	)
}

// CanUndo reports whether there is an older history entry
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether an undone entry can be restored
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// HistoryStatus returns the 1-based cursor position and the entry count
func (e *Engine) HistoryStatus() HistoryStatus { return e.history.Status() }

// commit records the live form as a new history entry after a successful mutation
func (e *Engine) commit(op string, attrs ...any) {
	e.history.Push(e.form)
	e.dirty = true
	e.revision++

	args := append([]any{
		"op", op,
		"form_id", e.form.ID,
		"history_index", e.history.Index(),
	}, attrs...)
	e.logger.Debug("form mutated", args...)
}

func (e *Engine) requireForm() error {
	if e.form == nil {
		return domain.ErrNotLoaded
	}
	return nil
}

// FormID is the loaded form's ID, "" when none is loaded
func (e *Engine) FormID() string {
	if e.form == nil {
		return ""
	}
	return e.form.ID
}

// insertAt inserts v at index, appending when index is negative or past the end
func insertAt[T any](items []T, index int, v T) ([]T, int) {
	if index < 0 || index > len(items) {
		index = len(items)
	}
	items = append(items, v)
	copy(items[index+1:], items[index:])
	items[index] = v
	return items, index
}

func removeAt[T any](items []T, index int) []T {
	return append(items[:index], items[index+1:]...)
}
