package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"formcraft/internal/domain/models/form"
	"formcraft/internal/service/formstate"
)

const testDebounce = 20 * time.Millisecond

type recordingSaver struct {
	mu     sync.Mutex
	saved  []*form.Form
	fail   error
	block  chan struct{}
	called chan struct{}
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{called: make(chan struct{}, 16)}
}

func (r *recordingSaver) save(ctx context.Context, f *form.Form) error {
	select {
	case r.called <- struct{}{}:
	default:
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.saved = append(r.saved, f)
	return nil
}

func (r *recordingSaver) setFail(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func (r *recordingSaver) last() *form.Form {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return nil
	}
	return r.saved[len(r.saved)-1]
}

func newTestSession(t *testing.T, saver *recordingSaver, extra ...Option) *Session {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := formstate.NewEngine(logger)
	engine.Initialize(&form.Form{
		ID:    "form-1",
		Pages: []form.Page{{ID: "p1", Blocks: []form.Block{{ID: "b1", Type: form.BlockShortText}}}},
	})

	opts := []Option{WithDebounce(testDebounce), WithSaveTimeout(time.Second)}
	if saver != nil {
		opts = append(opts, WithSaver(saver.save))
	}
	opts = append(opts, extra...)
	s := New(engine, logger, opts...)
	t.Cleanup(func() { s.Close() })
	return s
}

func addBlock(id string) func(*formstate.Engine) error {
	return func(e *formstate.Engine) error {
		return e.AddBlock(form.Block{ID: id, Type: form.BlockLongText}, "p1")
	}
}

func isDirty(t *testing.T, s *Session) bool {
	t.Helper()
	var dirty bool
	if err := s.Do(context.Background(), func(e *formstate.Engine) error {
		dirty = e.IsDirty()
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	return dirty
}

// waitFor polls cond until it holds or a second passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSession_DoReturnsMutationError(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	if err := s.Do(ctx, addBlock("b2")); err != nil {
		t.Fatalf("Do: %v", err)
	}
	err := s.Do(ctx, func(e *formstate.Engine) error { return e.DeleteBlock("missing") })
	if err == nil {
		t.Fatal("expected the engine error to be returned")
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.Pages[0].Blocks) != 2 {
		t.Errorf("expected 2 blocks, got %d", len(snapshot.Pages[0].Blocks))
	}
}

func TestSession_AutosaveDebounces(t *testing.T) {
	saver := newRecordingSaver()
	s := newTestSession(t, saver)
	ctx := context.Background()

	for _, id := range []string{"b2", "b3", "b4"} {
		if err := s.Do(ctx, addBlock(id)); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, "autosave", func() bool { return saver.count() == 1 })
	waitFor(t, "clean", func() bool { return !isDirty(t, s) })

	if got := len(saver.last().Pages[0].Blocks); got != 4 {
		t.Errorf("saved snapshot should include every mutation, got %d blocks", got)
	}

	time.Sleep(3 * testDebounce)
	if saver.count() != 1 {
		t.Errorf("burst of mutations should produce one save, got %d", saver.count())
	}
}

func TestSession_NoSaveWithoutChanges(t *testing.T) {
	saver := newRecordingSaver()
	s := newTestSession(t, saver)

	if err := s.Do(context.Background(), func(e *formstate.Engine) error {
		e.SelectBlock("b1")
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	time.Sleep(3 * testDebounce)
	if saver.count() != 0 {
		t.Errorf("selection changes must not trigger a save, got %d", saver.count())
	}
}

func TestSession_FailedSaveStaysDirtyAndRetries(t *testing.T) {
	saver := newRecordingSaver()
	saver.setFail(errors.New("redis down"))
	s := newTestSession(t, saver)

	if err := s.Do(context.Background(), addBlock("b2")); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "save error", func() bool { return s.LastSaveError() != nil })
	if !isDirty(t, s) {
		t.Error("failed save must leave the form dirty")
	}

	saver.setFail(nil)
	waitFor(t, "retry", func() bool { return saver.count() == 1 })
	waitFor(t, "clean", func() bool { return !isDirty(t, s) })
	if s.LastSaveError() != nil {
		t.Errorf("successful retry should clear the error, got %v", s.LastSaveError())
	}
}

func TestSession_MutationDuringSaveKeepsDirty(t *testing.T) {
	saver := newRecordingSaver()
	saver.block = make(chan struct{})
	s := newTestSession(t, saver)
	ctx := context.Background()

	if err := s.Do(ctx, addBlock("b2")); err != nil {
		t.Fatal(err)
	}
	<-saver.called

	// Lands after the snapshot was taken
	if err := s.Do(ctx, addBlock("b3")); err != nil {
		t.Fatal(err)
	}
	saver.block <- struct{}{}

	waitFor(t, "first save", func() bool { return saver.count() == 1 })
	if !isDirty(t, s) {
		t.Error("change made during the save must keep the form dirty")
	}

	<-saver.called
	saver.block <- struct{}{}
	waitFor(t, "second save", func() bool { return saver.count() == 2 })
	waitFor(t, "clean", func() bool { return !isDirty(t, s) })
	if got := len(saver.last().Pages[0].Blocks); got != 3 {
		t.Errorf("second save should include the late change, got %d blocks", got)
	}
}

func TestSession_Flush(t *testing.T) {
	saver := newRecordingSaver()
	s := newTestSession(t, saver, WithDebounce(time.Hour))
	ctx := context.Background()

	if err := s.Flush(ctx); err != nil || saver.count() != 0 {
		t.Fatalf("flushing a clean form should do nothing: err=%v saves=%d", err, saver.count())
	}

	if err := s.Do(ctx, addBlock("b2")); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if saver.count() != 1 || isDirty(t, s) {
		t.Errorf("flush should save and mark clean: saves=%d", saver.count())
	}
}

func TestSession_Close(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Do(context.Background(), addBlock("b2")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestSession_DoHonoursContext(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	go s.Do(ctx, func(e *formstate.Engine) error {
		close(started)
		<-release
		return nil
	})
	<-started
	defer close(release)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := s.Do(short, addBlock("b2")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded while the owner is busy, got %v", err)
	}
}

func TestSession_SnapshotWithCancelledContext(t *testing.T) {
	s := newTestSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either select branch may win; a failed call must never hand back a form
	for i := 0; i < 100; i++ {
		f, err := s.Snapshot(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if f != nil {
				t.Fatal("a failed snapshot must not return a form")
			}
			continue
		}
		if f == nil || f.ID == "" {
			t.Fatalf("a successful snapshot must return the form, got %+v", f)
		}
	}
}
