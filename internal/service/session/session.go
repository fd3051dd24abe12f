// Package session gives a formstate.Engine a single owning goroutine and
// autosaves it. Callers never touch the engine directly: they send closures
// through Do, which run one at a time on the owner goroutine.
//
// Autosave is debounced. After the last mutation the session waits, takes a
// snapshot with its revision and hands it to the Saver on another goroutine.
// A successful save marks the engine clean only if nothing changed meanwhile;
// a failed save keeps it dirty and is retried after another debounce period.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"formcraft/internal/domain/models/form"
	"formcraft/internal/service/formstate"
)

// ErrClosed is returned by calls made after Close
var ErrClosed = errors.New("session closed")

// Saver persists a snapshot of the form, typically DraftStore.SaveDraft
type Saver func(ctx context.Context, f *form.Form) error

// Option configures a Session
type Option func(*Session)

// WithSaver enables autosave through saver
func WithSaver(saver Saver) Option {
	return func(s *Session) { s.saver = saver }
}

// WithDebounce sets how long the session waits after the last mutation before saving
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithSaveTimeout bounds a single save call
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

type request struct {
	fn     func(*formstate.Engine) error
	result chan error
}

type saveResult struct {
	revision uint64
	err      error
}

// Session owns an engine and serializes all access to it
type Session struct {
	engine      *formstate.Engine
	logger      *slog.Logger
	saver       Saver
	debounce    time.Duration
	saveTimeout time.Duration

	requests chan request
	results  chan saveResult
	quit     chan struct{}
	stopped  chan struct{}
	once     sync.Once

	// saveMu orders writes so an older snapshot never lands after a newer one
	saveMu   sync.Mutex
	savedRev uint64

	errMu   sync.Mutex
	lastErr error
}

// New starts a session that takes ownership of engine. The caller must not
// use engine directly afterwards.
func New(engine *formstate.Engine, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		engine:      engine,
		logger:      logger,
		debounce:    1500 * time.Millisecond,
		saveTimeout: 10 * time.Second,
		requests:    make(chan request),
		results:     make(chan saveResult, 1),
		quit:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

// Do runs fn on the owner goroutine and returns its error. If ctx ends after
// fn was handed over, fn still runs but Do returns ctx.Err().
func (s *Session) Do(ctx context.Context, fn func(*formstate.Engine) error) error {
	req := request{fn: fn, result: make(chan error, 1)}

	select {
	case s.requests <- req:
	case <-s.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a deep copy of the live form, nil when none is loaded.
// On error the owner goroutine may still be running the copy, so nothing is returned.
func (s *Session) Snapshot(ctx context.Context) (*form.Form, error) {
	var snapshot *form.Form
	err := s.Do(ctx, func(e *formstate.Engine) error {
		snapshot = e.Form()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Flush saves immediately when the form is dirty and waits for the result
func (s *Session) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}

	var (
		snapshot *form.Form
		revision uint64
	)
	err := s.Do(ctx, func(e *formstate.Engine) error {
		if e.Loaded() && e.IsDirty() {
			snapshot = e.Form()
			revision = e.Revision()
		}
		return nil
	})
	if err != nil || snapshot == nil {
		return err
	}

	if err := s.persist(ctx, snapshot, revision); err != nil {
		s.setLastErr(err)
		return err
	}
	s.setLastErr(nil)

	return s.Do(ctx, func(e *formstate.Engine) error {
		e.MarkCleanAt(revision)
		return nil
	})
}

// LastSaveError is the error from the most recent save, nil after a success
func (s *Session) LastSaveError() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

// Close stops the owner goroutine. Pending autosaves are abandoned; call
// Flush first to persist outstanding changes.
func (s *Session) Close() error {
	s.once.Do(func() { close(s.quit) })
	<-s.stopped
	return nil
}

func (s *Session) run() {
	defer close(s.stopped)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		saving  bool
		pending bool
	)
	schedule := func() {
		if s.saver == nil {
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(s.debounce)
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case req := <-s.requests:
			before := s.engine.Revision()
			req.result <- req.fn(s.engine)
			if s.engine.Revision() != before && s.engine.IsDirty() {
				schedule()
			}

		case <-timerC:
			timerC = nil
			if saving {
				pending = true
				continue
			}
			if !s.engine.Loaded() || !s.engine.IsDirty() {
				continue
			}
			saving = true
			s.startSave(s.engine.Form(), s.engine.Revision())

		case res := <-s.results:
			saving = false
			if res.err != nil {
				s.logger.Warn("autosave failed",
					"form_id", s.engine.FormID(),
					"revision", res.revision,
					"error", res.err,
				)
				schedule()
				continue
			}
			cleaned := s.engine.MarkCleanAt(res.revision)
			s.logger.Debug("autosaved",
				"form_id", s.engine.FormID(),
				"revision", res.revision,
				"clean", cleaned,
			)
			if pending || !cleaned {
				pending = false
				if s.engine.IsDirty() {
					schedule()
				}
			}

		case <-s.quit:
			return
		}
	}
}

func (s *Session) startSave(snapshot *form.Form, revision uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()

		err := s.persist(ctx, snapshot, revision)
		s.setLastErr(err)
		s.results <- saveResult{revision: revision, err: err}
	}()
}

// persist calls the saver unless a newer revision was already written
func (s *Session) persist(ctx context.Context, snapshot *form.Form, revision uint64) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if revision <= s.savedRev {
		return nil
	}
	if err := s.saver(ctx, snapshot); err != nil {
		return err
	}
	s.savedRev = revision
	return nil
}

func (s *Session) setLastErr(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}
