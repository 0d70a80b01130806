package draft

import (
	"context"
	"sync"
	"time"

	"github.com/dlebedev/checkride/internal/logging"
	"github.com/dlebedev/checkride/internal/record"
)

// SaveState is the autosave status signal exposed to the UI.
type SaveState int

const (
	StateIdle SaveState = iota
	// StatePending: a mutation arrived and the debounce timer is running.
	StatePending
	// StateSaving: a store write is in flight.
	StateSaving
	StateSaved
	// StateError: the last write failed; the next mutation retries.
	StateError
)

func (s SaveState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Saver is the slice of the draft store the scheduler drives.
type Saver interface {
	Save(ctx context.Context, ownerID string, rec record.Record) error
}

// Scheduler debounces record mutations into draft writes.
//
// Transitions: idle -> pending (mutation) -> saving (timer expiry) ->
// saved | error. Every mutation restarts the debounce window and invalidates
// any in-flight write's claim on the status signal: a save that started
// before the latest mutation may still complete, but it can no longer move
// the state machine. That generation check is what keeps rapid edits and
// slow writes from racing.
//
// A write failure is logged and absorbed; the session keeps running and the
// next mutation retries.
type Scheduler struct {
	store    Saver
	logger   logging.Logger
	debounce time.Duration
	onState  func(SaveState)

	mu             sync.Mutex
	ctx            context.Context
	ownerID        string
	enabled        bool
	suspendedUntil time.Time
	timer          *time.Timer
	snapshot       record.Record
	gen            uint64
	state          SaveState
	now            func() time.Time
}

// NewScheduler creates a scheduler. onState may be nil; when set it is
// invoked on every state change, outside the scheduler's lock.
func NewScheduler(store Saver, logger logging.Logger, debounce time.Duration, onState func(SaveState)) *Scheduler {
	return &Scheduler{
		store:    store,
		logger:   logger,
		debounce: debounce,
		onState:  onState,
		now:      time.Now,
	}
}

// Bind enables autosave for an owner. ctx is used for every store write the
// scheduler issues until Unbind.
func (s *Scheduler) Bind(ctx context.Context, ownerID string) {
	s.mu.Lock()
	s.ctx = ctx
	s.ownerID = ownerID
	s.enabled = true
	s.suspendedUntil = time.Time{}
	cb := s.setStateLocked(StateIdle)
	s.mu.Unlock()
	cb()
}

// Unbind disables autosave and drops any pending write.
func (s *Scheduler) Unbind() {
	s.mu.Lock()
	s.enabled = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.snapshot = nil
	cb := s.setStateLocked(StateIdle)
	s.mu.Unlock()
	cb()
}

// Suspend ignores mutations until d has passed. Used during the fresh-start
// transition so the act of clearing the form is not persisted as user data.
func (s *Scheduler) Suspend(d time.Duration) {
	s.mu.Lock()
	s.suspendedUntil = s.now().Add(d)
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.snapshot = nil
	s.mu.Unlock()
}

// Notify records a mutation: it snapshots rec and restarts the debounce
// timer. Cheap to call on every keystroke.
func (s *Scheduler) Notify(rec record.Record) {
	s.mu.Lock()
	if !s.enabled || s.now().Before(s.suspendedUntil) {
		s.mu.Unlock()
		return
	}

	s.gen++
	gen := s.gen
	s.snapshot = rec.Clone()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
	cb := s.setStateLocked(StatePending)
	s.mu.Unlock()
	cb()
}

// State returns the current status signal.
func (s *Scheduler) State() SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Flush writes any unsaved snapshot immediately, bypassing the debounce.
// Called on session exit so the last edits are never lost to a timer that
// had not fired yet, or to a final write that errored.
func (s *Scheduler) Flush(ctx context.Context) error {
	s.mu.Lock()
	if !s.enabled || s.snapshot == nil || (s.state != StatePending && s.state != StateError) {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	gen := s.gen
	rec := s.snapshot
	owner := s.ownerID
	cb := s.setStateLocked(StateSaving)
	s.mu.Unlock()
	cb()

	err := s.store.Save(ctx, owner, rec)
	s.finish(ctx, gen, err)
	return err
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if !s.enabled || gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	rec := s.snapshot
	owner := s.ownerID
	cb := s.setStateLocked(StateSaving)
	s.mu.Unlock()
	cb()

	err := s.store.Save(ctx, owner, rec)
	s.finish(ctx, gen, err)
}

func (s *Scheduler) finish(ctx context.Context, gen uint64, err error) {
	s.mu.Lock()
	// A newer mutation owns the state machine now; this write's outcome no
	// longer matters to the signal.
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	var cb func()
	if err != nil {
		cb = s.setStateLocked(StateError)
	} else {
		cb = s.setStateLocked(StateSaved)
		s.snapshot = nil
	}
	owner := s.ownerID
	s.mu.Unlock()
	cb()

	if err != nil {
		s.logger.Error(ctx, "autosave failed", "owner", owner, "error", err)
	}
}

// setStateLocked updates the state and returns the notification to run after
// the lock is released.
func (s *Scheduler) setStateLocked(st SaveState) func() {
	changed := s.state != st
	s.state = st
	if !changed || s.onState == nil {
		return func() {}
	}
	cb := s.onState
	return func() { cb(st) }
}
