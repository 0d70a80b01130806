// Package session ties the draft lifecycle together for one owner: the
// single-instance lock, the reentry decision on open, autosave while editing,
// and the final flush on close.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/dlebedev/checkride/internal/assetcache"
	"github.com/dlebedev/checkride/internal/common"
	"github.com/dlebedev/checkride/internal/draft"
	"github.com/dlebedev/checkride/internal/filex"
	"github.com/dlebedev/checkride/internal/logging"
	"github.com/dlebedev/checkride/internal/record"
)

// Deps are the collaborators a session needs. All fields are required except
// ResumeThreshold and FreshGrace, which fall back to defaults when zero.
type Deps struct {
	Drafts     *draft.Store
	Scheduler  *draft.Scheduler
	Classifier *record.Classifier
	Cache      *assetcache.Cache
	Logger     logging.Logger

	// LockPath guards against two concurrent sessions over the same data dir.
	LockPath string

	ResumeThreshold time.Duration
	FreshGrace      time.Duration
}

// DefaultFreshGrace suppresses autosave right after a fresh start so the act
// of resetting the form is not persisted as user work.
const DefaultFreshGrace = 2 * time.Second

// Session is one owner's editing session. Not safe for concurrent use; the
// caller (a single UI loop) serializes access.
type Session struct {
	deps     Deps
	lock     *flock.Flock
	ownerID  string
	decision draft.Decision
	pending  *draft.Draft // held until Resume/StartFresh when prompting
	rec      record.Record
	resolved bool
	closed   bool
	now      func() time.Time
}

// Open acquires the session lock, evaluates the reentry policy, and returns a
// session ready to edit. When the decision is PromptUser the caller must call
// Resume or StartFresh before mutating; AutoResume and FreshStart sessions
// are ready immediately.
//
// Returns common.ErrSessionActive when another process holds the lock.
func Open(ctx context.Context, deps Deps, ownerID string) (*Session, error) {
	if deps.ResumeThreshold == 0 {
		deps.ResumeThreshold = draft.DefaultResumeThreshold
	}
	if deps.FreshGrace == 0 {
		deps.FreshGrace = DefaultFreshGrace
	}

	if err := filex.EnsureParentDir(deps.LockPath); err != nil {
		return nil, fmt.Errorf("prepare lock dir: %w", err)
	}
	lock := flock.New(deps.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, common.ErrSessionActive
	}

	s := &Session{deps: deps, lock: lock, ownerID: ownerID, now: time.Now}
	if err := s.open(ctx); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

func (s *Session) open(ctx context.Context) error {
	log := s.deps.Logger.With("owner", s.ownerID)

	lastOpened, seen, err := s.deps.Drafts.LastOpened(ctx, s.ownerID)
	if err != nil {
		return err
	}
	elapsed := draft.Elapsed(lastOpened, seen, s.now())

	d, err := s.deps.Drafts.Load(ctx, s.ownerID)
	if err != nil {
		return err
	}

	meaningful := d != nil && s.deps.Classifier.IsMeaningful(d.Record)
	s.decision = draft.Decide(elapsed, d != nil, meaningful, s.deps.ResumeThreshold)
	log.Info(ctx, "session opened",
		"decision", s.decision.String(),
		"elapsed", elapsed.String(),
		"has_draft", d != nil,
		"meaningful", meaningful)

	// Stamp reentry now so a crash mid-session still counts as activity.
	if err := s.deps.Drafts.TouchLastOpened(ctx, s.ownerID); err != nil {
		log.Warn(ctx, "failed to stamp last-opened marker", "error", err)
	}

	switch s.decision {
	case draft.AutoResume:
		s.rec = d.Record
		s.resolved = true
		s.deps.Scheduler.Bind(ctx, s.ownerID)
	case draft.PromptUser:
		s.pending = d
	default: // FreshStart
		if err := s.discard(ctx); err != nil {
			return err
		}
		s.rec = record.Record{}
		s.resolved = true
		s.deps.Scheduler.Bind(ctx, s.ownerID)
	}
	return nil
}

// Decision returns the reentry outcome computed at open.
func (s *Session) Decision() draft.Decision { return s.decision }

// Record returns the working record. Nil until a PromptUser session is
// resolved.
func (s *Session) Record() record.Record { return s.rec }

// Resume accepts the recovered draft after a PromptUser decision.
func (s *Session) Resume(ctx context.Context) error {
	if s.closed {
		return common.ErrSessionClosed
	}
	if s.resolved || s.pending == nil {
		return nil
	}
	s.rec = s.pending.Record
	s.pending = nil
	s.resolved = true
	s.deps.Scheduler.Bind(ctx, s.ownerID)
	return nil
}

// StartFresh discards any draft and cached assets and begins with an empty
// record. The scheduler is suspended for the grace window so the reset itself
// never lands in the store.
func (s *Session) StartFresh(ctx context.Context) error {
	if s.closed {
		return common.ErrSessionClosed
	}
	if !s.resolved {
		s.resolved = true
		s.deps.Scheduler.Bind(ctx, s.ownerID)
	}
	s.deps.Scheduler.Suspend(s.deps.FreshGrace)
	if err := s.discard(ctx); err != nil {
		return err
	}
	s.pending = nil
	s.rec = record.Record{}
	return nil
}

func (s *Session) discard(ctx context.Context) error {
	if err := s.deps.Drafts.Clear(ctx, s.ownerID); err != nil {
		return err
	}
	if err := s.deps.Cache.ClearAll(s.ownerID); err != nil {
		s.deps.Logger.Warn(ctx, "asset cache clear failed", "owner", s.ownerID, "error", err)
	}
	return nil
}

// Mutate applies an edited record snapshot and schedules an autosave.
func (s *Session) Mutate(rec record.Record) error {
	if s.closed {
		return common.ErrSessionClosed
	}
	if !s.resolved {
		return fmt.Errorf("session awaiting resume decision")
	}
	s.rec = rec
	s.deps.Scheduler.Notify(rec)
	return nil
}

// SaveState exposes the autosave status signal for the UI.
func (s *Session) SaveState() draft.SaveState { return s.deps.Scheduler.State() }

// Close flushes any pending autosave, stamps the last-opened marker, and
// releases the lock. Safe to call once; subsequent calls are no-ops.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	var flushErr error
	if s.resolved {
		flushErr = s.deps.Scheduler.Flush(ctx)
		s.deps.Scheduler.Unbind()
	}

	if err := s.deps.Drafts.TouchLastOpened(ctx, s.ownerID); err != nil {
		s.deps.Logger.Warn(ctx, "failed to stamp last-opened marker on close", "owner", s.ownerID, "error", err)
	}
	if err := s.lock.Unlock(); err != nil {
		s.deps.Logger.Warn(ctx, "failed to release session lock", "error", err)
	}
	return flushErr
}
