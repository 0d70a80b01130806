// Package draft owns the local lifecycle of an in-progress inspection:
// keyed persistence (one draft per owner), the reentry policy that decides a
// reopened session's fate, and the debounced autosave scheduler.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dlebedev/checkride/internal/logging"
	"github.com/dlebedev/checkride/internal/record"
	"github.com/dlebedev/checkride/internal/repositories/localkv"
)

// Draft is the locally persisted in-progress record for one owner.
type Draft struct {
	OwnerID string        `json:"owner_id"`
	Record  record.Record `json:"record"`
	SavedAt time.Time     `json:"saved_at"`
}

func draftKey(ownerID string) string      { return "draft:" + ownerID }
func lastOpenedKey(ownerID string) string { return "last_opened:" + ownerID }

// Store persists one draft per owner over the local key-value repository.
// Semantics are last-write-wins: concurrent saves for the same owner simply
// overwrite, and each save replaces the previous value rather than
// appending.
type Store struct {
	kv     localkv.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewStore(kv localkv.Repository, logger logging.Logger) *Store {
	return &Store{kv: kv, logger: logger, now: time.Now}
}

// Save overwrites the owner's draft with rec, stamping SavedAt.
func (s *Store) Save(ctx context.Context, ownerID string, rec record.Record) error {
	d := Draft{OwnerID: ownerID, Record: rec, SavedAt: s.now().UTC()}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.kv.Put(ctx, draftKey(ownerID), data); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the owner's draft, or nil when none exists. A stored draft
// that no longer parses is treated as absent: the corrupt entry is discarded
// and the condition logged, never surfaced to the user.
func (s *Store) Load(ctx context.Context, ownerID string) (*Draft, error) {
	data, err := s.kv.Get(ctx, draftKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn(ctx, "discarding corrupt draft", "owner", ownerID, "error", err)
		if derr := s.kv.Delete(ctx, draftKey(ownerID)); derr != nil {
			s.logger.Error(ctx, "failed to discard corrupt draft", "owner", ownerID, "error", derr)
		}
		return nil, nil
	}
	return &d, nil
}

// Clear removes the owner's draft. Clearing an absent draft is a no-op.
func (s *Store) Clear(ctx context.Context, ownerID string) error {
	if err := s.kv.Delete(ctx, draftKey(ownerID)); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// SavedAt returns the timestamp of the last save, or ok=false when no draft
// exists.
func (s *Store) SavedAt(ctx context.Context, ownerID string) (time.Time, bool, error) {
	d, err := s.Load(ctx, ownerID)
	if err != nil || d == nil {
		return time.Time{}, false, err
	}
	return d.SavedAt, true, nil
}

// TouchLastOpened stamps the owner's last-opened marker. Called on session
// entry and exit; consumed only by the reentry policy.
func (s *Store) TouchLastOpened(ctx context.Context, ownerID string) error {
	ts := s.now().UTC().Format(time.RFC3339Nano)
	if err := s.kv.Put(ctx, lastOpenedKey(ownerID), []byte(ts)); err != nil {
		return fmt.Errorf("touch last opened: %w", err)
	}
	return nil
}

// LastOpened returns the owner's last-opened marker, or ok=false when absent
// or unreadable.
func (s *Store) LastOpened(ctx context.Context, ownerID string) (time.Time, bool, error) {
	data, err := s.kv.Get(ctx, lastOpenedKey(ownerID))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load last opened: %w", err)
	}
	if data == nil {
		return time.Time{}, false, nil
	}

	ts, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		s.logger.Warn(ctx, "discarding corrupt last-opened marker", "owner", ownerID, "error", err)
		return time.Time{}, false, nil
	}
	return ts, true, nil
}
