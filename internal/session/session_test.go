package session

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlebedev/checkride/internal/assetcache"
	"github.com/dlebedev/checkride/internal/common"
	"github.com/dlebedev/checkride/internal/draft"
	"github.com/dlebedev/checkride/internal/logging"
	"github.com/dlebedev/checkride/internal/record"
)

// memKV is an in-memory localkv.Repository for tests.
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fixture struct {
	kv     *memKV
	drafts *draft.Store
	deps   Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := newMemKV()
	logger := testLogger()
	drafts := draft.NewStore(kv, logger)

	deps := Deps{
		Drafts:          drafts,
		Scheduler:       draft.NewScheduler(drafts, logger, 10*time.Millisecond, nil),
		Classifier:      record.NewClassifier(record.DefaultLocator(), nil),
		Cache:           assetcache.New(t.TempDir()),
		Logger:          logger,
		LockPath:        filepath.Join(t.TempDir(), "session.lock"),
		ResumeThreshold: 30 * time.Second,
		FreshGrace:      50 * time.Millisecond,
	}
	return &fixture{kv: kv, drafts: drafts, deps: deps}
}

// markLastOpened plants a last-opened marker at an arbitrary point in the
// past, bypassing the store's clock.
func (f *fixture) markLastOpened(t *testing.T, owner string, at time.Time) {
	t.Helper()
	require.NoError(t, f.kv.Put(context.Background(),
		"last_opened:"+owner, []byte(at.UTC().Format(time.RFC3339Nano))))
}

func meaningfulRecord() record.Record {
	return record.Record{
		"vehicleInfo": map[string]any{"vin": "1HGBH41JXMN109186"},
	}
}

func TestOpen_NoDraftStartsFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.Equal(t, draft.FreshStart, s.Decision())
	assert.Equal(t, record.Record{}, s.Record())
}

func TestOpen_RecentSessionAutoResumes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, "u1", meaningfulRecord()))
	f.markLastOpened(t, "u1", time.Now().Add(-5*time.Second))

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.Equal(t, draft.AutoResume, s.Decision())
	assert.Equal(t, "1HGBH41JXMN109186",
		s.Record()["vehicleInfo"].(map[string]any)["vin"])
}

func TestOpen_StaleMeaningfulDraftPrompts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, "u1", meaningfulRecord()))
	f.markLastOpened(t, "u1", time.Now().Add(-10*time.Minute))

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.Equal(t, draft.PromptUser, s.Decision())
	assert.Nil(t, s.Record(), "record withheld until the user decides")

	// editing before the decision is an error
	require.Error(t, s.Mutate(record.Record{"a": "1"}))

	require.NoError(t, s.Resume(ctx))
	assert.Equal(t, "1HGBH41JXMN109186",
		s.Record()["vehicleInfo"].(map[string]any)["vin"])
	require.NoError(t, s.Mutate(record.Record{"notes": "resumed"}))
}

func TestOpen_StaleFlatDraftStillPrompts(t *testing.T) {
	// a draft holding only a top-level mileage entry is real work and must
	// survive a stale reopen as a prompt, never a silent discard
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, "u1", record.Record{"mileage": "15000"}))
	f.markLastOpened(t, "u1", time.Now().Add(-45*time.Second))

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.Equal(t, draft.PromptUser, s.Decision())

	require.NoError(t, s.Resume(ctx))
	assert.Equal(t, "15000", s.Record()["mileage"])
}

func TestOpen_StaleEmptyDraftStartsFreshSilently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// skeleton with no user work
	require.NoError(t, f.drafts.Save(ctx, "u1", record.Record{
		"vehicleInfo": map[string]any{"vin": "", "mileage": ""},
	}))
	f.markLastOpened(t, "u1", time.Now().Add(-10*time.Minute))

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s.Close(ctx)

	assert.Equal(t, draft.FreshStart, s.Decision())

	d, err := f.drafts.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d, "non-meaningful draft discarded on open")
}

func TestStartFresh_DiscardsDraftAndSuppressesAutosave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.drafts.Save(ctx, "u1", meaningfulRecord()))
	f.markLastOpened(t, "u1", time.Now().Add(-10*time.Minute))

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s.Close(ctx)
	require.Equal(t, draft.PromptUser, s.Decision())

	require.NoError(t, s.StartFresh(ctx))
	assert.Equal(t, record.Record{}, s.Record())

	d, err := f.drafts.Load(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, d)

	// the reset notification inside the grace window is never persisted
	require.NoError(t, s.Mutate(record.Record{}))
	time.Sleep(30 * time.Millisecond)
	d, err = f.drafts.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestOpen_SecondSessionRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	defer s1.Close(ctx)

	_, err = Open(ctx, f.deps, "u1")
	require.ErrorIs(t, err, common.ErrSessionActive)
}

func TestClose_FlushesPendingEditsAndReleasesLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// debounce long enough that only the close-time flush can write
	f.deps.Scheduler = draft.NewScheduler(f.drafts, testLogger(), time.Hour, nil)

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)

	require.NoError(t, s.Mutate(record.Record{"notes": "last words"}))
	require.NoError(t, s.Close(ctx))

	d, err := f.drafts.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "last words", d.Record["notes"])

	// the lock is free again
	s2, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)
	require.NoError(t, s2.Close(ctx))
}

func TestClose_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := Open(ctx, f.deps, "u1")
	require.NoError(t, err)

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	require.ErrorIs(t, s.Mutate(record.Record{"a": "1"}), common.ErrSessionClosed)
}
