package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlebedev/checkride/internal/record"
)

// fakeSaver records saves and can be told to fail.
type fakeSaver struct {
	mu    sync.Mutex
	saves []record.Record
	err   error
	block chan struct{} // when set, Save waits until closed
}

func (f *fakeSaver) Save(ctx context.Context, ownerID string, rec record.Record) error {
	f.mu.Lock()
	block := f.block
	err := f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, rec)
	return nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeSaver) last() record.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

const testDebounce = 20 * time.Millisecond

func waitState(t *testing.T, s *Scheduler, want SaveState) {
	t.Helper()
	require.Eventually(t, func() bool { return s.State() == want },
		time.Second, time.Millisecond, "expected state %v, got %v", want, s.State())
}

func TestScheduler_DebouncesRapidMutations(t *testing.T) {
	saver := &fakeSaver{}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	// a burst of edits within the debounce window collapses to one save
	for i := 0; i < 10; i++ {
		s.Notify(record.Record{"mileage": "15000", "edit": float64(i)})
		time.Sleep(time.Millisecond)
	}

	waitState(t, s, StateSaved)
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, float64(9), saver.last()["edit"], "the last snapshot wins")
}

func TestScheduler_StateTransitions(t *testing.T) {
	var mu sync.Mutex
	var seen []SaveState

	saver := &fakeSaver{}
	s := NewScheduler(saver, testLogger(), testDebounce, func(st SaveState) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	s.Notify(record.Record{"a": "1"})
	waitState(t, s, StateSaved)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []SaveState{StatePending, StateSaving, StateSaved}, seen)
}

func TestScheduler_ErrorAbsorbedAndRetriedOnNextMutation(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	s.Notify(record.Record{"a": "1"})
	waitState(t, s, StateError)

	// the failure is absorbed; a later mutation simply tries again
	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()

	s.Notify(record.Record{"a": "2"})
	waitState(t, s, StateSaved)
	assert.Equal(t, record.Record{"a": "2"}, saver.last())
}

func TestScheduler_DisabledWhenUnbound(t *testing.T) {
	saver := &fakeSaver{}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)

	s.Notify(record.Record{"a": "1"})
	time.Sleep(3 * testDebounce)

	assert.Equal(t, 0, saver.count(), "mutations before Bind are ignored")
	assert.Equal(t, StateIdle, s.State())
}

func TestScheduler_UnbindDropsPendingWrite(t *testing.T) {
	saver := &fakeSaver{}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)
	s.Bind(context.Background(), "u1")

	s.Notify(record.Record{"a": "1"})
	s.Unbind()

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, saver.count())
}

func TestScheduler_SuspendSwallowsFreshStartReset(t *testing.T) {
	saver := &fakeSaver{}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	s.Suspend(100 * time.Millisecond)

	// the reset notification during the grace window must not be persisted
	s.Notify(record.Record{})
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, saver.count())

	// after the grace window, autosave works again
	time.Sleep(100 * time.Millisecond)
	s.Notify(record.Record{"a": "1"})
	waitState(t, s, StateSaved)
	assert.Equal(t, 1, saver.count())
}

func TestScheduler_StaleSaveCannotClobberNewerPending(t *testing.T) {
	// A save that started before a newer mutation may complete, but it must
	// not move the state machine away from the newer mutation's pending
	// state.
	block := make(chan struct{})
	saver := &fakeSaver{block: block}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	s.Notify(record.Record{"a": "1"})
	waitState(t, s, StateSaving) // first write is now blocked in flight

	s.Notify(record.Record{"a": "2"}) // newer mutation arrives
	assert.Equal(t, StatePending, s.State())

	saver.mu.Lock()
	saver.block = nil
	saver.mu.Unlock()
	close(block) // stale write completes

	// the stale write's outcome is discarded; the newer write lands
	waitState(t, s, StateSaved)
	assert.Equal(t, record.Record{"a": "2"}, saver.last())
}

func TestScheduler_FlushWritesPendingImmediately(t *testing.T) {
	saver := &fakeSaver{}
	s := NewScheduler(saver, testLogger(), time.Hour, nil) // timer would never fire
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	s.Notify(record.Record{"a": "1"})
	require.Equal(t, StatePending, s.State())

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, saver.count())
	assert.Equal(t, StateSaved, s.State())

	// nothing pending: Flush is a no-op
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, 1, saver.count())
}

func TestScheduler_FlushRetriesSnapshotAfterError(t *testing.T) {
	// a write that failed leaves its snapshot behind; closing the session
	// must still try to persist it rather than drop the last edits
	saver := &fakeSaver{err: errors.New("disk full")}
	s := NewScheduler(saver, testLogger(), testDebounce, nil)
	s.Bind(context.Background(), "u1")
	defer s.Unbind()

	s.Notify(record.Record{"notes": "last words"})
	waitState(t, s, StateError)

	saver.mu.Lock()
	saver.err = nil
	saver.mu.Unlock()

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, StateSaved, s.State())
	assert.Equal(t, record.Record{"notes": "last words"}, saver.last())
}
