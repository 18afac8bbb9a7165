package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReporterInitializeSeedsNever(t *testing.T) {
	store := newFakeStore()
	r := NewReporter(store)

	r.Initialize(context.Background())

	snap := r.GetLastSyncStatus(context.Background())
	require.Equal(t, "Never", snap.Status)
	require.Empty(t, snap.Message)
}

func TestReporterInitializeKeepsExistingStatus(t *testing.T) {
	store := newFakeStore()
	store.meta[metaLastSyncStatus] = string(StatusSuccess)
	r := NewReporter(store)

	r.Initialize(context.Background())

	require.Equal(t, string(StatusSuccess), store.meta[metaLastSyncStatus])
}

func TestReporterPersistsTerminalStates(t *testing.T) {
	store := newFakeStore()
	r := NewReporter(store)

	r.Report(context.Background(), StatusSuccess, "all done", 100)

	snap := r.GetLastSyncStatus(context.Background())
	require.Equal(t, "Success", snap.Status)
	require.Equal(t, "all done", snap.Message)

	ts, err := time.Parse(time.RFC3339, snap.Timestamp)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestReporterStatusDefaultsToUnknown(t *testing.T) {
	store := newFakeStore()
	r := NewReporter(store)

	snap := r.GetLastSyncStatus(context.Background())
	require.Equal(t, "Unknown", snap.Status)
	require.Empty(t, snap.Message)
	require.Empty(t, snap.Timestamp)
}

func TestReporterReadFailureShapesAsError(t *testing.T) {
	store := newFakeStore()
	store.metaGetErr = errors.New("db gone")
	r := NewReporter(store)

	snap := r.GetLastSyncStatus(context.Background())
	require.Equal(t, "Error", snap.Status)
	require.Contains(t, snap.Message, "db gone")
}

func TestReporterPersistFailureDoesNotPropagate(t *testing.T) {
	store := newFakeStore()
	store.metaSetErr = errors.New("disk full")
	r := NewReporter(store)

	ch, cancel := r.Subscribe()
	defer cancel()

	// Must not panic and must still notify observers.
	r.Report(context.Background(), StatusRunning, "still going", 50)

	select {
	case ev := <-ch:
		require.Equal(t, StatusRunning, ev.Status)
	default:
		t.Fatal("observer did not receive the event")
	}
}

func TestReporterSubscribeReceivesEvents(t *testing.T) {
	store := newFakeStore()
	r := NewReporter(store)

	ch, cancel := r.Subscribe()
	r.Report(context.Background(), StatusRunning, "starting", 0)
	r.Report(context.Background(), StatusSuccess, "done", 100)

	ev := <-ch
	require.Equal(t, StatusRunning, ev.Status)
	require.Equal(t, 0, ev.Progress)

	ev = <-ch
	require.Equal(t, StatusSuccess, ev.Status)
	require.Equal(t, 100, ev.Progress)
	require.False(t, ev.Timestamp.IsZero())

	cancel()
	_, open := <-ch
	require.False(t, open, "unsubscribe must close the channel")
}

func TestReporterDropsEventsForSlowObserver(t *testing.T) {
	store := newFakeStore()
	r := NewReporter(store)

	ch, cancel := r.Subscribe()
	defer cancel()

	// Overflow the buffer; Report must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Report(context.Background(), StatusRunning, "tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Report blocked on a slow observer")
	}
	require.NotEmpty(t, ch)
}
