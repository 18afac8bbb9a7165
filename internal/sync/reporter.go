package sync

import (
	"context"
	"log"
	"sync"
	"time"
)

// Reporter pushes status snapshots to subscribed observers and
// persists the latest one so it survives process restarts. It holds
// no state of its own beyond the subscriber list.
type Reporter struct {
	mu     sync.Mutex
	store  Storage
	subs   map[int]chan Event
	nextID int
}

// NewReporter creates a reporter persisting through store.
func NewReporter(store Storage) *Reporter {
	return &Reporter{
		store: store,
		subs:  make(map[int]chan Event),
	}
}

// Subscribe registers an observer. The returned channel is buffered;
// events are dropped rather than blocking a slow consumer. The second
// return value unsubscribes and closes the channel.
func (r *Reporter) Subscribe() (<-chan Event, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	ch := make(chan Event, 16)
	r.subs[id] = ch

	unsubscribe := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if ch, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Report emits an event to all observers (a no-op with none attached)
// and persists the snapshot for the states worth recovering after a
// restart. Persistence failures are logged, never propagated.
func (r *Reporter) Report(ctx context.Context, status Status, message string, progress int) {
	ev := Event{
		Status:    status,
		Message:   message,
		Progress:  progress,
		Timestamp: time.Now(),
	}

	r.mu.Lock()
	for _, ch := range r.subs {
		select {
		case ch <- ev:
		default:
			// Slow observer, drop rather than stall the sync.
		}
	}
	r.mu.Unlock()

	switch status {
	case StatusRunning, StatusSuccess, StatusError, StatusSkipped:
		r.persist(ctx, ev)
	}
}

func (r *Reporter) persist(ctx context.Context, ev Event) {
	if err := r.store.SetMeta(ctx, metaLastSyncStatus, string(ev.Status)); err != nil {
		log.Printf("⚠️ Failed to persist sync status: %v", err)
		return
	}
	if err := r.store.SetMeta(ctx, metaLastSyncMessage, ev.Message); err != nil {
		log.Printf("⚠️ Failed to persist sync message: %v", err)
	}
	if err := r.store.SetMeta(ctx, metaLastSyncTimestamp, ev.Timestamp.Format(time.RFC3339)); err != nil {
		log.Printf("⚠️ Failed to persist sync timestamp: %v", err)
	}
}

// GetLastSyncStatus reconstructs the last known state from the store,
// possibly written by a previous process. Absent keys default rather
// than error; a failing read comes back as an Error-shaped snapshot.
func (r *Reporter) GetLastSyncStatus(ctx context.Context) StatusSnapshot {
	status, ok, err := r.store.GetMeta(ctx, metaLastSyncStatus)
	if err != nil {
		return StatusSnapshot{
			Status:  string(StatusError),
			Message: "failed to read sync status: " + err.Error(),
		}
	}
	if !ok {
		status = string(StatusUnknown)
	}

	message, _, err := r.store.GetMeta(ctx, metaLastSyncMessage)
	if err != nil {
		return StatusSnapshot{
			Status:  string(StatusError),
			Message: "failed to read sync status: " + err.Error(),
		}
	}
	timestamp, _, err := r.store.GetMeta(ctx, metaLastSyncTimestamp)
	if err != nil {
		return StatusSnapshot{
			Status:  string(StatusError),
			Message: "failed to read sync status: " + err.Error(),
		}
	}

	return StatusSnapshot{Status: status, Message: message, Timestamp: timestamp}
}

// Initialize seeds the persisted status with Never on the very first
// run so the UI always has a defined state.
func (r *Reporter) Initialize(ctx context.Context) {
	_, ok, err := r.store.GetMeta(ctx, metaLastSyncStatus)
	if err != nil {
		log.Printf("⚠️ Failed to read sync status during init: %v", err)
		return
	}
	if ok {
		return
	}
	if err := r.store.SetMeta(ctx, metaLastSyncStatus, string(StatusNever)); err != nil {
		log.Printf("⚠️ Failed to seed sync status: %v", err)
	}
}
