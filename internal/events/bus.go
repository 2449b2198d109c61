package events

import (
	"log/slog"
	"sync"

	"tonearm/internal/logging"
)

// Type enumerates the library state changes worth announcing.
type Type string

const (
	SyncCompleted Type = "sync_completed"
	SyncFailed    Type = "sync_failed"
	TrackRemoved  Type = "track_removed"
	CacheEvicted  Type = "cache_evicted"
	OrphansPruned Type = "orphans_pruned"
	LibraryWiped  Type = "library_wiped"
)

// Event carries a state change and optional detail fields.
type Event struct {
	Type    Type
	TrackID string
	Version int
	Count   int
	Err     error
}

// Callback receives published events.
type Callback func(Event)

// Bus fans events out to registered callbacks synchronously.
type Bus struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn Callback
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logging.NewComponentLogger(logger, "events")}
}

// Subscribe registers a callback and returns a function that removes it.
func (b *Bus) Subscribe(fn Callback) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every callback in registration order. A panicking callback
// is logged and skipped; later callbacks still run.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		b.invoke(sub, event)
	}
}

func (b *Bus) invoke(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event callback panicked",
				logging.String("event", string(event.Type)),
				logging.Any("panic", r))
		}
	}()
	sub.fn(event)
}
