// Package tap streams registry activity to in-process and websocket
// subscribers. Taps observe dispatch that already happened; they never
// deliver signals and cannot affect dispatch semantics.
package tap

import (
	"sync"
	"time"

	"github.com/slotwire/slotwire/pkg/signals"
)

// Event is the canonical activity payload delivered to tap subscribers.
type Event struct {
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Activity  signals.Activity `json:"activity"`
}

// Broadcaster fans events out to in-process subscribers.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewBroadcaster creates a broadcaster instance.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe subscribes to events with a buffered channel.
func (b *Broadcaster) Subscribe(buffer int) chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; !ok {
		return
	}
	delete(b.subscribers, ch)
	close(ch)
}

// Broadcast delivers an event to all subscribers, dropping on overflow
// so a slow subscriber never blocks dispatch. The sends happen under
// the read lock: Unsubscribe closes channels under the write lock, so a
// channel can never be closed while a send to it is in flight.
func (b *Broadcaster) Broadcast(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Tap adapts registry activity into broadcast events. Install it on a
// registry with signals.WithObserver.
type Tap struct {
	b *Broadcaster
}

// NewTap creates the registry-facing adapter for a broadcaster.
func NewTap(b *Broadcaster) *Tap {
	return &Tap{b: b}
}

// ObserveActivity forwards one activity record to subscribers.
func (t *Tap) ObserveActivity(act signals.Activity) {
	t.b.Broadcast(Event{
		Type:      "signal." + string(act.Kind),
		Timestamp: act.At,
		Activity:  act,
	})
}
