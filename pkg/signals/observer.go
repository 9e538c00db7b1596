package signals

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind classifies a registry activity record.
type ActivityKind string

const (
	// ActivityConnect records a new binding.
	ActivityConnect ActivityKind = "connect"
	// ActivityDisconnect records removal of matching bindings.
	ActivityDisconnect ActivityKind = "disconnect"
	// ActivityEmit records a signal dispatch.
	ActivityEmit ActivityKind = "emit"
	// ActivityRelease records a whole-object teardown (DisconnectObject).
	ActivityRelease ActivityKind = "release"
)

// Activity is one observable registry operation. Activities describe
// dispatch that already happened; observers cannot alter it.
type Activity struct {
	ID        string       `json:"id"`
	Kind      ActivityKind `json:"kind"`
	Signature string       `json:"signature,omitempty"`
	Signal    string       `json:"signal,omitempty"`
	Slot      string       `json:"slot,omitempty"`
	Delivered int          `json:"delivered,omitempty"`
	Removed   int          `json:"removed,omitempty"`
	At        time.Time    `json:"at"`
}

// Observer receives activity records. Observers run synchronously on
// the dispatching goroutine and must not block; hand work off to a
// channel or goroutine if it can be slow.
type Observer interface {
	ObserveActivity(act Activity)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(act Activity)

// ObserveActivity calls f(act).
func (f ObserverFunc) ObserveActivity(act Activity) {
	f(act)
}

func (r *Registry) notify(act Activity) {
	if len(r.observers) == 0 {
		return
	}
	act.ID = uuid.NewString()
	act.At = time.Now().UTC()
	for _, o := range r.observers {
		o.ObserveActivity(act)
	}
}
