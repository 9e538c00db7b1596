package signals

import (
	"reflect"
	"time"
)

// Registry records connections and dispatches emits. One insertion-
// ordered bucket exists per payload signature; signatures never
// interact. Construct registries explicitly with NewRegistry and hand
// them to participants — there is no hidden process-wide instance.
//
// The registry performs no locking: dispatch is synchronous and a mutex
// would deadlock a slot that reentrantly disconnects during its own
// invocation. Single-goroutine use is assumed; anything else requires
// external synchronization.
//
// The registry does not track participant lifetimes. A participant that
// is discarded without DisconnectObject (or Meta.Destroy) leaves stale
// records behind, and a later emit will invoke slots on the stale
// receiver. Tearing down bindings before discarding a participant is a
// caller obligation.
type Registry struct {
	buckets   map[reflect.Type]connectionBucket
	observers []Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver registers an activity observer. Observers are invoked
// synchronously after each connect, disconnect, emit, and release.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// NewRegistry creates an empty connection registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		buckets: make(map[reflect.Type]connectionBucket),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the number of live connections across all signatures.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, b := range r.buckets {
		total += b.size()
	}
	return total
}

// connectionBucket is the type-erased view the registry keeps of each
// per-signature bucket.
type connectionBucket interface {
	size() int
	removeObject(obj Object) int
}

// bucket holds the insertion-ordered connections of one signature.
// Buckets are created on first connect and never removed from the
// registry map, so an emit snapshot can always consult the live bucket
// it started from.
type bucket[T any] struct {
	conns []*Connection[T]
}

func (b *bucket[T]) size() int {
	return len(b.conns)
}

func (b *bucket[T]) contains(c *Connection[T]) bool {
	for _, x := range b.conns {
		if x == c {
			return true
		}
	}
	return false
}

// removeObject drops every connection whose sender or receiver is obj.
func (b *bucket[T]) removeObject(obj Object) int {
	kept := make([]*Connection[T], 0, len(b.conns))
	removed := 0
	for _, c := range b.conns {
		if c.IsSender(obj) || c.IsReceiver(obj) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	b.conns = kept
	return removed
}

// bucketOf returns the live bucket for signature T, creating it when
// create is set.
func bucketOf[T any](r *Registry, create bool) *bucket[T] {
	key := signatureOf[T]()
	if existing, ok := r.buckets[key]; ok {
		return existing.(*bucket[T])
	}
	if !create {
		return nil
	}
	b := &bucket[T]{}
	r.buckets[key] = b
	return b
}

// Connect registers a binding from sender's signal to receiver's slot.
// The signal and slot must share payload type T, and the sender and
// receiver must be usable as the respective owner types S and R; both
// constraints are enforced at compile time. Duplicate registrations are
// kept: each append is an independent record.
func Connect[S Object, R Object, T any](r *Registry, sender S, receiver R, sig *Signal[S, T], slot *Slot[R, T]) {
	if r == nil {
		return
	}
	b := bucketOf[T](r, true)
	b.conns = append(b.conns, NewConnection(sender, receiver, sig, slot))

	signature := signatureOf[T]().String()
	metricsRecorder().RecordConnect(signature, sig.Name())
	r.notify(Activity{
		Kind:      ActivityConnect,
		Signature: signature,
		Signal:    sig.Name(),
		Slot:      slot.Name(),
	})
}

// Disconnect removes every record matching all four identities. It is
// not an error when nothing matches. Removal rebuilds the bucket in one
// pass, so repeated matches (duplicate registrations) all go in a
// single call and no record is skipped.
func Disconnect[S Object, R Object, T any](r *Registry, sender S, receiver R, sig *Signal[S, T], slot *Slot[R, T]) {
	if r == nil {
		return
	}
	b := bucketOf[T](r, false)
	if b == nil {
		return
	}

	kept := make([]*Connection[T], 0, len(b.conns))
	removed := 0
	for _, c := range b.conns {
		if c.IsSender(sender) && c.IsReceiver(receiver) && c.IsSignal(sig) && c.IsSlot(slot) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	b.conns = kept
	if removed == 0 {
		return
	}

	signature := signatureOf[T]().String()
	metricsRecorder().RecordDisconnect(signature, sig.Name(), removed)
	r.notify(Activity{
		Kind:      ActivityDisconnect,
		Signature: signature,
		Signal:    sig.Name(),
		Slot:      slot.Name(),
		Removed:   removed,
	})
}

// Emit invokes every slot connected to (sender, sig), in registration
// order, with arg. Iteration runs over a snapshot taken at the start of
// the emit; before each invocation the record is re-checked against the
// live bucket, so a slot that reentrantly disconnects records never
// causes an already-removed binding to fire. Connections added during
// the emit are not visited. A nil sender or signal is a no-op.
func Emit[S Object, T any](r *Registry, sender S, sig *Signal[S, T], arg T) {
	if r == nil || sig == nil || isNil(sender) {
		return
	}

	start := time.Now()
	delivered := 0
	if b := bucketOf[T](r, false); b != nil {
		snapshot := make([]*Connection[T], len(b.conns))
		copy(snapshot, b.conns)
		for _, c := range snapshot {
			if !c.IsSender(sender) || !c.IsSignal(sig) {
				continue
			}
			if !b.contains(c) {
				continue
			}
			c.FireSlot(arg)
			delivered++
		}
	}

	signature := signatureOf[T]().String()
	metricsRecorder().RecordEmit(signature, sig.Name(), delivered, time.Since(start))
	r.notify(Activity{
		Kind:      ActivityEmit,
		Signature: signature,
		Signal:    sig.Name(),
		Delivered: delivered,
	})
}

// DisconnectObject removes every record, in any bucket, whose sender or
// receiver is obj, and returns the number removed. Participants call
// this (directly or via Meta.Destroy) before they are discarded so the
// registry holds no stale identity references.
func DisconnectObject(r *Registry, obj Object) int {
	if r == nil || isNil(obj) {
		return 0
	}
	removed := 0
	for _, b := range r.buckets {
		removed += b.removeObject(obj)
	}
	if removed == 0 {
		return 0
	}
	metricsRecorder().RecordRelease(removed)
	r.notify(Activity{
		Kind:    ActivityRelease,
		Removed: removed,
	})
	return removed
}
