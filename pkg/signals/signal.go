// Package signals provides typed in-process signal/slot dispatch.
//
// Participants embed Base to gain the shared capability, declare Signal
// identities for the events they emit, and register Slot identities for
// the methods that should run when a connected signal fires. A Registry
// records the connections and dispatches emits synchronously, in
// registration order.
//
// The Registry is not safe for concurrent use. Dispatch is synchronous
// and reentrant: a slot invoked during an emit may connect, disconnect,
// or emit on the same registry from the same goroutine. Callers that
// share a registry across goroutines must synchronize externally.
package signals

import "reflect"

// Object is the shared base capability every sender and receiver derives.
// Two Objects are the same participant when they compare equal as
// interface values, which for the usual pointer participants is pointer
// identity.
type Object interface {
	// SignalRegistry returns the registry this participant dispatches on.
	SignalRegistry() *Registry
}

// Base is the embeddable participant capability. Any type that embeds
// Base satisfies Object and can act as a sender or receiver.
type Base struct {
	registry *Registry
}

// NewBase creates the participant capability bound to a registry.
func NewBase(r *Registry) Base {
	return Base{registry: r}
}

// SignalRegistry returns the registry this participant is bound to.
func (b *Base) SignalRegistry() *Registry {
	return b.registry
}

// Signal identifies a named event declared for sender owner type S with
// payload type T. Declare signals once, typically as package-level
// variables; the pointer is the signal's identity. Owners may be
// interface types, in which case any implementation can send the signal.
//
// Multi-argument events are modeled as struct payloads. Payload types
// partition the registry: signals with different payload types never
// interact, even if their identities coincidentally alias.
type Signal[S Object, T any] struct {
	name string
}

// NewSignal declares a signal identity.
func NewSignal[S Object, T any](name string) *Signal[S, T] {
	return &Signal[S, T]{name: name}
}

// Name returns the signal's declared name.
func (s *Signal[S, T]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Emit fires the signal on behalf of sender, invoking every connected
// slot with arg. See Emit for the dispatch contract.
func (s *Signal[S, T]) Emit(r *Registry, sender S, arg T) {
	Emit(r, sender, s, arg)
}

// Slot identifies a bound-method style callback declared for receiver
// owner type R with payload type T. The pointer is the slot's identity;
// declare slots once per logical method, typically as package-level
// variables next to the receiver type.
type Slot[R Object, T any] struct {
	name string
	fn   func(R, T)
}

// NewSlot declares a slot identity wrapping fn, which is invoked with
// the connected receiver and the emitted payload.
func NewSlot[R Object, T any](name string, fn func(R, T)) *Slot[R, T] {
	return &Slot[R, T]{name: name, fn: fn}
}

// Name returns the slot's declared name.
func (s *Slot[R, T]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// signatureOf returns the bucket key for payload type T.
func signatureOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// isNil reports whether v is nil, including typed nil pointers boxed in
// an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
