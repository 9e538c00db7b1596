package signals

// Connection is one registered binding from a sender's signal to a
// receiver's slot, all sharing payload type T. All four identity fields
// are set at construction and never mutated; matching is by identity,
// never by value. Connections are not deduplicated — registering the
// same tuple twice produces two independent records and double delivery.
type Connection[T any] struct {
	sender   Object
	receiver Object
	signal   any
	slot     any
	invoke   func(T)
}

// NewConnection builds a connection record. The type parameters carry
// the owner constraints: sender must be usable as the signal's owner
// type S, and receiver as the slot's owner type R, or the call does not
// compile.
func NewConnection[S Object, R Object, T any](sender S, receiver R, sig *Signal[S, T], slot *Slot[R, T]) *Connection[T] {
	c := &Connection[T]{
		sender:   sender,
		receiver: receiver,
		signal:   sig,
		slot:     slot,
	}
	if slot != nil && slot.fn != nil {
		fn := slot.fn
		c.invoke = func(arg T) { fn(receiver, arg) }
	}
	return c
}

// FireSlot invokes the slot on the receiver with arg. A nil receiver or
// nil slot identity silently suppresses the invocation.
func (c *Connection[T]) FireSlot(arg T) {
	if isNil(c.receiver) || isNil(c.slot) || c.invoke == nil {
		return
	}
	c.invoke(arg)
}

// IsSender reports whether sender is this connection's sender.
func (c *Connection[T]) IsSender(sender Object) bool {
	return c.sender == sender
}

// IsReceiver reports whether receiver is this connection's receiver.
func (c *Connection[T]) IsReceiver(receiver Object) bool {
	return c.receiver == receiver
}

// IsSignal reports whether sig is this connection's signal identity.
func (c *Connection[T]) IsSignal(sig any) bool {
	return c.signal == sig
}

// IsSlot reports whether slot is this connection's slot identity.
func (c *Connection[T]) IsSlot(slot any) bool {
	return c.slot == slot
}

// SignalName returns the connected signal's declared name, if any.
func (c *Connection[T]) SignalName() string {
	if n, ok := c.signal.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

// SlotName returns the connected slot's declared name, if any.
func (c *Connection[T]) SlotName() string {
	if n, ok := c.slot.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
