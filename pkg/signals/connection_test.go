package signals

import "testing"

func TestConnectionFireSlot(t *testing.T) {
	reg := NewRegistry()
	btn := newButton(reg, "front")
	bell := newChime(reg)

	c := NewConnection(btn, bell, pressed, ring)
	c.FireSlot(5)
	c.FireSlot(6)

	if len(bell.notes) != 2 || bell.notes[0] != 5 || bell.notes[1] != 6 {
		t.Errorf("expected both invocations delivered, got %v", bell.notes)
	}
}

func TestConnectionIdentityPredicates(t *testing.T) {
	reg := NewRegistry()
	btn := newButton(reg, "front")
	other := newButton(reg, "back")
	bell := newChime(reg)
	stranger := newChime(reg)

	otherSignal := NewSignal[*button, int]("pressed")
	otherSlot := NewSlot[*chime, int]("ring", ring.fn)

	c := NewConnection(btn, bell, pressed, ring)

	if !c.IsSender(btn) || c.IsSender(other) {
		t.Error("sender identity predicate wrong")
	}
	if !c.IsReceiver(bell) || c.IsReceiver(stranger) {
		t.Error("receiver identity predicate wrong")
	}
	// Identity is the handle pointer, not the name: a second signal or
	// slot declared with the same name never matches.
	if !c.IsSignal(pressed) || c.IsSignal(otherSignal) {
		t.Error("signal identity predicate wrong")
	}
	if !c.IsSlot(ring) || c.IsSlot(otherSlot) {
		t.Error("slot identity predicate wrong")
	}
}

func TestConnectionNilReceiverSuppressesInvocation(t *testing.T) {
	reg := NewRegistry()
	btn := newButton(reg, "front")

	invoked := false
	tattle := NewSlot[*chime, int]("tattle", func(*chime, int) {
		invoked = true
	})

	var nobody *chime
	c := NewConnection(btn, nobody, pressed, tattle)
	c.FireSlot(1)

	if invoked {
		t.Error("nil receiver must suppress invocation")
	}
}

func TestConnectionNilSlotSuppressesInvocation(t *testing.T) {
	reg := NewRegistry()
	btn := newButton(reg, "front")
	bell := newChime(reg)

	c := NewConnection[*button, *chime, int](btn, bell, pressed, nil)
	c.FireSlot(1)

	if len(bell.notes) != 0 {
		t.Errorf("nil slot must suppress invocation, got %v", bell.notes)
	}
}

func TestConnectionNames(t *testing.T) {
	reg := NewRegistry()
	btn := newButton(reg, "front")
	bell := newChime(reg)

	c := NewConnection(btn, bell, pressed, ring)
	if c.SignalName() != "pressed" {
		t.Errorf("expected signal name pressed, got %q", c.SignalName())
	}
	if c.SlotName() != "ring" {
		t.Errorf("expected slot name ring, got %q", c.SlotName())
	}
}
