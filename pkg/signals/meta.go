package signals

// Destroyed is emitted immediately before a Meta participant is torn
// down. The sender identity is the participant's *Meta.
var Destroyed = NewSignal[*Meta, struct{}]("destroyed")

// Meta is the lifecycle-aware participant capability. Types that embed
// Meta gain Object conformance plus a Destroy that announces teardown
// and releases every binding involving this participant, discharging
// the registry's dangling-reference obligation.
type Meta struct {
	Base
}

// NewMeta creates the lifecycle capability bound to a registry.
func NewMeta(r *Registry) Meta {
	return Meta{Base: NewBase(r)}
}

// Destroy emits Destroyed and then disconnects every binding in which
// this participant is the sender or the receiver. Call it exactly once,
// when the owning object goes out of service.
func (m *Meta) Destroy() {
	r := m.SignalRegistry()
	Emit(r, m, Destroyed, struct{}{})
	DisconnectObject(r, m)
}
