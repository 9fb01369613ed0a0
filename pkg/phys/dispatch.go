package phys

import (
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/frame"
	"github.com/kjkrol/goko/pkg/scene"
	"go.uber.org/zap"
)

// Contact is the transient event delivered to ContactHandler components.
// Other is nil when the opposite body no longer resolves to a live object.
type Contact struct {
	Self   *scene.Object
	Other  *scene.Object
	Point  geom.Vec[float64]
	Normal geom.Vec[float64]
}

// ContactHandler is the hook interface for collider-capable components.
type ContactHandler interface {
	OnContactBegin(c Contact)
	OnContactEnd(c Contact)
}

// Submitter marshals a task onto the loop under a phase guard; the frame
// driver implements it.
type Submitter interface {
	Submit(p frame.Phase, task func()) bool
}

// Dispatcher fans physics contact callbacks out to the touching bodies'
// owning objects. Resolution happens inside the submitted task, on the loop
// goroutine, so a body destroyed between callback and dispatch is observed
// as stale and its side dropped silently.
type Dispatcher struct {
	log *zap.Logger
	reg *Registry
	sub Submitter
}

var _ ContactListener = (*Dispatcher)(nil)

func NewDispatcher(reg *Registry, sub Submitter, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{log: log, reg: reg, sub: sub}
}

func (d *Dispatcher) ContactBegin(a, b BodyHandle, point, normal geom.Vec[float64]) {
	d.sub.Submit(frame.PhaseContactBegin, func() {
		d.fanOut(true, a, b, point, normal)
	})
}

func (d *Dispatcher) ContactEnd(a, b BodyHandle) {
	d.sub.Submit(frame.PhaseContactEnd, func() {
		d.fanOut(false, a, b, geom.Vec[float64]{}, geom.Vec[float64]{})
	})
}

func (d *Dispatcher) fanOut(begin bool, a, b BodyHandle, point, normal geom.Vec[float64]) {
	oa, oka := d.reg.Resolve(a)
	ob, okb := d.reg.Resolve(b)
	if !oka && !okb {
		d.log.Debug("contact against torn-down bodies dropped",
			zap.Uint64("bodyA", uint64(a)), zap.Uint64("bodyB", uint64(b)))
		return
	}
	if oka {
		d.deliver(begin, Contact{Self: oa, Other: ob, Point: point, Normal: normal})
	}
	if okb {
		d.deliver(begin, Contact{Self: ob, Other: oa, Point: point, Normal: normal})
	}
}

func (d *Dispatcher) deliver(begin bool, c Contact) {
	if !c.Self.Active() {
		return
	}
	for _, comp := range c.Self.Components() {
		if comp.State() != scene.StateEnabled {
			continue
		}
		h, ok := comp.(ContactHandler)
		if !ok {
			continue
		}
		if begin {
			h.OnContactBegin(c)
		} else {
			h.OnContactEnd(c)
		}
	}
}
