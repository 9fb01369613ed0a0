package frame

import (
	"sync/atomic"
	"time"

	"github.com/kjkrol/goko/pkg/input"
	"github.com/kjkrol/goko/pkg/scene"
	"go.uber.org/zap"
)

// Stepper advances an external physics world. The driver steps it inside
// the fixed-update guard, after scene dispatch.
type Stepper interface {
	Step(dt time.Duration)
}

// Driver adapts the render backend's frame callbacks onto the loop. Each
// phase holds an independent try-lock: when the previous dispatch for a
// phase has not finished by the time the next callback for that phase
// arrives, the new callback is dropped whole rather than queued. The calling
// thread never blocks; it only decides to submit or to shed.
type Driver struct {
	log    *zap.Logger
	loop   *Loop
	scene  *scene.Scene
	router *input.Router

	stepper Stepper

	busy    [phaseCount]atomic.Bool
	dropped [phaseCount]atomic.Uint64
}

func NewDriver(loop *Loop, s *scene.Scene, router *input.Router, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		log:    log,
		loop:   loop,
		scene:  s,
		router: router,
	}
}

// SetStepper attaches a physics world to advance each fixed-update.
func (d *Driver) SetStepper(s Stepper) { d.stepper = s }

// PreUpdate submits the pre-update dispatch. Reports false when shed.
func (d *Driver) PreUpdate(dt time.Duration) bool {
	return d.Submit(PhasePreUpdate, func() {
		d.scene.PreUpdate(dt)
	})
}

// Update flips the input snapshot, then dispatches the update phase.
func (d *Driver) Update(dt time.Duration) bool {
	return d.Submit(PhaseUpdate, func() {
		if d.router != nil {
			d.router.Flip()
		}
		d.scene.Update(dt)
	})
}

// FixedUpdate dispatches the fixed-update phase and then steps the physics
// world, keeping script-written motion and the simulation in lockstep.
func (d *Driver) FixedUpdate(dt time.Duration) bool {
	return d.Submit(PhaseFixedUpdate, func() {
		d.scene.FixedUpdate(dt)
		if d.stepper != nil {
			d.stepper.Step(dt)
		}
	})
}

// Submit runs task on the loop under the phase guard. At most one task per
// phase is in flight at any time; a busy guard sheds the call silently.
func (d *Driver) Submit(p Phase, task func()) bool {
	if !d.busy[p].CompareAndSwap(false, true) {
		d.dropped[p].Add(1)
		d.log.Debug("phase busy, callback dropped", zap.Stringer("phase", p))
		return false
	}
	ok := d.loop.Post(func() {
		defer d.busy[p].Store(false)
		task()
	})
	if !ok {
		d.busy[p].Store(false)
	}
	return ok
}

// Dropped reports how many callbacks were shed for the phase.
func (d *Driver) Dropped(p Phase) uint64 { return d.dropped[p].Load() }
