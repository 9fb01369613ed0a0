package phys

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/scene"
)

// Rigidbody keeps a transform and its collider's body in sync. Scripts set
// the desired velocity; it is pushed to the body every fixed-update, before
// the physics step, and the resulting pose is pulled back into the transform
// on the following pre-update. Scripts moving a rigidbody-driven object must
// do so from FixedUpdate to stay consistent with the simulation.
type Rigidbody struct {
	scene.Base

	world    World
	collider *Collider
	velocity geom.Vec[float64]
}

func NewRigidbody(world World) *Rigidbody {
	return &Rigidbody{world: world}
}

// SetVelocity stores the velocity applied on the next fixed-update.
func (r *Rigidbody) SetVelocity(v geom.Vec[float64]) { r.velocity = v }

func (r *Rigidbody) Velocity() geom.Vec[float64] { return r.velocity }

// Start binds the sibling collider; colliders and rigidbodies may be added
// in any order, even frames apart, since the update hooks retry the lookup
// until a bound collider appears.
func (r *Rigidbody) Start() {
	r.bind()
}

func (r *Rigidbody) bind() bool {
	if r.collider != nil {
		return true
	}
	if c, ok := scene.Get[*Collider](r.Object()); ok && c.bound {
		r.collider = c
	}
	return r.collider != nil
}

func (r *Rigidbody) FixedUpdate(time.Duration) {
	if !r.bind() {
		return
	}
	r.world.SetBodyVelocity(r.collider.handle, r.velocity)
}

func (r *Rigidbody) PreUpdate(time.Duration) {
	if !r.bind() {
		return
	}
	p, ok := r.world.BodyPosition(r.collider.handle)
	if !ok {
		return
	}
	t := r.Object().Transform()
	old := t.Position()
	t.SetPosition(mgl64.Vec3{p.X, p.Y, old[2]})
}

// Teleport moves the body and the transform together, outside the
// simulation.
func (r *Rigidbody) Teleport(p geom.Vec[float64]) {
	t := r.Object().Transform()
	old := t.Position()
	t.SetPosition(mgl64.Vec3{p.X, p.Y, old[2]})
	if r.collider != nil {
		r.world.SetBodyPosition(r.collider.handle, p)
	}
}
