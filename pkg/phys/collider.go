package phys

import (
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/scene"
)

// Collider creates a body in the world on Awake and registers it for
// contact resolution. The body's initial position is taken from the owning
// transform's world X/Y.
type Collider struct {
	scene.Base

	world World
	reg   *Registry
	def   BodyDef

	handle BodyHandle
	bound  bool
}

func NewCollider(world World, reg *Registry, def BodyDef) *Collider {
	return &Collider{world: world, reg: reg, def: def}
}

// Handle returns the backend body handle, zero until Awake has run.
func (c *Collider) Handle() BodyHandle { return c.handle }

func (c *Collider) Awake() {
	def := c.def
	wp := c.Object().Transform().WorldPosition()
	def.Position = geom.NewVec(wp[0], wp[1])
	h, err := c.world.CreateBody(def)
	if err != nil {
		return
	}
	c.handle = h
	c.bound = true
	c.reg.Register(h, c.Object())
}

func (c *Collider) OnDestroy() {
	if !c.bound {
		return
	}
	c.reg.Unregister(c.handle)
	c.world.RemoveBody(c.handle)
	c.bound = false
}
