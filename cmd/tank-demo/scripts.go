package main

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/input"
	"github.com/kjkrol/goko/pkg/phys"
	"github.com/kjkrol/goko/pkg/scene"
)

// TankController reads the touch snapshot and drives the tank. Movement is
// written from FixedUpdate because the tank is rigidbody-driven; firing is
// plain gameplay and lives in Update.
type TankController struct {
	scene.Base

	router    *input.Router
	joyCenter geom.Vec[float64]
	speed     float64
	fire      func(from *scene.Object)

	body *phys.Rigidbody
}

func (t *TankController) Start() {
	t.body, _ = scene.Get[*phys.Rigidbody](t.Object())
}

func (t *TankController) FixedUpdate(time.Duration) {
	if t.body == nil {
		return
	}
	var v geom.Vec[float64]
	for _, touch := range t.router.Touches() {
		if touch.Target != "joystick" || touch.Phase == input.Ended || touch.Phase == input.Cancelled {
			continue
		}
		dx := touch.Pos.X - t.joyCenter.X
		dy := touch.Pos.Y - t.joyCenter.Y
		if n := math.Hypot(dx, dy); n > 1 {
			v = geom.NewVec(dx/n*t.speed, dy/n*t.speed)
		}
	}
	t.body.SetVelocity(v)
}

func (t *TankController) Update(time.Duration) {
	for _, touch := range t.router.Touches() {
		if touch.Target == "fire" && touch.Phase == input.Began {
			t.fire(t.Object())
		}
	}
}

// Projectile despawns on contact or when its lifetime runs out.
type Projectile struct {
	scene.Base

	ttl time.Duration
}

func (p *Projectile) Update(dt time.Duration) {
	p.ttl -= dt
	if p.ttl <= 0 {
		p.Object().Destroy()
	}
}

func (p *Projectile) OnContactBegin(phys.Contact) {
	p.Object().Destroy()
}

func (p *Projectile) OnContactEnd(phys.Contact) {}

// CameraFollow keeps the camera object trailing its target.
type CameraFollow struct {
	scene.Base

	target *scene.Object
	offset mgl64.Vec3
}

func (c *CameraFollow) PreUpdate(time.Duration) {
	if c.target == nil || c.target.Destroyed() {
		return
	}
	c.Object().Transform().SetPosition(c.target.Transform().WorldPosition().Add(c.offset))
}
