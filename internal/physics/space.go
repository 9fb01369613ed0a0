// Package physics adapts the Chipmunk2D port (jakecoffman/cp) to the
// phys.World surface. The space is stepped and mutated only on the frame
// loop goroutine, so no locking is needed.
package physics

import (
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/phys"
	"go.uber.org/zap"
)

// colliderType is the single collision type shared by all framework bodies;
// the pair handler then fires exactly once per arbiter.
const colliderType cp.CollisionType = 1

type entry struct {
	body  *cp.Body
	shape *cp.Shape
}

// Space implements phys.World over a cp.Space.
type Space struct {
	log      *zap.Logger
	space    *cp.Space
	listener phys.ContactListener

	bodies map[phys.BodyHandle]*entry
	next   uint64
}

var _ phys.World = (*Space)(nil)

func New(gravity geom.Vec[float64], log *zap.Logger) *Space {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Space{
		log:    log,
		space:  cp.NewSpace(),
		bodies: make(map[phys.BodyHandle]*entry),
	}
	s.space.SetGravity(cp.Vector{X: gravity.X, Y: gravity.Y})

	handler := s.space.NewCollisionHandler(colliderType, colliderType)
	handler.BeginFunc = s.begin
	handler.SeparateFunc = s.separate
	return s
}

func (s *Space) SetListener(l phys.ContactListener) { s.listener = l }

func (s *Space) Step(dt time.Duration) {
	s.space.Step(dt.Seconds())
}

func (s *Space) CreateBody(def phys.BodyDef) (phys.BodyHandle, error) {
	var body *cp.Body
	switch {
	case def.Static:
		body = cp.NewStaticBody()
	case def.Mass <= 0:
		return 0, fmt.Errorf("physics: dynamic body needs positive mass, got %v", def.Mass)
	default:
		body = cp.NewBody(def.Mass, momentFor(def))
	}
	body.SetPosition(cp.Vector{X: def.Position.X, Y: def.Position.Y})

	var shape *cp.Shape
	switch def.Shape {
	case phys.ShapeCircle:
		if def.Radius <= 0 {
			return 0, fmt.Errorf("physics: circle body needs positive radius, got %v", def.Radius)
		}
		shape = cp.NewCircle(body, def.Radius, cp.Vector{})
	case phys.ShapeBox:
		if def.Width <= 0 || def.Height <= 0 {
			return 0, fmt.Errorf("physics: box body needs positive extents, got %vx%v", def.Width, def.Height)
		}
		shape = cp.NewBox(body, def.Width, def.Height, 0)
	default:
		return 0, fmt.Errorf("physics: unknown shape kind %d", def.Shape)
	}
	shape.SetFriction(def.Friction)
	shape.SetElasticity(def.Elasticity)
	shape.SetCollisionType(colliderType)

	s.next++
	h := phys.BodyHandle(s.next)
	body.UserData = h

	s.space.AddBody(body)
	s.space.AddShape(shape)
	s.bodies[h] = &entry{body: body, shape: shape}
	return h, nil
}

func (s *Space) RemoveBody(h phys.BodyHandle) {
	e, ok := s.bodies[h]
	if !ok {
		return
	}
	s.space.RemoveShape(e.shape)
	s.space.RemoveBody(e.body)
	delete(s.bodies, h)
}

func (s *Space) BodyPosition(h phys.BodyHandle) (geom.Vec[float64], bool) {
	e, ok := s.bodies[h]
	if !ok {
		return geom.Vec[float64]{}, false
	}
	p := e.body.Position()
	return geom.NewVec(p.X, p.Y), true
}

func (s *Space) SetBodyPosition(h phys.BodyHandle, p geom.Vec[float64]) {
	if e, ok := s.bodies[h]; ok {
		e.body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
	}
}

func (s *Space) SetBodyVelocity(h phys.BodyHandle, v geom.Vec[float64]) {
	if e, ok := s.bodies[h]; ok {
		e.body.SetVelocity(v.X, v.Y)
	}
}

func (s *Space) begin(arb *cp.Arbiter, _ *cp.Space, _ any) bool {
	if s.listener == nil {
		return true
	}
	a, b := arb.Bodies()
	ha, oka := a.UserData.(phys.BodyHandle)
	hb, okb := b.UserData.(phys.BodyHandle)
	if !oka || !okb {
		return true
	}
	var point, normal geom.Vec[float64]
	if set := arb.ContactPointSet(); set.Count > 0 {
		point = geom.NewVec(set.Points[0].PointA.X, set.Points[0].PointA.Y)
		normal = geom.NewVec(set.Normal.X, set.Normal.Y)
	}
	s.listener.ContactBegin(ha, hb, point, normal)
	return true
}

func (s *Space) separate(arb *cp.Arbiter, _ *cp.Space, _ any) {
	if s.listener == nil {
		return
	}
	a, b := arb.Bodies()
	ha, oka := a.UserData.(phys.BodyHandle)
	hb, okb := b.UserData.(phys.BodyHandle)
	if !oka || !okb {
		return
	}
	s.listener.ContactEnd(ha, hb)
}

func momentFor(def phys.BodyDef) float64 {
	if def.Shape == phys.ShapeBox {
		return cp.MomentForBox(def.Mass, def.Width, def.Height)
	}
	return cp.MomentForCircle(def.Mass, 0, def.Radius, cp.Vector{})
}
