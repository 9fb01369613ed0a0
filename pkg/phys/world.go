// Package phys connects the scene graph to an external physics backend:
// opaque body handles, collider components and contact fan-out.
package phys

import (
	"time"

	"github.com/kjkrol/gokg/geom"
)

// BodyHandle is an opaque reference to a body owned by the physics backend.
// Handles are never reused within a world's lifetime.
type BodyHandle uint64

// ShapeKind selects the collider geometry.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// BodyDef describes a body to create. The simulation runs in the XY plane.
type BodyDef struct {
	Static     bool
	Mass       float64
	Shape      ShapeKind
	Radius     float64 // circle
	Width      float64 // box
	Height     float64 // box
	Position   geom.Vec[float64]
	Friction   float64
	Elasticity float64
}

// World is the surface the framework needs from a physics backend. Step is
// driven by the frame driver inside the fixed-update guard; contact
// callbacks flow through the listener.
type World interface {
	Step(dt time.Duration)
	SetListener(l ContactListener)

	CreateBody(def BodyDef) (BodyHandle, error)
	RemoveBody(h BodyHandle)
	BodyPosition(h BodyHandle) (geom.Vec[float64], bool)
	SetBodyPosition(h BodyHandle, p geom.Vec[float64])
	SetBodyVelocity(h BodyHandle, v geom.Vec[float64])
}

// ContactListener receives raw begin/end callbacks from the backend, on
// whatever thread the backend steps on.
type ContactListener interface {
	ContactBegin(a, b BodyHandle, point, normal geom.Vec[float64])
	ContactEnd(a, b BodyHandle)
}
