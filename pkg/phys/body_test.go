package phys_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/phys"
	"github.com/kjkrol/goko/pkg/scene"
)

// fakeWorld records body operations; positions echo what was last set.
type fakeWorld struct {
	next       phys.BodyHandle
	created    map[phys.BodyHandle]phys.BodyDef
	positions  map[phys.BodyHandle]geom.Vec[float64]
	velocities map[phys.BodyHandle]geom.Vec[float64]
	removed    []phys.BodyHandle
	failNext   bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		created:    make(map[phys.BodyHandle]phys.BodyDef),
		positions:  make(map[phys.BodyHandle]geom.Vec[float64]),
		velocities: make(map[phys.BodyHandle]geom.Vec[float64]),
	}
}

func (w *fakeWorld) Step(time.Duration)               {}
func (w *fakeWorld) SetListener(phys.ContactListener) {}

func (w *fakeWorld) CreateBody(def phys.BodyDef) (phys.BodyHandle, error) {
	if w.failNext {
		w.failNext = false
		return 0, errCreate
	}
	w.next++
	w.created[w.next] = def
	w.positions[w.next] = def.Position
	return w.next, nil
}

func (w *fakeWorld) RemoveBody(h phys.BodyHandle) {
	w.removed = append(w.removed, h)
	delete(w.positions, h)
}

func (w *fakeWorld) BodyPosition(h phys.BodyHandle) (geom.Vec[float64], bool) {
	p, ok := w.positions[h]
	return p, ok
}

func (w *fakeWorld) SetBodyPosition(h phys.BodyHandle, p geom.Vec[float64]) {
	w.positions[h] = p
}

func (w *fakeWorld) SetBodyVelocity(h phys.BodyHandle, v geom.Vec[float64]) {
	w.velocities[h] = v
}

var errCreate = errors.New("create failed")

func TestColliderRegistersBodyOnAwake(t *testing.T) {
	sc := scene.New(nil)
	world := newFakeWorld()
	reg := phys.NewRegistry()

	o := sc.NewObject("crate")
	o.Transform().SetPosition(mgl64.Vec3{7, 8, 0})
	col := phys.NewCollider(world, reg, phys.BodyDef{Shape: phys.ShapeCircle, Radius: 2, Mass: 1})
	if err := o.Add(col); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if col.Handle() == 0 {
		t.Fatal("collider did not create a body on awake")
	}
	def := world.created[col.Handle()]
	if def.Position.X != 7 || def.Position.Y != 8 {
		t.Fatalf("body spawned at %v, want the transform's world position", def.Position)
	}
	if owner, ok := reg.Resolve(col.Handle()); !ok || owner != o {
		t.Fatal("collider did not register its handle")
	}
}

func TestColliderUnregistersOnDestroy(t *testing.T) {
	sc := scene.New(nil)
	world := newFakeWorld()
	reg := phys.NewRegistry()

	o := sc.NewObject("crate")
	col := phys.NewCollider(world, reg, phys.BodyDef{Shape: phys.ShapeCircle, Radius: 1, Mass: 1})
	o.Add(col)
	h := col.Handle()

	o.Destroy()
	sc.Update(time.Millisecond) // reap

	if _, ok := reg.Resolve(h); ok {
		t.Fatal("handle still resolves after teardown")
	}
	if len(world.removed) != 1 || world.removed[0] != h {
		t.Fatal("body not removed from the world")
	}
}

func TestColliderConstructionFailureLeavesItUnbound(t *testing.T) {
	sc := scene.New(nil)
	world := newFakeWorld()
	world.failNext = true
	reg := phys.NewRegistry()

	o := sc.NewObject("crate")
	col := phys.NewCollider(world, reg, phys.BodyDef{Shape: phys.ShapeCircle, Radius: 1, Mass: 1})
	o.Add(col)

	if col.Handle() != 0 {
		t.Fatal("failed creation still produced a handle")
	}
	o.Destroy()
	sc.Update(time.Millisecond)
	if len(world.removed) != 0 {
		t.Fatal("unbound collider tried to remove a body")
	}
}

func TestRigidbodySyncsVelocityAndPose(t *testing.T) {
	sc := scene.New(nil)
	world := newFakeWorld()
	reg := phys.NewRegistry()

	o := sc.NewObject("tank")
	o.Transform().SetPosition(mgl64.Vec3{0, 0, 5})
	col := phys.NewCollider(world, reg, phys.BodyDef{Shape: phys.ShapeCircle, Radius: 1, Mass: 1})
	o.Add(col)
	rb := phys.NewRigidbody(world)
	o.Add(rb)

	rb.SetVelocity(geom.NewVec(10.0, -2.0))
	sc.FixedUpdate(time.Millisecond) // binds collider on start, pushes velocity

	if v := world.velocities[col.Handle()]; v.X != 10 || v.Y != -2 {
		t.Fatalf("body velocity %v, want (10,-2)", v)
	}

	world.positions[col.Handle()] = geom.NewVec(3.0, 4.0)
	sc.PreUpdate(time.Millisecond)

	got := o.Transform().Position()
	if got[0] != 3 || got[1] != 4 {
		t.Fatalf("transform pose %v, want body position mirrored", got)
	}
	if got[2] != 5 {
		t.Fatal("pose pull must leave the Z coordinate alone")
	}
}

func TestRigidbodyBindsColliderAddedLater(t *testing.T) {
	sc := scene.New(nil)
	world := newFakeWorld()
	reg := phys.NewRegistry()

	o := sc.NewObject("tank")
	rb := phys.NewRigidbody(world)
	o.Add(rb)
	sc.FixedUpdate(time.Millisecond) // starts with no collider present

	col := phys.NewCollider(world, reg, phys.BodyDef{Shape: phys.ShapeCircle, Radius: 1, Mass: 1})
	o.Add(col)
	rb.SetVelocity(geom.NewVec(9.0, 0.0))
	sc.FixedUpdate(time.Millisecond)

	if v := world.velocities[col.Handle()]; v.X != 9 {
		t.Fatalf("late-added collider never bound, body velocity %v", v)
	}
}

func TestRigidbodyTeleportMovesBodyAndTransform(t *testing.T) {
	sc := scene.New(nil)
	world := newFakeWorld()
	reg := phys.NewRegistry()

	o := sc.NewObject("tank")
	col := phys.NewCollider(world, reg, phys.BodyDef{Shape: phys.ShapeCircle, Radius: 1, Mass: 1})
	o.Add(col)
	rb := phys.NewRigidbody(world)
	o.Add(rb)
	sc.Update(time.Millisecond) // bind

	rb.Teleport(geom.NewVec(42.0, 24.0))
	if p := world.positions[col.Handle()]; p.X != 42 || p.Y != 24 {
		t.Fatalf("body at %v after teleport, want (42,24)", p)
	}
	if got := o.Transform().Position(); got[0] != 42 || got[1] != 24 {
		t.Fatalf("transform at %v after teleport", got)
	}
}
