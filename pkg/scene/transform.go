package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTransformCycle is returned by SetParent when the requested parent is the
// transform itself or one of its descendants.
var ErrTransformCycle = errors.New("scene: transform parenting would create a cycle")

// Transform is the hierarchical spatial node owned by every Object. Local
// values are stored; world-space values are folded from the parent chain on
// demand. The tree is kept acyclic by construction: SetParent rejects any
// edge that would close a loop.
type Transform struct {
	owner    *Object
	parent   *Transform
	children []*Transform

	pos   mgl64.Vec3
	rot   mgl64.Quat
	scale mgl64.Vec3
}

func newTransform(owner *Object) *Transform {
	return &Transform{
		owner: owner,
		rot:   mgl64.QuatIdent(),
		scale: mgl64.Vec3{1, 1, 1},
	}
}

// Object returns the owning object.
func (t *Transform) Object() *Object { return t.owner }

func (t *Transform) Parent() *Transform { return t.parent }

// Children returns the direct children in attach order.
func (t *Transform) Children() []*Transform {
	out := make([]*Transform, len(t.children))
	copy(out, t.children)
	return out
}

// SetParent reparents the transform, keeping local values untouched.
// Passing nil detaches it from the hierarchy.
func (t *Transform) SetParent(p *Transform) error {
	for a := p; a != nil; a = a.parent {
		if a == t {
			return ErrTransformCycle
		}
	}
	if t.parent == p {
		return nil
	}
	t.detachFromParent()
	t.parent = p
	if p != nil {
		p.children = append(p.children, t)
	}
	return nil
}

func (t *Transform) detachFromParent() {
	p := t.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == t {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	t.parent = nil
}

// detach removes the transform from the hierarchy entirely: it leaves its
// parent and its children become roots. Used on object teardown.
func (t *Transform) detach() {
	t.detachFromParent()
	for _, c := range t.children {
		c.parent = nil
	}
	t.children = nil
}

func (t *Transform) Position() mgl64.Vec3     { return t.pos }
func (t *Transform) SetPosition(p mgl64.Vec3) { t.pos = p }

func (t *Transform) Rotation() mgl64.Quat     { return t.rot }
func (t *Transform) SetRotation(q mgl64.Quat) { t.rot = q }

func (t *Transform) Scale() mgl64.Vec3     { return t.scale }
func (t *Transform) SetScale(s mgl64.Vec3) { t.scale = s }

// Translate offsets the local position.
func (t *Transform) Translate(d mgl64.Vec3) { t.pos = t.pos.Add(d) }

// WorldPosition folds the parent chain into a world-space position.
func (t *Transform) WorldPosition() mgl64.Vec3 {
	if t.parent == nil {
		return t.pos
	}
	return t.parent.transformPoint(t.pos)
}

// WorldRotation is the composition of all rotations down from the root.
func (t *Transform) WorldRotation() mgl64.Quat {
	if t.parent == nil {
		return t.rot
	}
	return t.parent.WorldRotation().Mul(t.rot)
}

// WorldScale is the componentwise product of the scale chain.
func (t *Transform) WorldScale() mgl64.Vec3 {
	if t.parent == nil {
		return t.scale
	}
	return scaleVec(t.parent.WorldScale(), t.scale)
}

// transformPoint maps a point from this transform's local space to world space.
func (t *Transform) transformPoint(p mgl64.Vec3) mgl64.Vec3 {
	local := t.rot.Rotate(scaleVec(p, t.scale)).Add(t.pos)
	if t.parent == nil {
		return local
	}
	return t.parent.transformPoint(local)
}

func scaleVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
