package scene

import (
	"errors"
	"reflect"

	"github.com/google/uuid"
)

var (
	// ErrObjectDestroyed is returned by Add on an object that has been
	// destroyed or scheduled for destruction.
	ErrObjectDestroyed = errors.New("scene: object is destroyed")

	// ErrAlreadyAttached is returned by Add when the component belongs to
	// an object already.
	ErrAlreadyAttached = errors.New("scene: component is already attached")
)

// Object is a named, independently activatable entity composed of one
// Transform and an ordered list of Components. Objects are created through
// Scene factories and mutated only on the frame loop goroutine.
type Object struct {
	id    uuid.UUID
	name  string
	Tag   string
	Layer uint32

	scene     *Scene
	transform *Transform

	components []Component
	byType     map[reflect.Type]Component

	active    bool
	destroyed bool
	pending   bool
}

func newObject(s *Scene, name string) *Object {
	o := &Object{
		id:     uuid.New(),
		name:   name,
		scene:  s,
		active: true,
		byType: make(map[reflect.Type]Component),
	}
	o.transform = newTransform(o)
	return o
}

func (o *Object) ID() uuid.UUID         { return o.id }
func (o *Object) Name() string          { return o.name }
func (o *Object) Scene() *Scene         { return o.scene }
func (o *Object) Transform() *Transform { return o.transform }
func (o *Object) Destroyed() bool       { return o.destroyed || o.pending }

// Active reports the object's own flag; dispatch additionally requires the
// component to be enabled.
func (o *Object) Active() bool { return o.active && !o.destroyed }

// SetActive gates dispatch to every attached component without destroying
// them. Reactivation re-fires OnEnable, never Awake.
func (o *Object) SetActive(v bool) {
	if o.destroyed || o.active == v {
		return
	}
	o.active = v
	for _, c := range o.components {
		c.lifecycle().sync()
	}
}

// Add attaches a component and runs its Awake hook synchronously. Insertion
// order is dispatch order. Duplicate concrete types are allowed by
// convention, not rejected.
func (o *Object) Add(c Component) error {
	if o.Destroyed() {
		return ErrObjectDestroyed
	}
	b := c.lifecycle()
	if b.owner != nil || b.destroyed {
		return ErrAlreadyAttached
	}
	b.attach(o, c)
	o.components = append(o.components, c)
	t := reflect.TypeOf(c)
	if _, dup := o.byType[t]; !dup {
		o.byType[t] = c
	}
	if h, ok := c.(Awaker); ok {
		h.Awake()
	}
	return nil
}

// Remove detaches the component, firing OnDestroy before unlinking it.
// Returns false when the component is not attached to this object.
func (o *Object) Remove(c Component) bool {
	b := c.lifecycle()
	if b.owner != o || b.destroyed {
		return false
	}
	b.teardown()
	o.unlink(c)
	return true
}

func (o *Object) unlink(c Component) {
	t := reflect.TypeOf(c)
	for i, have := range o.components {
		if have == c {
			o.components = append(o.components[:i], o.components[i+1:]...)
			break
		}
	}
	if o.byType[t] == c {
		delete(o.byType, t)
		for _, have := range o.components {
			if reflect.TypeOf(have) == t {
				o.byType[t] = have
				break
			}
		}
	}
}

// Components returns the attached components in add order.
func (o *Object) Components() []Component {
	out := make([]Component, len(o.components))
	copy(out, o.components)
	return out
}

// Destroy marks the object inactive immediately and schedules teardown for
// the start of the next dispatch pass, so an in-flight pass never observes a
// partially destroyed object. Safe to call repeatedly.
func (o *Object) Destroy() {
	if o.Destroyed() {
		return
	}
	o.SetActive(false)
	o.pending = true
	o.scene.scheduleDestroy(o)
}

// DestroyImmediate tears the object down synchronously. Callers iterating
// the scene should prefer Destroy.
func (o *Object) DestroyImmediate() {
	if o.destroyed {
		return
	}
	o.SetActive(false)
	o.pending = true
	o.scene.removeNow(o)
}

// finalize runs component teardown in add order and detaches the transform.
func (o *Object) finalize() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	for _, c := range o.components {
		c.lifecycle().teardown()
	}
	o.components = nil
	o.byType = nil
	o.transform.detach()
}

// Get returns the first attached component assignable to T. Concrete types
// resolve through the per-object type index; interface capabilities fall
// back to an ordered scan. Absence is a normal result, never a panic.
func Get[T any](o *Object) (T, bool) {
	var zero T
	if o == nil || o.byType == nil {
		return zero, false
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		if c, ok := o.byType[t]; ok {
			return c.(T), true
		}
		return zero, false
	}
	for _, c := range o.components {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	return zero, false
}
