package phys

import "github.com/kjkrol/goko/pkg/scene"

// Registry maps body handles back to their owning objects. Registration and
// resolution both happen on the frame loop goroutine (collider Awake /
// teardown and fan-out tasks), so no locking is needed.
type Registry struct {
	owners map[BodyHandle]*scene.Object
}

func NewRegistry() *Registry {
	return &Registry{owners: make(map[BodyHandle]*scene.Object)}
}

func (r *Registry) Register(h BodyHandle, o *scene.Object) {
	r.owners[h] = o
}

func (r *Registry) Unregister(h BodyHandle) {
	delete(r.owners, h)
}

// Resolve returns the live owning object for a handle. Handles whose object
// has been destroyed, or is mid-teardown, do not resolve.
func (r *Registry) Resolve(h BodyHandle) (*scene.Object, bool) {
	o, ok := r.owners[h]
	if !ok || o.Destroyed() {
		return nil, false
	}
	return o, true
}
