package scene

import (
	"time"

	"go.uber.org/zap"
)

// Scene owns the live object set and drives phase dispatch across it. All
// methods must be called from the frame loop goroutine; the frame driver
// guarantees no two dispatch passes overlap.
type Scene struct {
	log *zap.Logger

	objects []*Object
	pending []*Object

	world  any
	camera Component
}

func New(log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{log: log}
}

// NewObject creates an empty active object and adds it to the live set.
// Objects created mid-pass are first visited on the next pass.
func (s *Scene) NewObject(name string) *Object {
	o := newObject(s, name)
	s.objects = append(s.objects, o)
	return o
}

// SetWorld stores the opaque physics-world handle owned by the external
// physics collaborator.
func (s *Scene) SetWorld(w any) { s.world = w }
func (s *Scene) World() any     { return s.world }

// SetCamera designates a component as the scene camera.
func (s *Scene) SetCamera(c Component) { s.camera = c }
func (s *Scene) Camera() Component     { return s.camera }

// Objects returns the live objects, excluding those scheduled for teardown.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		if !o.Destroyed() {
			out = append(out, o)
		}
	}
	return out
}

// FindByName returns the first live object with the given name.
func (s *Scene) FindByName(name string) (*Object, bool) {
	for _, o := range s.objects {
		if !o.Destroyed() && o.name == name {
			return o, true
		}
	}
	return nil, false
}

// FindByTag returns the first live object with the given tag.
func (s *Scene) FindByTag(tag string) (*Object, bool) {
	for _, o := range s.objects {
		if !o.Destroyed() && o.Tag == tag {
			return o, true
		}
	}
	return nil, false
}

// PreUpdate dispatches the pre-update phase.
func (s *Scene) PreUpdate(dt time.Duration) { s.dispatch(hookPreUpdate, dt) }

// Update dispatches the update phase.
func (s *Scene) Update(dt time.Duration) { s.dispatch(hookUpdate, dt) }

// FixedUpdate dispatches the fixed-update phase. Physics-driven motion is
// written here by convention so it stays consistent with the physics step.
func (s *Scene) FixedUpdate(dt time.Duration) { s.dispatch(hookFixedUpdate, dt) }

type hookKind uint8

const (
	hookPreUpdate hookKind = iota
	hookUpdate
	hookFixedUpdate
)

// dispatch reaps pending destruction, snapshots membership at pass start and
// walks it. Objects or components added or removed mid-pass take effect on
// the next pass; deactivating an object mid-pass stops its remaining hooks
// without un-firing earlier ones.
func (s *Scene) dispatch(kind hookKind, dt time.Duration) {
	s.reap()

	type member struct {
		o     *Object
		comps []Component
	}
	snapshot := make([]member, 0, len(s.objects))
	for _, o := range s.objects {
		if !o.Active() {
			continue
		}
		comps := make([]Component, len(o.components))
		copy(comps, o.components)
		snapshot = append(snapshot, member{o: o, comps: comps})
	}

	for _, m := range snapshot {
		o := m.o
		if !o.Active() {
			continue
		}
		for _, c := range m.comps {
			if !o.Active() {
				break
			}
			b := c.lifecycle()
			b.ensureStarted()
			if !b.started || !b.effective {
				continue
			}
			switch kind {
			case hookPreUpdate:
				if h, ok := c.(PreUpdater); ok {
					h.PreUpdate(dt)
				}
			case hookUpdate:
				if h, ok := c.(Updater); ok {
					h.Update(dt)
				}
			case hookFixedUpdate:
				if h, ok := c.(FixedUpdater); ok {
					h.FixedUpdate(dt)
				}
			}
		}
	}
}

func (s *Scene) scheduleDestroy(o *Object) {
	s.pending = append(s.pending, o)
	s.log.Debug("object scheduled for teardown", zap.String("name", o.name))
}

// reap drains the pending-removal list. Runs at the start of every dispatch
// pass, so a destroyed object is fully absent by the start of the next pass.
func (s *Scene) reap() {
	if len(s.pending) == 0 {
		return
	}
	doomed := s.pending
	s.pending = nil
	for _, o := range doomed {
		o.finalize()
	}
	s.compact()
}

func (s *Scene) removeNow(o *Object) {
	o.finalize()
	for i, p := range s.pending {
		if p == o {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	s.compact()
}

func (s *Scene) compact() {
	live := s.objects[:0]
	for _, o := range s.objects {
		if !o.destroyed {
			live = append(live, o)
		}
	}
	for i := len(live); i < len(s.objects); i++ {
		s.objects[i] = nil
	}
	s.objects = live
}
