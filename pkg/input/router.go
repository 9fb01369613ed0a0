// Package input buffers raw pointer/touch events from the capture surface
// and exposes a per-frame polling snapshot to components.
package input

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/kjkrol/gokg/geom"
	"go.uber.org/zap"
)

// Phase classifies a touch within its lifetime.
type Phase uint8

const (
	Began Phase = iota
	Moved
	Stationary
	Ended
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Began:
		return "began"
	case Moved:
		return "moved"
	case Stationary:
		return "stationary"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Touch is one pointer in the snapshot. Target names the UI hit region under
// the touch, empty when none.
type Touch struct {
	ID     int64
	Phase  Phase
	Pos    geom.Vec[float64]
	Target string
}

// Router accumulates raw events from the capture thread and publishes a
// stable snapshot once per update phase. Multiple raw events for one touch
// within a single frame coalesce to the latest one; intermediate moves are
// intentionally unobservable. The only cross-thread structure is the event
// channel; the snapshot is read solely on the loop goroutine.
type Router struct {
	log     *zap.Logger
	events  chan Touch
	dropped atomic.Uint64

	// loop goroutine only
	held     map[int64]Touch
	snapshot map[int64]Touch

	mu      sync.RWMutex
	targets map[string]geom.AABB[float64]
}

func NewRouter(bufferSize int, log *zap.Logger) *Router {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		log:      log,
		events:   make(chan Touch, bufferSize),
		held:     make(map[int64]Touch),
		snapshot: make(map[int64]Touch),
		targets:  make(map[string]geom.AABB[float64]),
	}
}

// Push appends a raw event to the accumulation buffer. Never blocks; when
// the buffer is full the event is dropped and false returned. Safe to call
// from the capture thread.
func (r *Router) Push(t Touch) bool {
	if t.Target == "" {
		if name, ok := r.TargetAt(t.Pos); ok {
			t.Target = name
		}
	}
	select {
	case r.events <- t:
		return true
	default:
		r.dropped.Add(1)
		r.log.Debug("input buffer full, event dropped", zap.Int64("touch", t.ID))
		return false
	}
}

// Flip publishes the accumulated events as the readable snapshot and starts
// a fresh accumulation window. Called once per update phase on the loop
// goroutine. Touches still held but without fresh events this frame are
// reported as Stationary at their last position.
func (r *Router) Flip() {
	next := make(map[int64]Touch, len(r.held))
	for id, t := range r.held {
		t.Phase = Stationary
		next[id] = t
	}
	for {
		select {
		case ev := <-r.events:
			next[ev.ID] = ev
		default:
			for id, t := range next {
				switch t.Phase {
				case Ended, Cancelled:
					delete(r.held, id)
				default:
					r.held[id] = t
				}
			}
			r.snapshot = next
			return
		}
	}
}

// Touch reports the touch with the given id in the current snapshot. A touch
// absent from the snapshot is absent, a normal branch for callers.
func (r *Router) Touch(id int64) (Touch, bool) {
	t, ok := r.snapshot[id]
	return t, ok
}

// Touches returns the current snapshot ordered by touch id.
func (r *Router) Touches() []Touch {
	out := make([]Touch, 0, len(r.snapshot))
	for _, t := range r.snapshot {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DroppedEvents reports how many raw events were shed on a full buffer.
func (r *Router) DroppedEvents() uint64 { return r.dropped.Load() }

// AddTarget registers a named screen-space hit region. Touches pushed with
// an empty target are resolved against these regions.
func (r *Router) AddTarget(name string, region geom.AABB[float64]) {
	r.mu.Lock()
	r.targets[name] = region
	r.mu.Unlock()
}

// TargetAt resolves a screen position to a registered hit region.
func (r *Router) TargetAt(p geom.Vec[float64]) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, a := range r.targets {
		if p.X >= a.TopLeft.X && p.X <= a.BottomRight.X &&
			p.Y >= a.TopLeft.Y && p.Y <= a.BottomRight.Y {
			return name, true
		}
	}
	return "", false
}
