package scene

import "time"

// State is the lifecycle position of a Component.
type State uint8

const (
	StateUnattached State = iota
	StateAwake
	StateEnabled
	StateDisabled
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAwake:
		return "awake"
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Component is a behavior unit attached to exactly one Object. Concrete
// components embed Base, which provides the whole interface; behavior is
// added through the optional hook interfaces (Awaker, Updater, ...).
type Component interface {
	Object() *Object
	State() State
	Enabled() bool
	SetEnabled(bool)

	lifecycle() *Base
}

// Optional lifecycle hooks, discovered by interface assertion.
type (
	// Awaker runs once, synchronously inside Object.Add, before any other hook.
	Awaker interface{ Awake() }

	// Starter runs once, on the first dispatch pass where the component is
	// enabled and its object active.
	Starter interface{ Start() }

	// PreUpdater runs every pre-update phase while enabled.
	PreUpdater interface{ PreUpdate(dt time.Duration) }

	// Updater runs every update phase while enabled.
	Updater interface{ Update(dt time.Duration) }

	// FixedUpdater runs every fixed-update phase while enabled. Components
	// that drive physics bodies must write motion here, not in Update.
	FixedUpdater interface{ FixedUpdate(dt time.Duration) }

	// Enabler fires on every effective enable flip after Start, whether
	// caused by the component flag or the owning object's active flag.
	Enabler interface{ OnEnable() }

	// Disabler is the counterpart of Enabler.
	Disabler interface{ OnDisable() }

	// Destroyer runs exactly once on teardown, regardless of enabled state.
	Destroyer interface{ OnDestroy() }
)

// Base carries the lifecycle state machine. Embed it by value; the zero
// value is an enabled, unattached component.
type Base struct {
	owner *Object
	self  Component

	disabled  bool
	started   bool
	destroyed bool
	effective bool
}

func (b *Base) lifecycle() *Base { return b }

// Object returns the owning object, nil while unattached.
func (b *Base) Object() *Object { return b.owner }

func (b *Base) State() State {
	switch {
	case b.destroyed:
		return StateDestroyed
	case b.owner == nil:
		return StateUnattached
	case !b.started:
		return StateAwake
	case b.effective:
		return StateEnabled
	default:
		return StateDisabled
	}
}

func (b *Base) Enabled() bool { return !b.disabled }

// SetEnabled flips the component flag. OnEnable/OnDisable fire on every
// effective flip while the component is attached and started.
func (b *Base) SetEnabled(v bool) {
	if b.disabled == !v {
		return
	}
	b.disabled = !v
	b.sync()
}

func (b *Base) attach(owner *Object, self Component) {
	b.owner = owner
	b.self = self
}

// wantsEffective reports whether update hooks may fire right now.
func (b *Base) wantsEffective() bool {
	return !b.destroyed && b.owner != nil && b.owner.Active() && !b.disabled
}

// ensureStarted fires Start on the first eligible dispatch pass. The initial
// transition into the enabled state is silent: attach is not a flip.
func (b *Base) ensureStarted() {
	if b.started || b.destroyed || !b.wantsEffective() {
		return
	}
	b.started = true
	b.effective = true
	if h, ok := b.self.(Starter); ok {
		h.Start()
	}
}

// sync recomputes effective enablement and fires OnEnable/OnDisable on flips.
func (b *Base) sync() {
	if !b.started || b.destroyed {
		return
	}
	now := b.wantsEffective()
	if now == b.effective {
		return
	}
	b.effective = now
	if now {
		if h, ok := b.self.(Enabler); ok {
			h.OnEnable()
		}
	} else {
		if h, ok := b.self.(Disabler); ok {
			h.OnDisable()
		}
	}
}

// teardown transitions to Destroyed, firing OnDestroy exactly once. No hook
// fires afterwards.
func (b *Base) teardown() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.effective = false
	if h, ok := b.self.(Destroyer); ok {
		h.OnDestroy()
	}
}
