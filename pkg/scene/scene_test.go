package scene_test

import (
	"testing"
	"time"

	"github.com/kjkrol/goko/pkg/scene"
)

type recorder struct {
	scene.Base

	calls []string
}

func (r *recorder) Awake()                    { r.calls = append(r.calls, "awake") }
func (r *recorder) Start()                    { r.calls = append(r.calls, "start") }
func (r *recorder) PreUpdate(time.Duration)   { r.calls = append(r.calls, "pre") }
func (r *recorder) Update(time.Duration)      { r.calls = append(r.calls, "update") }
func (r *recorder) FixedUpdate(time.Duration) { r.calls = append(r.calls, "fixed") }
func (r *recorder) OnEnable()                 { r.calls = append(r.calls, "enable") }
func (r *recorder) OnDisable()                { r.calls = append(r.calls, "disable") }
func (r *recorder) OnDestroy()                { r.calls = append(r.calls, "destroy") }

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func frameAll(s *scene.Scene) {
	s.PreUpdate(time.Millisecond)
	s.Update(time.Millisecond)
	s.FixedUpdate(time.Millisecond)
}

func TestAddThenGetReturnsSameInstance(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("tank")
	rec := &recorder{}
	if err := o.Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := scene.Get[*recorder](o)
	if !ok {
		t.Fatal("Get reported absent for a just-added component")
	}
	if got != rec {
		t.Fatal("Get returned a different instance")
	}
}

func TestGetAbsentIsNormalBranch(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("empty")
	if _, ok := scene.Get[*recorder](o); ok {
		t.Fatal("Get reported presence on an empty object")
	}
}

func TestAwakeOnceBeforeAnyUpdate(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	rec := &recorder{}
	o.Add(rec)

	if len(rec.calls) != 1 || rec.calls[0] != "awake" {
		t.Fatalf("expected synchronous awake, got %v", rec.calls)
	}
	frameAll(s)
	frameAll(s)
	if rec.count("awake") != 1 {
		t.Fatalf("awake fired %d times, want 1", rec.count("awake"))
	}
	if rec.calls[1] != "start" {
		t.Fatalf("start must precede updates, calls: %v", rec.calls)
	}
}

func TestStartOnceOnFirstEligiblePass(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	rec := &recorder{}
	rec.SetEnabled(false)
	o.Add(rec)

	frameAll(s)
	if rec.count("start") != 0 {
		t.Fatal("start fired while disabled")
	}
	rec.SetEnabled(true)
	frameAll(s)
	frameAll(s)
	if got := rec.count("start"); got != 1 {
		t.Fatalf("start fired %d times, want 1", got)
	}
}

func TestUpdateRequiresEnabledAndActive(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	rec := &recorder{}
	o.Add(rec)
	s.Update(time.Millisecond)
	if rec.count("update") != 1 {
		t.Fatalf("update fired %d times, want 1", rec.count("update"))
	}

	rec.SetEnabled(false)
	s.Update(time.Millisecond)
	if rec.count("update") != 1 {
		t.Fatal("update fired while component disabled")
	}

	rec.SetEnabled(true)
	o.SetActive(false)
	s.Update(time.Millisecond)
	if rec.count("update") != 1 {
		t.Fatal("update fired while object inactive")
	}
}

func TestEnableDisableHooks(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	rec := &recorder{}
	o.Add(rec)
	s.Update(time.Millisecond) // start

	rec.SetEnabled(false)
	rec.SetEnabled(true)
	o.SetActive(false)
	o.SetActive(true)

	if got := rec.count("disable"); got != 2 {
		t.Fatalf("disable fired %d times, want 2", got)
	}
	if got := rec.count("enable"); got != 2 {
		t.Fatalf("enable fired %d times, want 2", got)
	}

	// Redundant writes are not flips.
	rec.SetEnabled(true)
	o.SetActive(true)
	if rec.count("enable") != 2 {
		t.Fatal("redundant writes fired hooks")
	}
}

// deactivator flips another object off during one of its updates.
type deactivator struct {
	scene.Base

	victim *scene.Object
	fired  bool
}

func (d *deactivator) Update(time.Duration) {
	if d.fired {
		return
	}
	d.fired = true
	d.victim.SetActive(false)
}

func TestDeactivateMidPassStopsNextPass(t *testing.T) {
	s := scene.New(nil)
	first := s.NewObject("first")
	victim := s.NewObject("victim")

	vrec := &recorder{}
	victim.Add(vrec)
	s.Update(time.Millisecond) // start everything before the deactivation pass
	base := vrec.count("update")

	first.Add(&deactivator{victim: victim})
	s.Update(time.Millisecond) // deactivator starts and fires here
	s.Update(time.Millisecond)
	if got := vrec.count("update"); got != base {
		t.Fatalf("victim fired %d more updates after deactivation", got-base)
	}

	victim.SetActive(true)
	if vrec.count("enable") == 0 {
		t.Fatal("reactivation did not fire OnEnable")
	}
	s.Update(time.Millisecond)
	if vrec.count("update") != base+1 {
		t.Fatal("victim did not resume after reactivation")
	}
	if vrec.count("awake") != 1 {
		t.Fatal("reactivation must not re-run Awake")
	}
}

// suicider destroys its own object mid-update.
type suicider struct {
	scene.Base
}

func (d *suicider) Update(time.Duration) { d.Object().Destroy() }

func TestDestroyMidPass(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("doomed")
	rec := &recorder{}
	o.Add(rec)
	o.Add(&suicider{})
	other := s.NewObject("survivor")
	orec := &recorder{}
	other.Add(orec)

	s.Update(time.Millisecond) // doomed destroys itself mid-pass
	if orec.count("update") != 1 {
		t.Fatal("destruction corrupted iteration over later objects")
	}
	if _, ok := s.FindByName("doomed"); ok {
		t.Fatal("destroyed object still findable")
	}

	s.Update(time.Millisecond)
	if rec.count("destroy") != 1 {
		t.Fatalf("destroy fired %d times, want 1", rec.count("destroy"))
	}
	for _, live := range s.Objects() {
		if live == o {
			t.Fatal("destroyed object still in live set on next pass")
		}
	}
}

func TestDestroyIdempotent(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	rec := &recorder{}
	o.Add(rec)
	s.Update(time.Millisecond)

	o.Destroy()
	o.Destroy()
	s.Update(time.Millisecond)
	o.Destroy()
	s.Update(time.Millisecond)

	if got := rec.count("destroy"); got != 1 {
		t.Fatalf("destroy fired %d times, want 1", got)
	}
	updates := rec.count("update")
	frameAll(s)
	if rec.count("update") != updates {
		t.Fatal("hooks fired after destruction")
	}
}

func TestAddOnDestroyedObjectFails(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	o.Destroy()
	if err := o.Add(&recorder{}); err == nil {
		t.Fatal("Add succeeded on a destroyed object")
	}
}

// spawner attaches a new component to a sibling object mid-pass.
type spawner struct {
	scene.Base

	target *scene.Object
	child  *recorder
}

func (sp *spawner) Update(time.Duration) {
	if sp.child == nil {
		sp.child = &recorder{}
		sp.target.Add(sp.child)
	}
}

func TestComponentAddedMidPassFiresNextPass(t *testing.T) {
	s := scene.New(nil)
	adder := s.NewObject("adder")
	target := s.NewObject("target")
	sp := &spawner{target: target}
	adder.Add(sp)
	s.Update(time.Millisecond) // spawner starts first pass

	s.Update(time.Millisecond) // component added here
	if sp.child == nil {
		t.Fatal("spawner never ran")
	}
	if sp.child.count("awake") != 1 {
		t.Fatal("awake must run synchronously on add")
	}
	added := sp.child.count("update")
	s.Update(time.Millisecond)
	if sp.child.count("update") != added+1 {
		t.Fatal("mid-pass component did not fire on the following pass")
	}
}

func TestRemoveComponent(t *testing.T) {
	s := scene.New(nil)
	o := s.NewObject("x")
	first := &recorder{}
	second := &recorder{}
	o.Add(first)
	o.Add(second)
	s.Update(time.Millisecond)

	if !o.Remove(first) {
		t.Fatal("Remove reported failure for an attached component")
	}
	if first.count("destroy") != 1 {
		t.Fatal("Remove did not fire the teardown hook")
	}
	got, ok := scene.Get[*recorder](o)
	if !ok || got != second {
		t.Fatal("type index did not fall through to the remaining instance")
	}
	if o.Remove(first) {
		t.Fatal("Remove succeeded twice for the same component")
	}
	s.Update(time.Millisecond)
	if first.count("update") != 1 {
		t.Fatal("removed component still updating")
	}
}

func TestDispatchOrderIsAddOrder(t *testing.T) {
	s := scene.New(nil)
	var order []int
	o := s.NewObject("x")
	for i := 0; i < 4; i++ {
		o.Add(&orderProbe{mark: func() { order = append(order, i) }})
	}
	s.Update(time.Millisecond)
	for i, got := range order {
		if got != i {
			t.Fatalf("dispatch order %v, want ascending", order)
		}
	}
}

type orderProbe struct {
	scene.Base

	mark func()
}

func (p *orderProbe) Update(time.Duration) { p.mark() }

func TestFindByNameAndTag(t *testing.T) {
	s := scene.New(nil)
	a := s.NewObject("alpha")
	a.Tag = "enemy"
	if got, ok := s.FindByName("alpha"); !ok || got != a {
		t.Fatal("FindByName missed a live object")
	}
	if got, ok := s.FindByTag("enemy"); !ok || got != a {
		t.Fatal("FindByTag missed a live object")
	}
	if _, ok := s.FindByName("missing"); ok {
		t.Fatal("FindByName hallucinated an object")
	}
	a.Destroy()
	if _, ok := s.FindByName("alpha"); ok {
		t.Fatal("FindByName returned an object scheduled for teardown")
	}
}
