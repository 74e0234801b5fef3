package fsm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// hookLog records the order of state hook invocations across a machine, so
// tests can assert exact sequencing (e.g. Exit-before-Enter).
type hookLog struct {
	entries []string
}

func (l *hookLog) add(kind, hook string) {
	l.entries = append(l.entries, kind+"."+hook)
}

// spyState counts its hook invocations and appends them to a shared hookLog.
type spyState struct {
	log  *hookLog
	kind string

	enters, exits  int
	updates, fixed int
	lastDt         time.Duration
}

func (s *spyState) Enter() { s.enters++; s.log.add(s.kind, "enter") }
func (s *spyState) Exit()  { s.exits++; s.log.add(s.kind, "exit") }
func (s *spyState) Update(dt time.Duration) {
	s.updates++
	s.lastDt = dt
	s.log.add(s.kind, "update")
}
func (s *spyState) FixedUpdate(dt time.Duration) {
	s.fixed++
	s.lastDt = dt
	s.log.add(s.kind, "fixed")
}

type testOwner struct{ name string }

// newSpyMachine builds a machine with spy states registered for each kind.
func newSpyMachine(t *testing.T, kinds ...string) (*Machine[string, *testOwner], map[string]*spyState, *hookLog) {
	t.Helper()

	owner := &testOwner{name: "owner"}
	m := New[string](owner)
	log := &hookLog{}
	spies := make(map[string]*spyState, len(kinds))

	for _, kind := range kinds {
		spy := &spyState{log: log, kind: kind}
		spies[kind] = spy
		if err := m.Register(kind, func(_ *testOwner, _ *Machine[string, *testOwner]) State {
			return spy
		}); err != nil {
			t.Fatalf("Register(%q) failed: %v", kind, err)
		}
	}
	return m, spies, log
}

func TestChangeStateFromEmpty(t *testing.T) {
	t.Parallel()

	m, spies, log := newSpyMachine(t, "idle", "running")

	if err := m.ChangeState("running"); err != nil {
		t.Fatalf("ChangeState(running) failed: %v", err)
	}

	if spies["running"].enters != 1 {
		t.Errorf("running.enters = %d, want 1", spies["running"].enters)
	}
	if spies["running"].exits != 0 || spies["idle"].exits != 0 {
		t.Error("no Exit should run when there is no prior state")
	}
	want := []string{"running.enter"}
	if fmt.Sprint(log.entries) != fmt.Sprint(want) {
		t.Errorf("hook order = %v, want %v", log.entries, want)
	}
}

func TestChangeStateExitBeforeEnter(t *testing.T) {
	t.Parallel()

	m, _, log := newSpyMachine(t, "idle", "running")

	if err := m.ChangeState("running"); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeState("idle"); err != nil {
		t.Fatal(err)
	}

	want := []string{"running.enter", "running.exit", "idle.enter"}
	if fmt.Sprint(log.entries) != fmt.Sprint(want) {
		t.Errorf("hook order = %v, want %v", log.entries, want)
	}
}

func TestChangeStateCurrentIsLastRequested(t *testing.T) {
	t.Parallel()

	m, spies, _ := newSpyMachine(t, "a", "b", "c")

	for _, kind := range []string{"a", "b", "c", "a", "c", "b"} {
		if err := m.ChangeState(kind); err != nil {
			t.Fatalf("ChangeState(%q) failed: %v", kind, err)
		}
		if cur, ok := m.Current(); !ok || cur != kind {
			t.Fatalf("Current() = %q, %v after ChangeState(%q)", cur, ok, kind)
		}
		// Enter/Exit counts per state may differ by at most one.
		for k, spy := range spies {
			if d := spy.enters - spy.exits; d < 0 || d > 1 {
				t.Fatalf("state %q enter/exit imbalance: enters=%d exits=%d", k, spy.enters, spy.exits)
			}
		}
	}
}

func TestChangeStateSameKindIsNoOp(t *testing.T) {
	t.Parallel()

	m, spies, _ := newSpyMachine(t, "idle")

	notifications := 0
	m.Transitions().Subscribe(func(Transition[string]) { notifications++ })

	if err := m.ChangeState("idle"); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeState("idle"); err != nil {
		t.Fatalf("re-entering current state should be a no-op, got %v", err)
	}

	if spies["idle"].enters != 1 {
		t.Errorf("idle.enters = %d, want 1 (no re-entry)", spies["idle"].enters)
	}
	if spies["idle"].exits != 0 {
		t.Errorf("idle.exits = %d, want 0", spies["idle"].exits)
	}
	if notifications != 1 {
		t.Errorf("notifications = %d, want 1 (no-op must not notify)", notifications)
	}
}

func TestChangeStateUnregistered(t *testing.T) {
	t.Parallel()

	m, spies, _ := newSpyMachine(t, "idle")
	if err := m.ChangeState("idle"); err != nil {
		t.Fatal(err)
	}

	err := m.ChangeState("missing")
	if !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("ChangeState(missing) = %v, want ErrStateNotFound", err)
	}

	// Current state untouched, no spurious hooks.
	if cur, ok := m.Current(); !ok || cur != "idle" {
		t.Errorf("Current() = %q, %v, want idle", cur, ok)
	}
	if spies["idle"].exits != 0 {
		t.Errorf("idle.exits = %d, want 0", spies["idle"].exits)
	}
}

func TestRevertToPrevious(t *testing.T) {
	t.Parallel()

	m, _, _ := newSpyMachine(t, "a", "b")

	if err := m.ChangeState("a"); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeState("b"); err != nil {
		t.Fatal(err)
	}
	if err := m.RevertToPrevious(); err != nil {
		t.Fatalf("RevertToPrevious failed: %v", err)
	}

	if cur, _ := m.Current(); cur != "a" {
		t.Errorf("Current() = %q after revert, want a", cur)
	}
}

func TestRevertWithoutPreviousIsNoOp(t *testing.T) {
	t.Parallel()

	m, spies, _ := newSpyMachine(t, "a")

	if err := m.RevertToPrevious(); err != nil {
		t.Fatalf("RevertToPrevious with no history should be a no-op, got %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Error("no state should be active")
	}
	if spies["a"].enters != 0 {
		t.Error("no Enter should have run")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	m, _, _ := newSpyMachine(t, "idle")

	err := m.Register("idle", func(_ *testOwner, _ *Machine[string, *testOwner]) State {
		return &spyState{log: &hookLog{}, kind: "idle"}
	})
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Fatalf("Register duplicate = %v, want ErrDuplicateRegistration", err)
	}
}

func TestRegisterNilFactoryPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("Register with nil factory should panic")
		}
	}()
	m := New[string](&testOwner{})
	_ = m.Register("idle", nil)
}

func TestFactoryReceivesOwnerAndMachine(t *testing.T) {
	t.Parallel()

	owner := &testOwner{name: "hero"}
	m := New[string](owner)

	var gotOwner *testOwner
	var gotMachine *Machine[string, *testOwner]
	err := m.Register("idle", func(o *testOwner, mm *Machine[string, *testOwner]) State {
		gotOwner, gotMachine = o, mm
		return &spyState{log: &hookLog{}, kind: "idle"}
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotOwner != owner {
		t.Error("factory should receive the machine's owner")
	}
	if gotMachine != m {
		t.Error("factory should receive the owning machine")
	}
}

func TestTickForwardsToCurrentState(t *testing.T) {
	t.Parallel()

	m, spies, _ := newSpyMachine(t, "idle")

	// No active state: ticks are no-ops.
	m.Tick(16 * time.Millisecond)
	m.FixedTick(20 * time.Millisecond)
	if spies["idle"].updates != 0 || spies["idle"].fixed != 0 {
		t.Fatal("ticks before any ChangeState must not reach states")
	}

	if err := m.ChangeState("idle"); err != nil {
		t.Fatal(err)
	}
	m.Tick(16 * time.Millisecond)
	m.FixedTick(20 * time.Millisecond)

	if spies["idle"].updates != 1 {
		t.Errorf("updates = %d, want 1", spies["idle"].updates)
	}
	if spies["idle"].fixed != 1 {
		t.Errorf("fixed updates = %d, want 1", spies["idle"].fixed)
	}
	if spies["idle"].lastDt != 20*time.Millisecond {
		t.Errorf("lastDt = %v, want 20ms", spies["idle"].lastDt)
	}
}

// panicState panics in every hook to exercise the recovery boundary.
type panicState struct{ afterPanic *int }

func (p *panicState) Enter()                    {}
func (p *panicState) Exit()                     {}
func (p *panicState) Update(time.Duration)      { panic("update failure") }
func (p *panicState) FixedUpdate(time.Duration) { *p.afterPanic++; panic("fixed failure") }

func TestTickRecoversStatePanics(t *testing.T) {
	t.Parallel()

	m := New[string](&testOwner{})
	calls := 0
	if err := m.Register("broken", func(_ *testOwner, _ *Machine[string, *testOwner]) State {
		return &panicState{afterPanic: &calls}
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeState("broken"); err != nil {
		t.Fatal(err)
	}

	// Neither call may propagate the panic; the machine keeps ticking.
	m.Tick(time.Millisecond)
	m.FixedTick(time.Millisecond)
	m.FixedTick(time.Millisecond)

	if calls != 2 {
		t.Errorf("FixedUpdate ran %d times, want 2 (machine must keep ticking)", calls)
	}
	if !m.IsInState("broken") {
		t.Error("machine should remain in its state after a hook panic")
	}
}

func TestTransitionNotification(t *testing.T) {
	t.Parallel()

	m, _, _ := newSpyMachine(t, "a", "b")

	var got []Transition[string]
	m.Transitions().Subscribe(func(tr Transition[string]) { got = append(got, tr) })

	if err := m.ChangeState("a"); err != nil {
		t.Fatal(err)
	}
	if err := m.ChangeState("b"); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].HasFrom || got[0].To != "a" {
		t.Errorf("first transition = %+v, want {To:a HasFrom:false}", got[0])
	}
	if !got[1].HasFrom || got[1].From != "a" || got[1].To != "b" {
		t.Errorf("second transition = %+v, want {From:a To:b HasFrom:true}", got[1])
	}
}

func TestIsInState(t *testing.T) {
	t.Parallel()

	m, _, _ := newSpyMachine(t, "a", "b")

	if m.IsInState("a") {
		t.Error("IsInState should be false before any transition")
	}
	if err := m.ChangeState("a"); err != nil {
		t.Fatal(err)
	}
	if !m.IsInState("a") || m.IsInState("b") {
		t.Error("IsInState should reflect the current state only")
	}
}

// selfTransitionState changes state from within Enter, which must not
// deadlock the machine.
type selfTransitionState struct {
	machine *Machine[string, *testOwner]
	target  string
}

func (s *selfTransitionState) Enter() {
	if s.target != "" {
		_ = s.machine.ChangeState(s.target)
	}
}
func (s *selfTransitionState) Exit()                     {}
func (s *selfTransitionState) Update(time.Duration)      {}
func (s *selfTransitionState) FixedUpdate(time.Duration) {}

func TestStateMayTransitionFromEnter(t *testing.T) {
	t.Parallel()

	m := New[string](&testOwner{})
	if err := m.Register("boot", func(_ *testOwner, mm *Machine[string, *testOwner]) State {
		return &selfTransitionState{machine: mm, target: "ready"}
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.Register("ready", func(_ *testOwner, mm *Machine[string, *testOwner]) State {
		return &selfTransitionState{machine: mm}
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.ChangeState("boot"); err != nil {
		t.Fatal(err)
	}
	if cur, _ := m.Current(); cur != "ready" {
		t.Errorf("Current() = %q, want ready (chained from Enter)", cur)
	}
}
