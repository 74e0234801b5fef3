package fsm

import (
	"fmt"
	"sync"
	"time"

	"github.com/playforge/gamecore/events"
	"github.com/playforge/gamecore/internal/logging"
)

// State is one discrete mode of an owner entity. Enter and Exit bracket every
// activation: Enter is always followed by exactly one matching Exit before
// any other state's Enter runs on the same machine. Update and FixedUpdate
// receive the frame's delta time while the state is active.
type State interface {
	Enter()
	Exit()
	Update(dt time.Duration)
	FixedUpdate(dt time.Duration)
}

// Factory constructs the state for a kind. It receives the machine's owner
// and the machine itself; both references are non-owning. The factory runs
// once, at registration.
type Factory[K comparable, O any] func(owner O, m *Machine[K, O]) State

// Transition describes one completed state change, published on the
// machine's Transitions channel after the new state's Enter returns.
type Transition[K comparable] struct {
	// From is the previous kind. Only meaningful when HasFrom is true.
	From K

	// To is the kind that is now current.
	To K

	// HasFrom is false for the machine's very first transition, when no
	// state was active yet.
	HasFrom bool
}

// Machine manages exactly one active state per owner and performs controlled
// transitions between registered states. The zero value is not usable; use
// New. Safe for concurrent use by multiple goroutines.
type Machine[K comparable, O any] struct {
	// mu protects states, current, previous, and their presence flags.
	mu sync.Mutex

	owner  O
	states map[K]State

	current     K
	hasCurrent  bool
	previous    K
	hasPrevious bool

	transitions *events.Channel[Transition[K]]
}

// New creates a Machine scoped to owner with no registered states and no
// active state.
func New[K comparable, O any](owner O) *Machine[K, O] {
	return &Machine[K, O]{
		owner:       owner,
		states:      make(map[K]State),
		transitions: events.NewChannel[Transition[K]](),
	}
}

// Owner returns the entity this machine is scoped to.
func (m *Machine[K, O]) Owner() O {
	return m.owner
}

// Transitions returns the channel on which completed state changes are
// published. Subscribers run synchronously after the new state's Enter.
func (m *Machine[K, O]) Transitions() *events.Channel[Transition[K]] {
	return m.transitions
}

// Register constructs the state for kind via factory and adds it to the
// machine. If kind is already registered the existing state is kept, the
// conflict is logged, and ErrDuplicateRegistration is returned. Panics if
// factory is nil.
func (m *Machine[K, O]) Register(kind K, factory Factory[K, O]) error {
	if factory == nil {
		panic("gamecore: fsm.Register factory must not be nil")
	}

	m.mu.Lock()
	if _, exists := m.states[kind]; exists {
		m.mu.Unlock()
		logging.Logger().Warn("state kind already registered", "kind", fmt.Sprint(kind))
		return fmt.Errorf("registering state %v: %w", kind, ErrDuplicateRegistration)
	}
	m.mu.Unlock()

	// Construct outside the lock: the factory receives the machine and may
	// query it during construction.
	st := factory(m.owner, m)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.states[kind]; exists {
		logging.Logger().Warn("state kind already registered", "kind", fmt.Sprint(kind))
		return fmt.Errorf("registering state %v: %w", kind, ErrDuplicateRegistration)
	}
	m.states[kind] = st
	return nil
}

// ChangeState transitions the machine to kind. Changing to the current kind
// is a true no-op: no Exit, no Enter, no notification. If kind is not
// registered, ChangeState logs, returns ErrStateNotFound, and leaves the
// current state unchanged. Otherwise the current state (if any) is recorded
// as previous and exited, the target becomes current and is entered, and a
// Transition is published.
func (m *Machine[K, O]) ChangeState(kind K) error {
	m.mu.Lock()
	if m.hasCurrent && m.current == kind {
		m.mu.Unlock()
		return nil
	}

	next, ok := m.states[kind]
	if !ok {
		m.mu.Unlock()
		logging.Logger().Error("transition to unregistered state", "kind", fmt.Sprint(kind))
		return fmt.Errorf("changing state to %v: %w", kind, ErrStateNotFound)
	}

	tr := Transition[K]{To: kind}
	var exiting State
	if m.hasCurrent {
		exiting = m.states[m.current]
		m.previous = m.current
		m.hasPrevious = true
		tr.From = m.current
		tr.HasFrom = true
	}
	m.current = kind
	m.hasCurrent = true
	m.mu.Unlock()

	// Hooks run outside the lock so a state may trigger a follow-up
	// transition from Enter without deadlocking.
	if exiting != nil {
		runHook("exit", func() { exiting.Exit() })
	}
	runHook("enter", func() { next.Enter() })
	m.transitions.Publish(tr)
	return nil
}

// RevertToPrevious transitions back to whatever state was previous at call
// time. A no-op when no previous state has been recorded.
func (m *Machine[K, O]) RevertToPrevious() error {
	m.mu.Lock()
	if !m.hasPrevious {
		m.mu.Unlock()
		return nil
	}
	prev := m.previous
	m.mu.Unlock()

	return m.ChangeState(prev)
}

// Tick forwards dt to the current state's Update hook; a no-op when no state
// is active. A panicking hook is recovered and logged so the machine keeps
// ticking on subsequent frames.
func (m *Machine[K, O]) Tick(dt time.Duration) {
	if st, ok := m.activeState(); ok {
		runHook("update", func() { st.Update(dt) })
	}
}

// FixedTick forwards dt to the current state's FixedUpdate hook; a no-op
// when no state is active. Panics are recovered and logged like Tick.
func (m *Machine[K, O]) FixedTick(dt time.Duration) {
	if st, ok := m.activeState(); ok {
		runHook("fixed update", func() { st.FixedUpdate(dt) })
	}
}

// IsInState reports whether kind is the current state. Pure query.
func (m *Machine[K, O]) IsInState(kind K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasCurrent && m.current == kind
}

// Current returns the current state's kind, and false when no state is
// active yet.
func (m *Machine[K, O]) Current() (K, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.hasCurrent
}

// Previous returns the previously active state's kind, and false when no
// transition has recorded one.
func (m *Machine[K, O]) Previous() (K, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.previous, m.hasPrevious
}

// activeState returns the current state instance, if any.
func (m *Machine[K, O]) activeState() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasCurrent {
		return nil, false
	}
	return m.states[m.current], true
}

// runHook executes one state hook, converting a panic into a logged error.
// State failures are never fatal to the owning process.
func runHook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("state hook panicked", "hook", name, "panic", r)
		}
	}()
	fn()
}
