// Package fsm provides a generic finite state machine for game entities.
//
// A Machine is scoped to one owner and holds at most one active state at a
// time. States are registered once through factories, constructed bound to
// the owner and the machine (so a state can trigger its own transitions),
// and reused across activations. The host drives the machine once per frame
// through Tick and FixedTick; the machine performs no internal scheduling.
//
//	type guard struct{ alerted bool }
//
//	m := fsm.New[string](&guard{})
//	_ = m.Register("patrol", func(g *guard, m *fsm.Machine[string, *guard]) fsm.State {
//	    return &patrolState{guard: g, machine: m}
//	})
//	_ = m.Register("chase", newChaseState)
//
//	_ = m.ChangeState("patrol")
//	m.Tick(16 * time.Millisecond)
//
// Completed transitions are published on the machine's Transitions channel.
//
// The machine is safe for concurrent use, though the intended model is a
// single cooperative update goroutine.
package fsm
