// Package gamecore is a lightweight game-development framework core: a
// generic finite state machine, an object pool manager with warm-up, typed
// event channels, a slot-based save store, a typed service registry, and a
// CSV-to-XML data table pipeline with a companion CLI.
//
// The two central components are [github.com/playforge/gamecore/fsm] and
// [github.com/playforge/gamecore/pool]. They do not interact; both are driven
// by the host's update loop (see [github.com/playforge/gamecore/loop]).
//
// # State machine
//
//	type actor struct{ hp int }
//
//	m := fsm.New[string](&actor{hp: 10})
//	_ = m.Register("idle", newIdleState)
//	_ = m.Register("running", newRunningState)
//
//	if err := m.ChangeState("running"); err != nil {
//	    log.Fatal(err)
//	}
//	m.Tick(16 * time.Millisecond) // once per frame, from the host loop
//
// # Pooling
//
//	mgr := pool.NewManager[string, *bullet](pool.WithWarmUpMode(pool.WarmUpEager))
//	mgr.CreatePool("bullet", newBullet, 32, pool.WithMaxSize(128))
//
//	errs := mgr.WarmUpAll(ctx) // never blocks; failures arrive on errs
//	<-mgr.Ready()
//
//	b, err := mgr.Spawn("bullet")
//	if err != nil {
//	    // pool exhausted or closed; the request is never silently dropped
//	}
//	defer func() { _ = mgr.Despawn(b) }()
//
// # Logging
//
// All packages log through a shared slog-based logger. Integrate it with the
// host's logging setup via [SetLogger]:
//
//	gamecore.SetLogger(myLogger.With("component", "gamecore"))
package gamecore
