// Package pool amortizes allocation cost for frequently spawned and
// despawned game objects.
//
// A Pool owns the reusable instances for one spawnable kind: an idle LIFO
// stack plus the set of checked-out (active) instances, with an optional
// maximum size. A Manager maps kind identities to pools and adds warm-up:
// pre-instantiating idle members before first real demand to avoid runtime
// allocation spikes.
//
//	mgr := pool.NewManager[string, *bullet](pool.WithWarmUpMode(pool.WarmUpEager))
//	mgr.CreatePool("bullet", func() (*bullet, error) { return &bullet{}, nil }, 32,
//	    pool.WithMaxSize(128),
//	    pool.WithDespawnHook(func(b *bullet) { b.reset() }),
//	)
//
//	errs := mgr.WarmUpAll(ctx) // asynchronous; never blocks the caller
//	<-mgr.Ready()
//	for err := range errs {
//	    log.Printf("warm-up: %v", err)
//	}
//
//	b, err := mgr.Spawn("bullet")
//	...
//	_ = mgr.Despawn(b)
//
// Spawn never blocks: a bounded pool with no idle instance and no headroom
// fails with ErrPoolExhausted instead of suspending the frame. The readiness
// flag is true from construction unless eager warm-up was requested, so a
// consumer awaiting Ready never waits forever when warm-up was never asked
// for.
//
// All types are safe for concurrent use by multiple goroutines.
package pool
