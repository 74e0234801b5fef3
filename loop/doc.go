// Package loop drives per-frame and fixed-timestep updates.
//
// A Runner is the "game manager" side of the framework: it owns the clock
// and calls the host's Tick and FixedTick callbacks, which typically forward
// into one or more fsm machines. Variable updates run once per frame with
// the real elapsed time; fixed updates run zero or more times per frame from
// an accumulator, each with the same fixed step.
//
//	r := loop.New(
//	    loop.WithTick(func(dt time.Duration) { machine.Tick(dt) }),
//	    loop.WithFixedTick(func(dt time.Duration) { machine.FixedTick(dt) }),
//	)
//	err := r.Run(ctx) // returns when ctx is canceled
package loop
