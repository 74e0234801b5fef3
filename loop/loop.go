package loop

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultFrameInterval targets roughly 60 frames per second.
	DefaultFrameInterval = time.Second / 60

	// DefaultFixedStep is the fixed-update timestep, matching the common
	// 50 Hz physics rate.
	DefaultFixedStep = 20 * time.Millisecond

	// maxFrameDelta caps the elapsed time fed into a single frame so a
	// stalled process (debugger, laptop sleep) does not trigger a huge
	// catch-up burst of fixed updates.
	maxFrameDelta = 250 * time.Millisecond
)

// Option configures a Runner during construction via New.
type Option func(*Runner)

// WithTick sets the per-frame variable update callback.
func WithTick(fn func(dt time.Duration)) Option {
	return func(r *Runner) { r.tick = fn }
}

// WithFixedTick sets the fixed-timestep update callback.
func WithFixedTick(fn func(dt time.Duration)) Option {
	return func(r *Runner) { r.fixedTick = fn }
}

// WithFrameInterval sets the frame pacing interval. Panics if d <= 0.
func WithFrameInterval(d time.Duration) Option {
	if d <= 0 {
		panic(fmt.Sprintf("gamecore: frame interval must be greater than 0, got %v", d))
	}
	return func(r *Runner) { r.frameInterval = d }
}

// WithFixedStep sets the fixed-update timestep. Panics if d <= 0.
func WithFixedStep(d time.Duration) Option {
	if d <= 0 {
		panic(fmt.Sprintf("gamecore: fixed step must be greater than 0, got %v", d))
	}
	return func(r *Runner) { r.fixedStep = d }
}

// Runner drives a fixed-timestep update loop. Construct with New; the zero
// value is not usable.
type Runner struct {
	tick          func(dt time.Duration)
	fixedTick     func(dt time.Duration)
	frameInterval time.Duration
	fixedStep     time.Duration

	// accumulator carries unconsumed elapsed time between frames for the
	// fixed-step schedule.
	accumulator time.Duration
}

// New creates a Runner with default pacing and the given options. Both
// callbacks are optional; a nil callback is simply skipped.
func New(opts ...Option) *Runner {
	r := &Runner{
		frameInterval: DefaultFrameInterval,
		fixedStep:     DefaultFixedStep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the loop until ctx is canceled, then returns nil. The loop
// runs entirely on the calling goroutine, preserving the single-threaded
// cooperative model the framework's components assume.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.frameInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			r.step(now.Sub(last))
			last = now
		}
	}
}

// step advances the loop by one frame's elapsed wall time: all due fixed
// updates first, then one variable update.
func (r *Runner) step(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxFrameDelta {
		elapsed = maxFrameDelta
	}

	r.accumulator += elapsed
	for r.accumulator >= r.fixedStep {
		r.accumulator -= r.fixedStep
		if r.fixedTick != nil {
			r.fixedTick(r.fixedStep)
		}
	}

	if r.tick != nil {
		r.tick(elapsed)
	}
}
