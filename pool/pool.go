package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/playforge/gamecore/internal/logging"
)

// Factory constructs one pool instance. It encapsulates all construction
// details (template lookup, initial wiring), keeping the pool decoupled from
// how instances come to be.
type Factory[T comparable] func() (T, error)

// Pool manages the reusable instances for one spawnable kind. Every instance
// the pool ever handed out is either idle (available for reuse) or active
// (checked out), never both. Spawn prefers idle instances and constructs new
// ones only below the configured cap.
//
// It is safe for concurrent use by multiple goroutines.
type Pool[T comparable] struct {
	// mu protects free, active, created, closed, and the stat counters.
	mu sync.Mutex

	// free is a LIFO stack of idle instances. Spawn pops from the end;
	// Despawn pushes to the end, so the most recently used instance is
	// reused first.
	free []T

	// active holds the checked-out instances.
	active map[T]struct{}

	// created counts instances ever constructed, including ones currently
	// active. Bounded pools stop constructing at maxSize.
	created int

	// closed is set by Close. Once set, Spawn and WarmUp fail with
	// ErrPoolClosed and Despawn drops instances instead of keeping them.
	closed bool

	factory   Factory[T]
	maxSize   int
	onSpawn   func(T)
	onDespawn func(T)

	// Counters for Stats.
	reused      uint64
	constructed uint64
	exhausted   uint64
}

// NewPool creates a Pool that constructs instances on demand using factory.
// Panics if factory is nil.
func NewPool[T comparable](factory Factory[T], opts ...Option[T]) *Pool[T] {
	if factory == nil {
		panic("gamecore: pool.NewPool factory must not be nil")
	}

	var cfg poolConfig[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool[T]{
		active:    make(map[T]struct{}),
		factory:   factory,
		maxSize:   cfg.maxSize,
		onSpawn:   cfg.onSpawn,
		onDespawn: cfg.onDespawn,
	}
	if cfg.maxSize > 0 {
		p.free = make([]T, 0, cfg.maxSize)
	}
	return p
}

// Spawn returns an instance for use: an idle one if available, else a newly
// constructed one when below the cap. A bounded pool with no headroom fails
// with ErrPoolExhausted — Spawn never blocks waiting for a release, and the
// request is never silently dropped. Returns ErrPoolClosed after Close.
func (p *Pool[T]) Spawn() (T, error) {
	var zero T

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, ErrPoolClosed
	}

	// LIFO: pop from the end of the idle stack if available.
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		p.free = p.free[:n-1]
		p.active[v] = struct{}{}
		p.reused++
		onSpawn := p.onSpawn
		p.mu.Unlock()
		if onSpawn != nil {
			onSpawn(v)
		}
		return v, nil
	}

	if p.maxSize > 0 && p.created >= p.maxSize {
		p.exhausted++
		p.mu.Unlock()
		logging.Logger().Warn("pool exhausted", "max_size", p.maxSize)
		return zero, fmt.Errorf("spawning beyond capacity %d: %w", p.maxSize, ErrPoolExhausted)
	}

	// Consume a creation slot, then construct outside the lock. If the
	// factory fails the slot is handed back, so a transient failure does
	// not shrink a bounded pool.
	p.created++
	p.mu.Unlock()

	v, err := p.factory()
	if err != nil {
		p.mu.Lock()
		p.created--
		p.mu.Unlock()
		return zero, fmt.Errorf("constructing instance: %w", err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, ErrPoolClosed
	}
	p.active[v] = struct{}{}
	p.constructed++
	onSpawn := p.onSpawn
	p.mu.Unlock()

	if onSpawn != nil {
		onSpawn(v)
	}
	return v, nil
}

// Despawn returns an active instance to the idle stack. Despawning an
// instance the pool does not own, or one that is already idle, fails with
// ErrInvalidRelease and leaves pool state untouched.
func (p *Pool[T]) Despawn(v T) error {
	p.mu.Lock()
	if _, ok := p.active[v]; !ok {
		idle := p.isIdleLocked(v)
		p.mu.Unlock()
		if idle {
			logging.Logger().Warn("despawn of already idle instance")
			return fmt.Errorf("instance already idle: %w", ErrInvalidRelease)
		}
		logging.Logger().Warn("despawn of instance not owned by pool")
		return fmt.Errorf("instance not owned by pool: %w", ErrInvalidRelease)
	}

	delete(p.active, v)
	if p.closed {
		// Pool torn down while the instance was in flight; drop it.
		p.mu.Unlock()
		return nil
	}
	p.free = append(p.free, v)
	onDespawn := p.onDespawn
	p.mu.Unlock()

	if onDespawn != nil {
		onDespawn(v)
	}
	return nil
}

// WarmUp pre-instantiates idle members until the idle stack holds target
// instances, stopping early at a bounded pool's cap. The context is checked
// between instantiations, so an in-flight warm-up can be canceled
// cooperatively. Already-created instances are kept on failure. Panics if
// target is negative.
func (p *Pool[T]) WarmUp(ctx context.Context, target int) error {
	if target < 0 {
		panic(fmt.Sprintf("gamecore: warm-up target must not be negative, got %d", target))
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("warm-up canceled: %w", err)
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return ErrPoolClosed
		}
		if len(p.free) >= target {
			p.mu.Unlock()
			return nil
		}
		if p.maxSize > 0 && p.created >= p.maxSize {
			// Cap reached; a smaller idle stack than requested is not an
			// error.
			p.mu.Unlock()
			return nil
		}
		p.created++
		p.mu.Unlock()

		v, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return fmt.Errorf("%w: constructing instance: %w", ErrWarmUp, err)
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return ErrPoolClosed
		}
		p.free = append(p.free, v)
		p.constructed++
		p.mu.Unlock()
	}
}

// Close marks the pool as closed and drops the idle stack. Subsequent Spawn
// and WarmUp calls return ErrPoolClosed; Despawn of in-flight instances
// drops them instead of keeping them idle. Idempotent.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	p.closed = true
	p.free = nil
	p.mu.Unlock()
}

// Stats is a point-in-time snapshot of one pool's counters.
type Stats struct {
	// Idle is the number of instances currently available for reuse.
	Idle int
	// Active is the number of instances currently checked out.
	Active int
	// Created is the number of instances ever constructed.
	Created int

	// Reused counts spawns served from the idle stack.
	Reused uint64
	// Constructed counts spawns and warm-ups that built a new instance.
	Constructed uint64
	// Exhausted counts spawns rejected with ErrPoolExhausted.
	Exhausted uint64
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Idle:        len(p.free),
		Active:      len(p.active),
		Created:     p.created,
		Reused:      p.reused,
		Constructed: p.constructed,
		Exhausted:   p.exhausted,
	}
}

// contains reports whether v is active or idle in this pool.
func (p *Pool[T]) contains(v T) (active, idle bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.active[v]; ok {
		return true, false
	}
	return false, p.isIdleLocked(v)
}

// isIdleLocked scans the idle stack for v. Callers must hold mu. The stack
// is small (bounded by warm-up targets), so a linear scan on the error path
// beats maintaining a second set on every spawn.
func (p *Pool[T]) isIdleLocked(v T) bool {
	for _, f := range p.free {
		if f == v {
			return true
		}
	}
	return false
}
