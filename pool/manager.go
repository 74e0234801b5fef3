package pool

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/playforge/gamecore/internal/logging"
)

// Manager owns the mapping from pool-kind identity to Pool and coordinates
// warm-up across all of them. Kinds are generic tags (enum, string); T is
// the instance type, typically a pointer.
//
// It is safe for concurrent use by multiple goroutines.
type Manager[K comparable, T comparable] struct {
	// mu protects pools, targets, and closed.
	mu sync.Mutex

	pools map[K]*Pool[T]

	// targets records each pool's initial size for WarmUpAll.
	targets map[K]int

	closed bool

	mode WarmUpMode

	// ready is closed exactly once, when the manager is warmed up. With
	// WarmUpDisabled it is closed at construction, so a consumer awaiting
	// readiness never waits forever when warm-up was never requested.
	ready     chan struct{}
	readyOnce sync.Once
}

// NewManager creates a Manager with no pools. With the default
// WarmUpDisabled mode the manager reports warmed-up immediately.
func NewManager[K comparable, T comparable](opts ...ManagerOption) *Manager[K, T] {
	var cfg managerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Manager[K, T]{
		pools:   make(map[K]*Pool[T]),
		targets: make(map[K]int),
		mode:    cfg.mode,
		ready:   make(chan struct{}),
	}
	if cfg.mode != WarmUpEager {
		m.markReady()
	}
	return m
}

// CreatePool registers a pool for kind with the given factory and warm-up
// target. If kind already has a pool the call is idempotent: the existing
// pool is kept and returned, and no duplicate is created. Panics if
// initialSize is negative or factory is nil.
func (m *Manager[K, T]) CreatePool(kind K, factory Factory[T], initialSize int, opts ...Option[T]) *Pool[T] {
	if initialSize < 0 {
		panic(fmt.Sprintf("gamecore: pool initial size must not be negative, got %d", initialSize))
	}

	m.mu.Lock()
	if existing, ok := m.pools[kind]; ok {
		m.mu.Unlock()
		logging.Logger().Debug("pool already registered", "kind", fmt.Sprint(kind))
		return existing
	}
	m.mu.Unlock()

	// NewPool validates the factory; constructed outside the lock to keep
	// the critical section map-only.
	p := NewPool(factory, opts...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.pools[kind]; ok {
		logging.Logger().Debug("pool already registered", "kind", fmt.Sprint(kind))
		return existing
	}
	m.pools[kind] = p
	m.targets[kind] = initialSize
	return p
}

// Pool returns the pool registered for kind.
func (m *Manager[K, T]) Pool(kind K) (*Pool[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[kind]
	if !ok {
		return nil, fmt.Errorf("pool %v: %w", kind, ErrPoolNotFound)
	}
	return p, nil
}

// Spawn returns a usable instance from the pool registered for kind. See
// Pool.Spawn for the reuse and exhaustion semantics.
func (m *Manager[K, T]) Spawn(kind K) (T, error) {
	p, err := m.Pool(kind)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.Spawn()
}

// Despawn returns v to whichever pool owns it as an active instance.
// Despawning an instance no pool owns, or one already idle, fails with
// ErrInvalidRelease; pool state is never corrupted.
func (m *Manager[K, T]) Despawn(v T) error {
	m.mu.Lock()
	pools := make([]*Pool[T], 0, len(m.pools))
	for _, p := range m.pools {
		pools = append(pools, p)
	}
	m.mu.Unlock()

	idleSomewhere := false
	for _, p := range pools {
		active, idle := p.contains(v)
		if active {
			return p.Despawn(v)
		}
		idleSomewhere = idleSomewhere || idle
	}

	if idleSomewhere {
		logging.Logger().Warn("despawn of already idle instance")
		return fmt.Errorf("instance already idle: %w", ErrInvalidRelease)
	}
	logging.Logger().Warn("despawn of instance not owned by any pool")
	return fmt.Errorf("instance not owned by any pool: %w", ErrInvalidRelease)
}

// WarmUp synchronously pre-fills the pool registered for kind to count idle
// instances. The context is checked between instantiations (cooperative
// cancellation). Safe to call regardless of the manager's warm-up mode.
func (m *Manager[K, T]) WarmUp(ctx context.Context, kind K, count int) error {
	p, err := m.Pool(kind)
	if err != nil {
		return err
	}
	if err := p.WarmUp(ctx, count); err != nil {
		return fmt.Errorf("warming up pool %v: %w", kind, err)
	}
	return nil
}

// WarmUpAll pre-fills every registered pool to its initial size in the
// background and returns immediately. Instantiation failures are delivered
// on the returned channel, which is closed when warm-up concludes; the
// channel is buffered so failures are never lost even if the caller does not
// read it. The readiness flag flips exactly once, after success or caught
// failure, so waiters are never stuck.
//
// With WarmUpDisabled the call constructs nothing, flips nothing (the
// manager is already ready), and returns an immediately closed channel.
func (m *Manager[K, T]) WarmUpAll(ctx context.Context) <-chan error {
	m.mu.Lock()
	type job struct {
		kind   K
		pool   *Pool[T]
		target int
	}
	jobs := make([]job, 0, len(m.pools))
	if m.mode == WarmUpEager && !m.closed {
		for kind, p := range m.pools {
			jobs = append(jobs, job{kind: kind, pool: p, target: m.targets[kind]})
		}
	}
	m.mu.Unlock()

	errs := make(chan error, len(jobs))
	if len(jobs) == 0 {
		if m.mode != WarmUpEager {
			logging.Logger().Debug("warm-up disabled, manager ready")
		}
		m.markReady()
		close(errs)
		return errs
	}

	go func() {
		defer close(errs)
		defer m.markReady()

		var g errgroup.Group
		for _, j := range jobs {
			j := j
			g.Go(func() error {
				if err := j.pool.WarmUp(ctx, j.target); err != nil {
					err = fmt.Errorf("warming up pool %v: %w", j.kind, err)
					errs <- err
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			logging.Logger().Error("pool warm-up concluded with failures", "error", err)
			return
		}
		logging.Logger().Debug("pool warm-up complete", "pools", len(jobs))
	}()
	return errs
}

// IsWarmedUp reports whether warm-up has concluded. True from construction
// unless eager warm-up was requested and has not yet finished.
func (m *Manager[K, T]) IsWarmedUp() bool {
	select {
	case <-m.ready:
		return true
	default:
		return false
	}
}

// Ready returns a channel that is closed once the manager is warmed up.
func (m *Manager[K, T]) Ready() <-chan struct{} {
	return m.ready
}

// Close closes every pool and forgets them. Pools drop their idle instances;
// in-flight instances are dropped on Despawn. Subsequent Spawn calls fail
// with ErrPoolNotFound. Idempotent. The readiness flag is flipped so no
// waiter outlives the manager.
func (m *Manager[K, T]) Close() {
	m.mu.Lock()
	pools := make([]*Pool[T], 0, len(m.pools))
	for _, p := range m.pools {
		pools = append(pools, p)
	}
	m.pools = make(map[K]*Pool[T])
	m.targets = make(map[K]int)
	m.closed = true
	m.mu.Unlock()

	for _, p := range pools {
		p.Close()
	}
	m.markReady()
}

// PoolStats returns a snapshot of every pool's counters keyed by the kind's
// string form. Implements StatsSource for the metrics package.
func (m *Manager[K, T]) PoolStats() map[string]Stats {
	m.mu.Lock()
	pools := make(map[string]*Pool[T], len(m.pools))
	for kind, p := range m.pools {
		pools[fmt.Sprint(kind)] = p
	}
	m.mu.Unlock()

	out := make(map[string]Stats, len(pools))
	for name, p := range pools {
		out[name] = p.Stats()
	}
	return out
}

// markReady flips the readiness flag. Safe to call more than once; the flag
// transitions exactly once.
func (m *Manager[K, T]) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

// StatsSource is the read-only view of a manager consumed by metrics
// collectors.
type StatsSource interface {
	PoolStats() map[string]Stats
}
