package pool

import "fmt"

// Option configures a Pool during construction via NewPool or
// Manager.CreatePool. Several With* functions panic on invalid input:
// option values are typically compile-time constants, so an invalid value is
// a programmer error caught at initialization, mirroring
// [regexp.MustCompile].
type Option[T comparable] func(*poolConfig[T])

// poolConfig holds construction-time pool settings.
type poolConfig[T comparable] struct {
	maxSize   int
	onSpawn   func(T)
	onDespawn func(T)
}

// WithMaxSize caps the number of instances the pool will ever create. A
// bounded pool with no idle instance and no headroom fails Spawn with
// ErrPoolExhausted. 0 means unbounded (the default).
//
// Panics if size < 0.
func WithMaxSize[T comparable](size int) Option[T] {
	if size < 0 {
		panic(fmt.Sprintf("gamecore: pool max size must not be negative, got %d", size))
	}
	return func(c *poolConfig[T]) {
		c.maxSize = size
	}
}

// WithSpawnHook sets a callback run on every instance handed out by Spawn,
// after it leaves the idle set. Use it to re-activate recycled instances.
func WithSpawnHook[T comparable](fn func(T)) Option[T] {
	return func(c *poolConfig[T]) {
		c.onSpawn = fn
	}
}

// WithDespawnHook sets a callback run on every instance returned by Despawn,
// after it rejoins the idle set. Use it to deactivate and reset instances.
func WithDespawnHook[T comparable](fn func(T)) Option[T] {
	return func(c *poolConfig[T]) {
		c.onDespawn = fn
	}
}

// ManagerOption configures a Manager during construction via NewManager.
type ManagerOption func(*managerConfig)

// managerConfig holds construction-time manager settings.
type managerConfig struct {
	mode WarmUpMode
}

// WithWarmUpMode sets the manager's warm-up behavior. With WarmUpEager the
// readiness flag starts false and flips once WarmUpAll concludes; with
// WarmUpDisabled (the default) the manager is warmed-up from construction.
//
// Panics if mode is not a recognized WarmUpMode.
func WithWarmUpMode(mode WarmUpMode) ManagerOption {
	if !mode.IsValid() {
		panic(fmt.Sprintf("gamecore: invalid warm-up mode %d", uint8(mode)))
	}
	return func(c *managerConfig) {
		c.mode = mode
	}
}
