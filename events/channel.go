package events

import (
	"sync"

	"github.com/playforge/gamecore/internal/logging"
)

// Channel is a typed publish/subscribe event channel. It is safe for
// concurrent use by multiple goroutines.
type Channel[T any] struct {
	// mu protects subscribers and nextID.
	mu sync.RWMutex

	// subscribers maps a subscription ID to its callback. A map keyed by a
	// monotonically increasing ID lets Subscribe hand back a cancel func
	// that removes exactly one subscription, even for identical callbacks.
	subscribers map[uint64]func(T)

	nextID uint64
}

// NewChannel creates an empty Channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{
		subscribers: make(map[uint64]func(T)),
	}
}

// Subscribe registers fn to be invoked for every subsequent Publish. The
// returned cancel func removes the subscription; calling it more than once
// is a no-op. Panics if fn is nil.
func (c *Channel[T]) Subscribe(fn func(T)) (cancel func()) {
	if fn == nil {
		panic("gamecore: events.Subscribe fn must not be nil")
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

// Publish delivers v to every current subscriber on the calling goroutine.
// Subscribers registered during delivery do not receive v. A panicking
// subscriber is recovered and logged; the remaining subscribers still run.
func (c *Channel[T]) Publish(v T) {
	c.mu.RLock()
	fns := make([]func(T), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	// Invoke outside the lock so a subscriber may subscribe or cancel
	// without deadlocking.
	for _, fn := range fns {
		invoke(fn, v)
	}
}

// Len returns the current number of subscribers.
func (c *Channel[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers)
}

// invoke runs one subscriber, converting a panic into a logged error so a
// misbehaving listener cannot take down the publisher.
func invoke[T any](fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("event subscriber panicked", "panic", r)
		}
	}()
	fn(v)
}
