package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Subscriber is the callable signature shared by every subscriber of a
// registry instance. Subscribers receive the event payload and report
// failures through the returned error.
type Subscriber[T any] func(ctx context.Context, event T) error

// Handle identifies a single subscription. It is returned by Subscribe and
// can be passed to Remove to tear down exactly that subscription, even when
// the same function value was subscribed more than once.
type Handle[K comparable] struct {
	key K
	id  string
}

// Key returns the key this handle's subscription belongs to.
func (h Handle[K]) Key() K {
	return h.key
}

// subscription pairs a subscriber with the identity its handle carries.
type subscription[T any] struct {
	id string
	fn Subscriber[T]
}

// Registry maps keys to ordered subscriber lists and hands out one combined
// callable per key. Keys can be any comparable type; the payload type is
// fixed per registry instance.
//
// Per-key storage is created lazily on first Subscribe and never reclaimed:
// a key whose subscribers have all been removed keeps an empty list around.
// Read-side operations (Combined, Has, Count, Unsubscribe, Remove) never
// create storage as a side effect.
//
// All four operations are guarded by a single mutex, so the registry is safe
// to use from more than one goroutine even though the expected deployment is
// a single update loop.
type Registry[K comparable, T any] struct {
	mu       sync.RWMutex
	entries  map[K][]subscription[T]
	failFast bool
}

// Option configures a Registry.
type Option func(*settings)

type settings struct {
	failFast bool
}

// WithFailFast makes a combined invocation stop at the first subscriber
// error instead of running every subscriber and aggregating the failures.
func WithFailFast() Option {
	return func(s *settings) {
		s.failFast = true
	}
}

// New creates an empty registry. By default subscriber failures are
// isolated: every subscriber in a combined invocation runs, and all errors
// are aggregated into the returned error.
func New[K comparable, T any](opts ...Option) *Registry[K, T] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return &Registry[K, T]{
		entries:  make(map[K][]subscription[T]),
		failFast: s.failFast,
	}
}

// Subscribe appends fn to the subscriber list for key, creating the list if
// this is the key's first subscription. It never fails. Subscribing the same
// function value twice is legal; it will then be invoked twice per dispatch.
func (r *Registry[K, T]) Subscribe(key K, fn Subscriber[T]) Handle[K] {
	h := Handle[K]{key: key, id: uuid.NewString()}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = append(r.entries[key], subscription[T]{id: h.id, fn: fn})
	return h
}

// Unsubscribe removes the first subscription for key whose function value
// matches fn. It is a no-op if the key has never been touched or fn is not
// subscribed. The (possibly empty) subscriber list stays in place.
//
// Matching uses the function's code pointer. Named functions and method
// values compare as expected, but two closures created from the same
// function literal are indistinguishable; when that matters, keep the
// Handle from Subscribe and call Remove instead.
func (r *Registry[K, T]) Unsubscribe(key K, fn Subscriber[T]) {
	target := reflect.ValueOf(fn).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.entries[key]
	if !ok {
		return
	}
	for i, sub := range subs {
		if reflect.ValueOf(sub.fn).Pointer() == target {
			r.entries[key] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Remove tears down the exact subscription the handle was issued for. It is
// a no-op if the subscription was already removed.
func (r *Registry[K, T]) Remove(h Handle[K]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.entries[h.key]
	if !ok {
		return
	}
	for i, sub := range subs {
		if sub.id == h.id {
			r.entries[h.key] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Combined returns a single callable that invokes every subscriber currently
// registered for key, in subscription order, passing the same arguments to
// each. It returns nil when the key has never been touched or has no
// subscribers; callers must treat nil as "nothing to invoke" and skip it.
//
// The subscriber list is snapshotted here: mutating the registry after
// Combined returns does not change the behavior of the callable already
// obtained.
func (r *Registry[K, T]) Combined(key K) Subscriber[T] {
	r.mu.RLock()
	subs := r.entries[key]
	snapshot := make([]Subscriber[T], len(subs))
	for i, sub := range subs {
		snapshot[i] = sub.fn
	}
	r.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	failFast := r.failFast
	return func(ctx context.Context, event T) error {
		var errs []error
		for i, fn := range snapshot {
			if err := fn(ctx, event); err != nil {
				if failFast {
					return fmt.Errorf("subscriber %d: %w", i, err)
				}
				errs = append(errs, fmt.Errorf("subscriber %d: %w", i, err))
			}
		}
		return errors.Join(errs...)
	}
}

// Fire dispatches event to the key's current subscribers. It is shorthand
// for obtaining the combined callable and invoking it immediately; firing a
// key with no subscribers is a safe no-op.
func (r *Registry[K, T]) Fire(ctx context.Context, key K, event T) error {
	combined := r.Combined(key)
	if combined == nil {
		return nil
	}
	return combined(ctx, event)
}

// Has reports whether key currently has at least one subscriber. It never
// creates per-key storage.
func (r *Registry[K, T]) Has(key K) bool {
	return r.Count(key) > 0
}

// Count returns the number of subscriptions for key, counting duplicates.
func (r *Registry[K, T]) Count(key K) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[key])
}
