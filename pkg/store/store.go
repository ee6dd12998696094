// Package store provides a minimal observable value cell and read-only views
// derived from one or more cells.
//
// Writes notify subscribers synchronously, in subscription order, right after
// the value changes. There is no batching: two quick writes produce two
// notifications.
package store

import (
	"sync"
	"sync/atomic"
)

// Listener receives the value held by a store.
type Listener[T any] func(T)

// Readable is the read-only side of a store.
type Readable[T any] interface {
	Get() T
	Subscribe(fn Listener[T]) (unsubscribe func())
}

// Watchable reports changes without delivering the value and without the
// immediate call Subscribe performs. Derived views use it to observe sources
// of different types.
type Watchable interface {
	Watch(fn func()) (unsubscribe func())
}

type subscriber[T any] struct {
	id uint64
	fn Listener[T]
}

// Store holds a value of type T and notifies subscribers on every write.
type Store[T any] struct {
	mu     sync.Mutex
	writer sync.Mutex
	value  T
	subs   []subscriber[T]
	nextID uint64
}

var (
	_ Readable[int] = (*Store[int])(nil)
	_ Watchable     = (*Store[int])(nil)
)

// New returns a store seeded with initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and notifies every current subscriber.
func (s *Store[T]) Set(v T) {
	s.writer.Lock()
	subs := s.swap(v)
	s.writer.Unlock()
	notify(subs, v)
}

// Update applies fn to the current value and stores the result. Concurrent
// Set/Update calls on the same store are serialised, so fn always sees the
// latest value. fn must not write to the same store.
func (s *Store[T]) Update(fn func(T) T) {
	if fn == nil {
		return
	}
	v, subs := s.apply(fn)
	notify(subs, v)
}

// apply runs fn and swaps in its result under the writer lock. A panicking fn
// leaves the value unchanged and the store usable.
func (s *Store[T]) apply(fn func(T) T) (T, []subscriber[T]) {
	s.writer.Lock()
	defer s.writer.Unlock()
	v := fn(s.Get())
	return v, s.swap(v)
}

func (s *Store[T]) swap(v T) []subscriber[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	return append([]subscriber[T](nil), s.subs...)
}

func notify[T any](subs []subscriber[T], v T) {
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn, calls it once with the current value and returns a
// function that removes the registration. Calling the returned function more
// than once is harmless.
func (s *Store[T]) Subscribe(fn Listener[T]) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

// Watch registers fn to run after every write. Unlike Subscribe it does not
// run immediately.
func (s *Store[T]) Watch(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	var armed atomic.Bool
	unsubscribe := s.Subscribe(func(T) {
		if armed.Load() {
			fn()
		}
	})
	armed.Store(true)
	return unsubscribe
}

func (s *Store[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:idx:idx], s.subs[idx+1:]...)
			return
		}
	}
}

// Len reports the number of active subscribers.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
