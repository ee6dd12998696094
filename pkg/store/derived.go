package store

import (
	"sync"
	"sync/atomic"
)

// Derived is a read-only view computed from other stores. It recomputes on
// every source write while it has at least one subscriber; Get always
// computes a fresh value.
type Derived[T any] struct {
	compute func() T
	sources []Watchable

	mu      sync.Mutex
	inner   *Store[T]
	refs    int
	release []func()
}

var _ Readable[int] = (*Derived[int])(nil)

// Derive builds a view whose value is compute(). The view observes every
// source lazily: sources are watched only while the view has subscribers.
func Derive[T any](compute func() T, sources ...Watchable) *Derived[T] {
	return &Derived[T]{
		compute: compute,
		sources: sources,
	}
}

// Get computes the current value.
func (d *Derived[T]) Get() T {
	return d.compute()
}

// Subscribe behaves like Store.Subscribe: fn runs immediately with the
// current value and again after every source write.
func (d *Derived[T]) Subscribe(fn Listener[T]) func() {
	if fn == nil {
		return func() {}
	}
	d.mu.Lock()
	if d.refs == 0 {
		d.inner = New(d.compute())
		inner := d.inner
		for _, src := range d.sources {
			if src == nil {
				continue
			}
			d.release = append(d.release, src.Watch(func() {
				inner.Set(d.compute())
			}))
		}
	}
	d.refs++
	inner := d.inner
	d.mu.Unlock()

	unsubscribe := inner.Subscribe(fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			d.mu.Lock()
			defer d.mu.Unlock()
			d.refs--
			if d.refs == 0 {
				for _, stop := range d.release {
					stop()
				}
				d.release = nil
				d.inner = nil
			}
		})
	}
}

// Watch implements Watchable so derived views can feed other views.
func (d *Derived[T]) Watch(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	var armed atomic.Bool
	unsubscribe := d.Subscribe(func(T) {
		if armed.Load() {
			fn()
		}
	})
	armed.Store(true)
	return unsubscribe
}
