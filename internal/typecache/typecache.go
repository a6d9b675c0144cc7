// Package typecache memoizes artifacts derived from a reflect.Type.
//
// Reads of published values are lock-free. A miss takes the cache mutex,
// re-checks, builds and publishes, so at most one value per type is ever
// published and concurrent first callers all observe it.
package typecache

import (
	"reflect"
	"sync"
)

// Cache maps a type to a lazily built value of V.
type Cache[V any] struct {
	mu     sync.Mutex
	values sync.Map // reflect.Type -> V
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{}
}

// Get returns the value published for t, if any.
func (c *Cache[V]) Get(t reflect.Type) (V, bool) {
	if v, ok := c.values.Load(t); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// GetOrBuild returns the value for t, calling build exactly once per type
// when nothing has been published yet. build runs under the cache lock and
// must not call back into the same cache.
func (c *Cache[V]) GetOrBuild(t reflect.Type, build func() V) V {
	if v, ok := c.values.Load(t); ok {
		return v.(V)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check: another caller may have published while we waited.
	if v, ok := c.values.Load(t); ok {
		return v.(V)
	}

	v := build()
	c.values.Store(t, v)
	return v
}

// SetOnce publishes v for t unless a value is already published. It reports
// whether v was stored.
func (c *Cache[V]) SetOnce(t reflect.Type, v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.values.Load(t); ok {
		return false
	}
	c.values.Store(t, v)
	return true
}

// Has reports whether a value is published for t.
func (c *Cache[V]) Has(t reflect.Type) bool {
	_, ok := c.values.Load(t)
	return ok
}

// Len returns the number of published types.
func (c *Cache[V]) Len() int {
	n := 0
	c.values.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// TypeOf returns the reflect.Type for T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
