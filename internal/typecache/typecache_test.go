package typecache_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/internal/typecache"
)

type sample struct{ Name string }

type stringer interface{ String() string }

func TestCache_GetOrBuild(t *testing.T) {
	t.Run("builds once per type", func(t *testing.T) {
		c := typecache.New[int]()
		calls := 0

		v1 := c.GetOrBuild(reflect.TypeOf(sample{}), func() int { calls++; return 42 })
		v2 := c.GetOrBuild(reflect.TypeOf(sample{}), func() int { calls++; return 7 })

		assert.Equal(t, 42, v1)
		assert.Equal(t, 42, v2)
		assert.Equal(t, 1, calls)
	})

	t.Run("distinct types get distinct values", func(t *testing.T) {
		c := typecache.New[string]()

		a := c.GetOrBuild(reflect.TypeOf(sample{}), func() string { return "sample" })
		b := c.GetOrBuild(reflect.TypeOf(&sample{}), func() string { return "pointer" })

		assert.Equal(t, "sample", a)
		assert.Equal(t, "pointer", b)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("concurrent misses converge", func(t *testing.T) {
		c := typecache.New[*sample]()
		var calls atomic.Int32
		typ := reflect.TypeOf(sample{})

		const workers = 64
		results := make([]*sample, workers)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				results[i] = c.GetOrBuild(typ, func() *sample {
					calls.Add(1)
					return &sample{Name: "built"}
				})
			}(i)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Same(t, results[0], r)
		}
	})
}

func TestCache_GetAndSetOnce(t *testing.T) {
	c := typecache.New[int]()
	typ := reflect.TypeOf(sample{})

	_, ok := c.Get(typ)
	assert.False(t, ok)
	assert.False(t, c.Has(typ))

	assert.True(t, c.SetOnce(typ, 3))
	v, ok := c.Get(typ)
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.True(t, c.Has(typ))

	assert.False(t, c.SetOnce(typ, 4))
	v, _ = c.Get(typ)
	assert.Equal(t, 3, v)
	assert.Equal(t, 3, c.GetOrBuild(typ, func() int { return 5 }))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, reflect.TypeOf(sample{}), typecache.TypeOf[sample]())
	assert.Equal(t, reflect.Interface, typecache.TypeOf[stringer]().Kind())
}
