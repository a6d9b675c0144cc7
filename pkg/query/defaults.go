package query

import (
	"fmt"
	"reflect"

	"github.com/dmitrymomot/rulekit/internal/typecache"
	"github.com/dmitrymomot/rulekit/pkg/construct"
)

// Types declare their query defaults either by calling the Set/Declare
// functions at startup or by implementing these methods (value or pointer
// receiver). A default is fixed once declared or first read; declaring it
// again panics with ErrAlreadyDeclared.
type (
	defaultFilterer[T any] interface {
		DefaultFilter() Condition[T]
	}
	sortFielder[T any] interface {
		SortFields() []Key[T]
	}
	defaultProjector[T any] interface {
		DefaultProjection() Projection[T]
	}
)

var (
	predicates   = typecache.New[any]()
	dictionaries = typecache.New[any]()
	projections  = typecache.New[any]()
)

// SoftDelete is the usual default condition: the deleted marker is false.
func SoftDelete[T any](deleted Column[T, bool]) Condition[T] {
	return Eq(deleted, false)
}

// SetDefaultPredicate declares the base condition of every Where[T]().
func SetDefaultPredicate[T any](c Condition[T]) {
	declare(predicates, typecache.TypeOf[T](), c)
}

// DefaultPredicate returns T's declared base condition, or True.
func DefaultPredicate[T any]() Condition[T] {
	return predicates.GetOrBuild(typecache.TypeOf[T](), func() any {
		if h, ok := hook[T, defaultFilterer[T]](); ok {
			return h.DefaultFilter()
		}
		return True[T]()
	}).(Condition[T])
}

// DeclareSortFields declares the fields clients may sort T by.
func DeclareSortFields[T any](keys ...Key[T]) {
	declare(dictionaries, typecache.TypeOf[T](), NewSortDictionary(keys...))
}

// SortDictionaryFor returns T's sort dictionary, built once.
func SortDictionaryFor[T any]() SortDictionary[T] {
	return dictionaries.GetOrBuild(typecache.TypeOf[T](), func() any {
		if h, ok := hook[T, sortFielder[T]](); ok {
			return NewSortDictionary(h.SortFields()...)
		}
		return NewSortDictionary[T]()
	}).(SortDictionary[T])
}

// ParseSort looks up a client-provided (field, direction) pair in T's
// dictionary and falls back to the dictionary's default order.
func ParseSort[T any](field, dir string) SortKey[T] {
	d := SortDictionaryFor[T]()
	if key, ok := d.Lookup(field, dir); ok {
		return key
	}
	return d.Default()
}

// SetDefaultProjection declares T's default projection.
func SetDefaultProjection[T any](p Projection[T]) {
	declare(projections, typecache.TypeOf[T](), p)
}

// DefaultProjection returns T's default projection, memoized on first use.
func DefaultProjection[T any]() Projection[T] {
	return projections.GetOrBuild(typecache.TypeOf[T](), func() any {
		if h, ok := hook[T, defaultProjector[T]](); ok {
			return h.DefaultProjection()
		}
		return Identity[T]()
	}).(Projection[T])
}

func declare(c *typecache.Cache[any], t reflect.Type, v any) {
	if !c.SetOnce(t, v) {
		panic(fmt.Errorf("%w: %s", ErrAlreadyDeclared, t))
	}
}

// hook looks for method set H on a default instance of T.
func hook[T, H any]() (H, bool) {
	v, err := construct.New[T](construct.Default())
	if err != nil {
		var zero T
		v = zero
	}
	if h, ok := any(v).(H); ok {
		return h, true
	}
	h, ok := any(&v).(H)
	return h, ok
}
