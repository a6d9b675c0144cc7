package query

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dmitrymomot/rulekit/internal/typecache"
)

// Key is anything a SortKey can order by.
type Key[T any] interface {
	Name() string
	Compare(a, b T) int
}

// Column names a field of T and knows how to read it. Columns built with
// Ordered, Time or ColFunc can also be used as sort keys.
type Column[T, V any] struct {
	name string
	get  func(T) V
	cmp  func(a, b V) int
}

// Col declares a column without ordering.
func Col[T, V any](path string, get func(T) V) Column[T, V] {
	return Column[T, V]{name: FieldName[T](path), get: get}
}

// Ordered declares a column over a naturally ordered value.
func Ordered[T any, V cmp.Ordered](path string, get func(T) V) Column[T, V] {
	return Column[T, V]{name: FieldName[T](path), get: get, cmp: cmp.Compare[V]}
}

// Time declares a column over a time.Time value.
func Time[T any](path string, get func(T) time.Time) Column[T, time.Time] {
	return Column[T, time.Time]{
		name: FieldName[T](path),
		get:  get,
		cmp:  func(a, b time.Time) int { return a.Compare(b) },
	}
}

// ColFunc declares a column ordered by a custom comparison.
func ColFunc[T, V any](path string, get func(T) V, compare func(a, b V) int) Column[T, V] {
	return Column[T, V]{name: FieldName[T](path), get: get, cmp: compare}
}

// Name returns the field name, without any owner qualifier.
func (c Column[T, V]) Name() string { return c.name }

// Get reads the column from v.
func (c Column[T, V]) Get(v T) V { return c.get(v) }

// Orderable reports whether the column can be used as a sort key.
func (c Column[T, V]) Orderable() bool { return c.cmp != nil }

// Compare orders a and b by the column value. It panics for columns
// declared without ordering.
func (c Column[T, V]) Compare(a, b T) int {
	if c.cmp == nil {
		panic(fmt.Errorf("%w: %s", ErrNotOrderable, c.name))
	}
	return c.cmp(c.get(a), c.get(b))
}

// FieldName strips a leading owner qualifier ("Book." or "bookstore.Book.")
// from path. Nested paths keep their dots: "Book.Category.Name" becomes
// "Category.Name".
func FieldName[T any](path string) string {
	path = strings.TrimSpace(path)

	t := typecache.TypeOf[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return path
	}
	for _, prefix := range []string{t.String() + ".", t.Name() + "."} {
		if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" {
			return rest
		}
	}
	return path
}
