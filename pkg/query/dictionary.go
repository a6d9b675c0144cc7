package query

import (
	"golang.org/x/text/cases"
)

type dictKey struct {
	field string
	dir   Direction
}

// SortDictionary maps client-facing (field, direction) pairs to
// precompiled single-field sort keys. It is immutable once built.
type SortDictionary[T any] struct {
	entries map[dictKey]SortKey[T]
	fields  []string
}

// NewSortDictionary derives two entries, ascending and descending, for each
// declared key, in declaration order.
func NewSortDictionary[T any](keys ...Key[T]) SortDictionary[T] {
	d := SortDictionary[T]{entries: make(map[dictKey]SortKey[T], len(keys)*2)}
	for _, k := range keys {
		folded := fold(k.Name())
		if _, seen := d.entries[dictKey{folded, Asc}]; !seen {
			d.fields = append(d.fields, k.Name())
		}
		d.entries[dictKey{folded, Asc}] = OrderBy[T]().Asc(k)
		d.entries[dictKey{folded, Desc}] = OrderBy[T]().Desc(k)
	}
	return d
}

// Lookup returns the key registered for field and dir. Field names match
// case-insensitively. Unknown pairs return the empty key and false; callers
// should then fall back to their default order.
func (d SortDictionary[T]) Lookup(field, dir string) (SortKey[T], bool) {
	direction, ok := ParseDirection(dir)
	if !ok {
		return SortKey[T]{}, false
	}
	key, ok := d.entries[dictKey{fold(field), direction}]
	return key, ok
}

// Len returns the number of entries, two per declared field.
func (d SortDictionary[T]) Len() int { return len(d.entries) }

// Fields returns the declared field names in declaration order.
func (d SortDictionary[T]) Fields() []string {
	return append([]string(nil), d.fields...)
}

// Default returns the ascending key of the first declared field, or the
// empty key when nothing was declared.
func (d SortDictionary[T]) Default() SortKey[T] {
	if len(d.fields) == 0 {
		return SortKey[T]{}
	}
	return d.entries[dictKey{fold(d.fields[0]), Asc}]
}

// fold normalizes a field name for lookups. A Caser is not safe for
// concurrent use, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
