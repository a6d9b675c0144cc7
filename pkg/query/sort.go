package query

import (
	"slices"
	"strings"
)

// Direction is a sort direction token.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc"/"desc" in any case, plus "ascending",
// "descending" and a leading "-" for descending.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "+", "":
		return Asc, true
	case "desc", "descending", "-":
		return Desc, true
	default:
		return "", false
	}
}

// Order is one (field, direction) part of a SortKey, as seen by storage
// adapters.
type Order struct {
	Field     string
	Direction Direction
}

type sortPart[T any] struct {
	Order
	compare func(a, b T) int
}

// SortKey is an immutable multi-key ordering. Earlier parts take precedence;
// later parts only break ties. The zero SortKey means "no ordering".
type SortKey[T any] struct {
	parts []sortPart[T]
}

// OrderBy starts an empty ordering.
func OrderBy[T any]() SortKey[T] {
	return SortKey[T]{}
}

// Asc appends an ascending key.
func (s SortKey[T]) Asc(k Key[T]) SortKey[T] {
	return s.with(Asc, k)
}

// Desc appends a descending key.
func (s SortKey[T]) Desc(k Key[T]) SortKey[T] {
	return s.with(Desc, k)
}

// AscIf appends an ascending key when ok is true.
func (s SortKey[T]) AscIf(ok bool, k Key[T]) SortKey[T] {
	if !ok {
		return s
	}
	return s.Asc(k)
}

// DescIf appends a descending key when ok is true.
func (s SortKey[T]) DescIf(ok bool, k Key[T]) SortKey[T] {
	if !ok {
		return s
	}
	return s.Desc(k)
}

// Then appends all parts of next.
func (s SortKey[T]) Then(next SortKey[T]) SortKey[T] {
	return SortKey[T]{parts: append(slices.Clip(s.parts), next.parts...)}
}

func (s SortKey[T]) with(dir Direction, k Key[T]) SortKey[T] {
	compare := k.Compare
	if dir == Desc {
		compare = func(a, b T) int { return k.Compare(b, a) }
	}
	part := sortPart[T]{Order: Order{Field: k.Name(), Direction: dir}, compare: compare}
	return SortKey[T]{parts: append(slices.Clip(s.parts), part)}
}

// IsEmpty reports whether the key orders nothing.
func (s SortKey[T]) IsEmpty() bool { return len(s.parts) == 0 }

// Orders returns the (field, direction) parts in precedence order.
func (s SortKey[T]) Orders() []Order {
	out := make([]Order, len(s.parts))
	for i, p := range s.parts {
		out[i] = p.Order
	}
	return out
}

// Compare orders a and b; it returns 0 for the empty key.
func (s SortKey[T]) Compare(a, b T) int {
	for _, p := range s.parts {
		if c := p.compare(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// Sort sorts items in place. The sort is stable, so the empty key keeps the
// input order.
func (s SortKey[T]) Sort(items []T) {
	if s.IsEmpty() {
		return
	}
	slices.SortStableFunc(items, s.Compare)
}

func (s SortKey[T]) String() string {
	parts := make([]string, len(s.parts))
	for i, p := range s.parts {
		parts[i] = p.Field + " " + string(p.Direction)
	}
	return strings.Join(parts, ", ")
}
