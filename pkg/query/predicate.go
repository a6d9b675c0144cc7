package query

import "strings"

// Predicate is a fluent, immutable builder of conditions over T. Every
// method returns a new Predicate and leaves the receiver untouched, so one
// base can be reused to derive many queries.
type Predicate[T any] struct {
	cond Condition[T]
}

// Where starts a predicate from T's default condition (for example a
// soft-delete filter) or from an always-true condition when T declares none.
func Where[T any]() Predicate[T] {
	return Predicate[T]{cond: DefaultPredicate[T]()}
}

// New starts a predicate from an explicit base, ignoring T's default.
func New[T any](base Condition[T]) Predicate[T] {
	return Predicate[T]{cond: base}
}

// And requires c in addition to the current predicate.
func (p Predicate[T]) And(c Condition[T]) Predicate[T] {
	return Predicate[T]{cond: and(p.cond, c)}
}

// Or accepts c as an alternative to the current predicate.
func (p Predicate[T]) Or(c Condition[T]) Predicate[T] {
	return Predicate[T]{cond: or(p.cond, c)}
}

// AndIf is And when ok is true and the identity otherwise.
func (p Predicate[T]) AndIf(ok bool, c Condition[T]) Predicate[T] {
	if !ok {
		return p
	}
	return p.And(c)
}

// OrIf is Or when ok is true and the identity otherwise.
func (p Predicate[T]) OrIf(ok bool, c Condition[T]) Predicate[T] {
	if !ok {
		return p
	}
	return p.Or(c)
}

// AndIfNotEmpty is AndIf(text is not blank, c), the usual shape for
// optional search fields.
func (p Predicate[T]) AndIfNotEmpty(text string, c Condition[T]) Predicate[T] {
	return p.AndIf(strings.TrimSpace(text) != "", c)
}

// OrIfNotEmpty is OrIf(text is not blank, c).
func (p Predicate[T]) OrIfNotEmpty(text string, c Condition[T]) Predicate[T] {
	return p.OrIf(strings.TrimSpace(text) != "", c)
}

// Condition returns the composed condition, e.g. to nest it in another
// predicate.
func (p Predicate[T]) Condition() Condition[T] { return p.cond }

// Expr returns the composed expression tree for storage adapters.
func (p Predicate[T]) Expr() Expr { return p.cond.expr }

// Match evaluates the predicate against v.
func (p Predicate[T]) Match(v T) bool { return p.cond.Match(v) }

// Filter returns the elements of items matching the predicate, in order.
func (p Predicate[T]) Filter(items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

func (p Predicate[T]) String() string { return p.cond.String() }
