package query

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Op identifies a node of a condition expression.
type Op string

const (
	OpTrue     Op = "true"
	OpAnd      Op = "and"
	OpOr       Op = "or"
	OpNot      Op = "not"
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpGt       Op = "gt"
	OpGe       Op = "ge"
	OpLt       Op = "lt"
	OpLe       Op = "le"
	OpIn       Op = "in"
	OpContains Op = "contains"
	OpIsZero   Op = "is_zero"
	OpFunc     Op = "func"
)

// Expr is the inspectable form of a condition, consumed by storage
// adapters. Leaves carry Field and Value; And, Or and Not carry Args.
// For OpIn, Value is a []any. For OpFunc, Field holds the function label
// and the node cannot be translated.
type Expr struct {
	Op    Op
	Field string
	Value any
	Args  []Expr
}

// IsTrue reports whether the expression always matches.
func (e Expr) IsTrue() bool {
	return e.Op == OpTrue || e.Op == ""
}

func (e Expr) String() string {
	switch e.Op {
	case OpTrue, "":
		return "true"
	case OpAnd, OpOr:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		return "(" + strings.Join(parts, " "+string(e.Op)+" ") + ")"
	case OpNot:
		return "not " + e.Args[0].String()
	case OpIsZero:
		return e.Field + " is zero"
	case OpFunc:
		return e.Field + "(?)"
	default:
		return fmt.Sprintf("%s %s %v", e.Field, e.Op, e.Value)
	}
}

// Condition is an immutable boolean condition over T that can be evaluated
// in memory and inspected as an Expr.
type Condition[T any] struct {
	expr  Expr
	match func(T) bool
}

// Expr returns the expression tree.
func (c Condition[T]) Expr() Expr { return c.expr }

// Match evaluates the condition. The zero Condition matches everything.
func (c Condition[T]) Match(v T) bool {
	if c.match == nil {
		return true
	}
	return c.match(v)
}

// IsTrue reports whether the condition always matches.
func (c Condition[T]) IsTrue() bool { return c.expr.IsTrue() }

func (c Condition[T]) String() string { return c.expr.String() }

// True matches everything.
func True[T any]() Condition[T] {
	return Condition[T]{expr: Expr{Op: OpTrue}, match: func(T) bool { return true }}
}

func leaf[T any](op Op, field string, value any, match func(T) bool) Condition[T] {
	return Condition[T]{expr: Expr{Op: op, Field: field, Value: value}, match: match}
}

// Eq matches when the column equals v.
func Eq[T any, V comparable](c Column[T, V], v V) Condition[T] {
	return leaf(OpEq, c.name, untypedNil(v), func(t T) bool { return c.get(t) == v })
}

// Ne matches when the column differs from v.
func Ne[T any, V comparable](c Column[T, V], v V) Condition[T] {
	return leaf(OpNe, c.name, untypedNil(v), func(t T) bool { return c.get(t) != v })
}

// Gt matches when the column is greater than v.
func Gt[T any, V cmp.Ordered](c Column[T, V], v V) Condition[T] {
	return leaf(OpGt, c.name, v, func(t T) bool { return c.get(t) > v })
}

// Ge matches when the column is greater than or equal to v.
func Ge[T any, V cmp.Ordered](c Column[T, V], v V) Condition[T] {
	return leaf(OpGe, c.name, v, func(t T) bool { return c.get(t) >= v })
}

// Lt matches when the column is less than v.
func Lt[T any, V cmp.Ordered](c Column[T, V], v V) Condition[T] {
	return leaf(OpLt, c.name, v, func(t T) bool { return c.get(t) < v })
}

// Le matches when the column is less than or equal to v.
func Le[T any, V cmp.Ordered](c Column[T, V], v V) Condition[T] {
	return leaf(OpLe, c.name, v, func(t T) bool { return c.get(t) <= v })
}

// After matches when the time column is strictly after v.
func After[T any](c Column[T, time.Time], v time.Time) Condition[T] {
	return leaf(OpGt, c.name, v, func(t T) bool { return c.get(t).After(v) })
}

// Before matches when the time column is strictly before v.
func Before[T any](c Column[T, time.Time], v time.Time) Condition[T] {
	return leaf(OpLt, c.name, v, func(t T) bool { return c.get(t).Before(v) })
}

// In matches when the column equals one of vs. An empty list matches nothing.
func In[T any, V comparable](c Column[T, V], vs ...V) Condition[T] {
	vs = slices.Clone(vs)
	values := make([]any, len(vs))
	for i, v := range vs {
		values[i] = v
	}
	return leaf(OpIn, c.name, values, func(t T) bool { return slices.Contains(vs, c.get(t)) })
}

// Contains matches when the string column contains sub, ignoring case.
func Contains[T any](c Column[T, string], sub string) Condition[T] {
	lower := strings.ToLower(sub)
	return leaf(OpContains, c.name, sub, func(t T) bool {
		return strings.Contains(strings.ToLower(c.get(t)), lower)
	})
}

// IsZero matches when the column holds the zero value of V. The node's
// Value is that zero value, or nil for pointer and interface columns.
func IsZero[T any, V comparable](c Column[T, V]) Condition[T] {
	var zero V
	return leaf(OpIsZero, c.name, untypedNil(zero), func(t T) bool { return c.get(t) == zero })
}

func untypedNil(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice, reflect.UnsafePointer:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

// Func wraps an arbitrary in-memory test. Storage adapters cannot translate
// it and report ErrUntranslatable.
func Func[T any](label string, fn func(T) bool) Condition[T] {
	return leaf(OpFunc, label, nil, fn)
}

// Not negates c.
func Not[T any](c Condition[T]) Condition[T] {
	return Condition[T]{
		expr:  Expr{Op: OpNot, Args: []Expr{c.expr}},
		match: func(t T) bool { return !c.Match(t) },
	}
}

// All matches when every condition matches.
func All[T any](cs ...Condition[T]) Condition[T] {
	out := True[T]()
	for _, c := range cs {
		out = and(out, c)
	}
	return out
}

// Any matches when at least one condition matches. With no conditions it
// matches nothing.
func Any[T any](cs ...Condition[T]) Condition[T] {
	if len(cs) == 0 {
		return Not(True[T]())
	}
	out := cs[0]
	for _, c := range cs[1:] {
		out = or(out, c)
	}
	return out
}

func and[T any](a, b Condition[T]) Condition[T] {
	switch {
	case b.IsTrue():
		return a
	case a.IsTrue():
		return b
	}
	return Condition[T]{
		expr:  Expr{Op: OpAnd, Args: flatten(OpAnd, a.expr, b.expr)},
		match: func(t T) bool { return a.Match(t) && b.Match(t) },
	}
}

func or[T any](a, b Condition[T]) Condition[T] {
	switch {
	case a.IsTrue():
		return a
	case b.IsTrue():
		return b
	}
	return Condition[T]{
		expr:  Expr{Op: OpOr, Args: flatten(OpOr, a.expr, b.expr)},
		match: func(t T) bool { return a.Match(t) || b.Match(t) },
	}
}

// flatten merges nested nodes of the same operator into a fresh slice, so
// (a and b) and c is stored as and(a, b, c).
func flatten(op Op, exprs ...Expr) []Expr {
	var out []Expr
	for _, e := range exprs {
		if e.Op == op {
			out = append(out, e.Args...)
			continue
		}
		out = append(out, e)
	}
	return out
}
