package validator

import (
	"reflect"

	"github.com/dmitrymomot/rulekit/pkg/rules"
)

// FieldRules declares the rules of one field of T, in the order they are
// checked.
type FieldRules[T any] struct {
	name  string
	typ   reflect.Type
	get   func(T) reflect.Value
	rules []rules.Rule
}

// Field declares rules for the field of T returned by get. The field's
// static type V is what rule handlers are resolved against.
//
//	validator.Field("Title", func(b Book) string { return b.Title },
//	    rules.Required{Message: "title is required"},
//	    rules.MaxLen(200, "title is too long"),
//	)
func Field[T, V any](name string, get func(T) V, rs ...rules.Rule) FieldRules[T] {
	return FieldRules[T]{
		name: name,
		typ:  reflect.TypeFor[V](),
		get: func(t T) reflect.Value {
			v := get(t)
			// Keep the static type of V, even for nil interface values.
			return reflect.ValueOf(&v).Elem()
		},
		rules: rs,
	}
}

// Name returns the declared field name.
func (f FieldRules[T]) Name() string { return f.name }

// Rules returns the declared rules.
func (f FieldRules[T]) Rules() []rules.Rule { return f.rules }

// fieldDecl is the type-erased form stored by the registry.
type fieldDecl struct {
	name  string
	typ   reflect.Type
	get   func(owner reflect.Value) reflect.Value
	rules []rules.Rule
}

func (f FieldRules[T]) erase() fieldDecl {
	return fieldDecl{
		name: f.name,
		typ:  f.typ,
		get: func(owner reflect.Value) reflect.Value {
			return f.get(owner.Interface().(T))
		},
		rules: f.rules,
	}
}
