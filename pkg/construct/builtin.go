package construct

import "reflect"

// Defaulter is implemented by types that fill in their own defaults after
// zero-value construction. It is called through a pointer.
type Defaulter interface {
	SetDefaults()
}

var defaulterType = reflect.TypeFor[Defaulter]()

// builtins lists the built-in rules, oldest first.
func builtins() []Rule {
	return []Rule{
		RuleFunc(valueRule),
		RuleFunc(pointerRule),
		RuleFunc(listRule),
		RuleFunc(mapRule),
		RuleFunc(seqRule),
		RuleFunc(chanRule),
	}
}

func valueRule(_ *Resolver, t reflect.Type) (Factory, bool) {
	if ShapeOf(t) != ShapeValue {
		return nil, false
	}
	withDefaults := reflect.PointerTo(t).Implements(defaulterType)
	return func() reflect.Value {
		p := reflect.New(t)
		if withDefaults {
			p.Interface().(Defaulter).SetDefaults()
		}
		return p.Elem()
	}, true
}

func pointerRule(_ *Resolver, t reflect.Type) (Factory, bool) {
	if ShapeOf(t) != ShapePointer {
		return nil, false
	}
	withDefaults := t.Implements(defaulterType)
	elem := t.Elem()
	return func() reflect.Value {
		p := reflect.New(elem)
		if withDefaults {
			p.Interface().(Defaulter).SetDefaults()
		}
		return p
	}, true
}

func listRule(_ *Resolver, t reflect.Type) (Factory, bool) {
	if ShapeOf(t) != ShapeList {
		return nil, false
	}
	return func() reflect.Value {
		return reflect.MakeSlice(t, 0, 0)
	}, true
}

func mapRule(_ *Resolver, t reflect.Type) (Factory, bool) {
	switch ShapeOf(t) {
	case ShapeMap, ShapeSet:
	default:
		return nil, false
	}
	return func() reflect.Value {
		return reflect.MakeMap(t)
	}, true
}

// seqRule produces sequences that yield nothing.
func seqRule(_ *Resolver, t reflect.Type) (Factory, bool) {
	switch ShapeOf(t) {
	case ShapeSeq, ShapeSeq2:
	default:
		return nil, false
	}
	empty := reflect.MakeFunc(t, func([]reflect.Value) []reflect.Value { return nil })
	return func() reflect.Value {
		return empty
	}, true
}

func chanRule(_ *Resolver, t reflect.Type) (Factory, bool) {
	if ShapeOf(t) != ShapeChan {
		return nil, false
	}
	return func() reflect.Value {
		return reflect.MakeChan(t, 0)
	}, true
}
