package rules

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"

	"github.com/expr-lang/expr"
)

var errorType = reflect.TypeFor[error]()

// builtins lists the stock handlers oldest first. Optional unwrapping comes
// first so that it is tried last, after every handler that understands
// pointer types directly.
func builtins() []Handler {
	return []Handler{
		HandlerFunc(optionalHandler),
		For(requiredHandler),
		For(lengthHandler),
		For(rangeHandler),
		For(patternHandler),
		For(methodHandler),
		For(tagHandler),
		For(exprHandler),
	}
}

// optionalHandler unwraps pointer fields. When the pointee yields no check
// the rule is dropped rather than reported.
func optionalHandler(c *Chain, r Rule, f Field) *Check {
	if f.Type == nil || f.Type.Kind() != reflect.Pointer {
		return nil
	}
	inner := c.Resolve(r, f.Elem())
	if inner == nil || inner.IsNoop() {
		return nil
	}
	return &Check{Kind: KindOptional, Inner: inner}
}

func requiredHandler(_ *Chain, r Required, f Field) *Check {
	mustMessage(r, f, r.Message)
	return &Check{Kind: KindRequired, Message: r.Message}
}

func lengthHandler(_ *Chain, r Length, f Field) *Check {
	switch f.Type.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
	default:
		return nil
	}
	mustMessage(r, f, r.Message)

	upper := math.Inf(1)
	if r.Max > 0 {
		upper = float64(r.Max)
	}
	if float64(r.Min) > upper {
		panic(fmt.Errorf("%w: length rule on %s", ErrInvalidBounds, f))
	}
	return &Check{Kind: KindLength, Message: r.Message, Min: float64(r.Min), Max: upper}
}

func rangeHandler(_ *Chain, r Range, f Field) *Check {
	switch f.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
	default:
		return nil
	}
	mustMessage(r, f, r.Message)
	if r.Min > r.Max {
		panic(fmt.Errorf("%w: range rule on %s", ErrInvalidBounds, f))
	}
	return &Check{Kind: KindRange, Message: r.Message, Min: r.Min, Max: r.Max}
}

func patternHandler(_ *Chain, r Pattern, f Field) *Check {
	if f.Type.Kind() != reflect.String {
		return nil
	}
	mustMessage(r, f, r.Message)
	re, err := regexp.Compile(r.Expr)
	if err != nil {
		panic(errors.Join(fmt.Errorf("%w: %s", ErrInvalidPattern, f), err))
	}
	return &Check{Kind: KindPattern, Message: r.Message, Regexp: re}
}

func methodHandler(_ *Chain, r Method, f Field) *Check {
	if f.Owner == nil {
		return nil
	}

	ptr := false
	m, ok := f.Owner.MethodByName(r.Name)
	if !ok {
		m, ok = reflect.PointerTo(f.Owner).MethodByName(r.Name)
		ptr = true
	}
	if !ok {
		panic(fmt.Errorf("%w: %s.%s", ErrMethodNotFound, f.Owner.Name(), r.Name))
	}

	// The method type includes the receiver as the first input.
	mt := m.Type
	if mt.NumIn() != 1 || mt.NumOut() != 1 {
		panic(fmt.Errorf("%w: %s.%s", ErrInvalidMethod, f.Owner.Name(), r.Name))
	}
	out := mt.Out(0)
	switch {
	case out.Kind() == reflect.String:
		return &Check{Kind: KindMethod, Method: r.Name, PtrReceiver: ptr}
	case out == errorType:
		return &Check{Kind: KindMethod, Method: r.Name, PtrReceiver: ptr, ReturnsErr: true}
	default:
		panic(fmt.Errorf("%w: %s.%s", ErrInvalidMethod, f.Owner.Name(), r.Name))
	}
}

func tagHandler(c *Chain, r Tag, f Field) *Check {
	mustMessage(r, f, r.Message)
	return &Check{Kind: KindTag, Message: r.Message, Tag: r.Tag, validate: c.validate}
}

func exprHandler(_ *Chain, r Expr, f Field) *Check {
	mustMessage(r, f, r.Message)

	env := map[string]any{
		"value":  zeroInterface(f.Type),
		"entity": zeroInterface(f.Owner),
	}
	program, err := expr.Compile(r.Expression, expr.Env(env), expr.AsBool())
	if err != nil {
		panic(errors.Join(fmt.Errorf("%w: %s", ErrInvalidExpression, f), err))
	}
	return &Check{Kind: KindExpr, Message: r.Message, Program: program}
}

func zeroInterface(t reflect.Type) any {
	if t == nil {
		return nil
	}
	return reflect.Zero(t).Interface()
}
