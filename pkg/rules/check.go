package rules

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-playground/validator/v10"
)

// Kind selects how a Check is interpreted.
type Kind uint8

const (
	KindNoop Kind = iota
	KindRequired
	KindLength
	KindRange
	KindPattern
	KindMethod
	KindTag
	KindExpr
	KindOptional
	KindFunc
)

var kindNames = [...]string{
	KindNoop:     "noop",
	KindRequired: "required",
	KindLength:   "length",
	KindRange:    "range",
	KindPattern:  "pattern",
	KindMethod:   "method",
	KindTag:      "tag",
	KindExpr:     "expr",
	KindOptional: "optional",
	KindFunc:     "func",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// CheckFunc is the signature of user-provided checks. It returns the error
// message and false when the value is invalid.
type CheckFunc func(owner, value reflect.Value) (string, bool)

// Check is a node of the compiled check tree. Only the operands relevant to
// Kind are set. A nil *Check means "not applicable"; a Noop check means the
// handler matched but asserts nothing.
type Check struct {
	Kind    Kind
	Message string

	Min float64
	Max float64

	Regexp *regexp.Regexp

	Method      string
	PtrReceiver bool
	ReturnsErr  bool

	Tag      string
	validate *validator.Validate

	Program *vm.Program

	Inner *Check
	Func  CheckFunc
}

// Noop returns a check that always passes.
func Noop() *Check {
	return &Check{Kind: KindNoop}
}

// NewFunc wraps an arbitrary check function.
func NewFunc(fn CheckFunc) *Check {
	return &Check{Kind: KindFunc, Func: fn}
}

// IsNoop reports whether the check asserts nothing.
func (c *Check) IsNoop() bool {
	return c != nil && c.Kind == KindNoop
}

// Eval runs the check against value; owner is the entity declaring the
// field and may be invalid for free-standing values.
func (c *Check) Eval(owner, value reflect.Value) (string, bool) {
	switch c.Kind {
	case KindNoop:
		return "", true

	case KindRequired:
		if isBlank(value) {
			return c.Message, false
		}

	case KindLength:
		n, ok := lengthOf(value)
		if !ok || float64(n) < c.Min || float64(n) > c.Max {
			return c.Message, false
		}

	case KindRange:
		n, ok := numberOf(value)
		if !ok || math.IsNaN(n) || n < c.Min || n > c.Max {
			return c.Message, false
		}

	case KindPattern:
		s := value.String()
		if s != "" && !c.Regexp.MatchString(s) {
			return c.Message, false
		}

	case KindMethod:
		return c.callMethod(owner)

	case KindTag:
		if err := c.validate.Var(value.Interface(), c.Tag); err != nil {
			return c.Message, false
		}

	case KindExpr:
		env := map[string]any{"value": value.Interface(), "entity": nil}
		if owner.IsValid() {
			env["entity"] = owner.Interface()
		}
		out, err := expr.Run(c.Program, env)
		if err != nil {
			return c.Message, false
		}
		if ok, _ := out.(bool); !ok {
			return c.Message, false
		}

	case KindOptional:
		if value.IsNil() {
			return "", true
		}
		return c.Inner.Eval(owner, value.Elem())

	case KindFunc:
		return c.Func(owner, value)
	}

	return "", true
}

func (c *Check) callMethod(owner reflect.Value) (string, bool) {
	if !owner.IsValid() {
		return "", true
	}
	recv := owner
	if c.PtrReceiver && !owner.CanAddr() {
		p := reflect.New(owner.Type())
		p.Elem().Set(owner)
		recv = p
	} else if c.PtrReceiver {
		recv = owner.Addr()
	}

	out := recv.MethodByName(c.Method).Call(nil)[0]
	if c.ReturnsErr {
		if out.IsNil() {
			return "", true
		}
		return out.Interface().(error).Error(), false
	}
	if msg := out.String(); msg != "" {
		return msg, false
	}
	return "", true
}

func isBlank(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func lengthOf(v reflect.Value) (int, bool) {
	switch v.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(v.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len(), true
	default:
		return 0, false
	}
}

func numberOf(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}
