package rules

import (
	"fmt"
	"math"
	"reflect"
)

// Rule is an immutable piece of constraint metadata attached to one field.
// Handlers decide what a rule means for a given value type.
type Rule interface {
	RuleName() string
}

// Required fails when the value is the zero value of its type. Strings made
// only of whitespace, empty slices and empty maps count as zero.
type Required struct {
	Message string
}

func (Required) RuleName() string { return "required" }

// Length bounds the length of strings (in runes), slices, arrays and maps.
// A zero Max means no upper bound.
type Length struct {
	Min     int
	Max     int
	Message string
}

func (Length) RuleName() string { return "length" }

// Range bounds numeric values inclusively.
type Range struct {
	Min     float64
	Max     float64
	Message string
}

func (Range) RuleName() string { return "range" }

// Pattern requires non-empty strings to match a regular expression.
type Pattern struct {
	Expr    string
	Message string
}

func (Pattern) RuleName() string { return "pattern" }

// Method delegates to a method of the owning entity. The method takes no
// arguments and returns a string (empty means valid) or an error.
type Method struct {
	Name string
}

func (Method) RuleName() string { return "method" }

// Tag validates the value with a go-playground/validator tag expression,
// for example "email" or "min=3,max=10".
type Tag struct {
	Tag     string
	Message string
}

func (Tag) RuleName() string { return "tag" }

// Expr is a boolean expr-lang expression. The field value is available as
// "value" and the owning entity as "entity".
type Expr struct {
	Expression string
	Message    string
}

func (Expr) RuleName() string { return "expr" }

// MinLen is a Length rule with no upper bound.
func MinLen(n int, message string) Length {
	return Length{Min: n, Message: message}
}

// MaxLen is a Length rule with no lower bound.
func MaxLen(n int, message string) Length {
	return Length{Max: n, Message: message}
}

// Min is a Range rule with no upper bound.
func Min(n float64, message string) Range {
	return Range{Min: n, Max: math.MaxFloat64, Message: message}
}

// Max is a Range rule with no lower bound.
func Max(n float64, message string) Range {
	return Range{Min: -math.MaxFloat64, Max: n, Message: message}
}

// Field is the symbolic reference a rule is resolved against: the value's
// static type plus the entity that declares it.
type Field struct {
	Owner reflect.Type // nil for free-standing values
	Name  string
	Type  reflect.Type
}

// Elem returns the field as seen through one level of pointer indirection.
func (f Field) Elem() Field {
	return Field{Owner: f.Owner, Name: f.Name, Type: f.Type.Elem()}
}

func (f Field) String() string {
	if f.Owner == nil {
		return f.Name
	}
	return fmt.Sprintf("%s.%s", f.Owner.Name(), f.Name)
}

func mustMessage(r Rule, f Field, message string) {
	if message == "" {
		panic(fmt.Errorf("%w: %s rule on %s", ErrEmptyMessage, r.RuleName(), f))
	}
}
