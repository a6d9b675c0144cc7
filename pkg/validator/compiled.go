package validator

import (
	"fmt"
	"reflect"

	"github.com/dmitrymomot/rulekit/pkg/rules"
)

// Compiled is the validator of one type: every resolved check of every
// declared field, in field then rule order. It is immutable and safe for
// concurrent use.
type Compiled struct {
	typ    reflect.Type
	checks []fieldCheck
}

type fieldCheck struct {
	field string
	get   func(owner reflect.Value) reflect.Value
	check *rules.Check
}

// Type returns the type the validator was compiled for.
func (c *Compiled) Type() reflect.Type { return c.typ }

// Len returns the number of compiled checks.
func (c *Compiled) Len() int { return len(c.checks) }

// Fields returns the names of fields contributing at least one check.
func (c *Compiled) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, fc := range c.checks {
		if !seen[fc.field] {
			fields = append(fields, fc.field)
			seen[fc.field] = true
		}
	}
	return fields
}

// Validate returns nil when value is valid, otherwise ValidationErrors
// holding the first failure only.
func (c *Compiled) Validate(value any) error {
	v, err := c.owner(value)
	if err != nil {
		return err
	}
	return c.validate(v, false)
}

// ValidateAll returns every failure, in check order.
func (c *Compiled) ValidateAll(value any) error {
	v, err := c.owner(value)
	if err != nil {
		return err
	}
	return c.validate(v, true)
}

// Message returns the first failure message, or "" when value is valid.
func (c *Compiled) Message(value any) string {
	errs := ExtractValidationErrors(c.Validate(value))
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}

func (c *Compiled) owner(value any) (reflect.Value, error) {
	v := reflect.ValueOf(value)
	for v.IsValid() && v.Type() != c.typ && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v, ErrNilValue
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return v, ErrNilValue
	}
	if v.Type() != c.typ {
		return v, fmt.Errorf("%w: got %s, want %s", ErrTypeMismatch, v.Type(), c.typ)
	}
	return v, nil
}

func (c *Compiled) validate(owner reflect.Value, all bool) error {
	var errs ValidationErrors
	for _, fc := range c.checks {
		msg, ok := fc.check.Eval(owner, fc.get(owner))
		if ok {
			continue
		}
		errs.Add(ValidationError{
			Field:          fc.field,
			Message:        msg,
			TranslationKey: "validation." + fc.check.Kind.String(),
			TranslationValues: map[string]any{
				"field": fc.field,
			},
		})
		if !all {
			break
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}
