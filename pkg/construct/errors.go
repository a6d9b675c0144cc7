package construct

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNilRule       = errors.New("construct: rule must not be nil")
	ErrNilType       = errors.New("construct: type must not be nil")
	ErrNotInterface  = errors.New("construct: bind target must be an interface type")
	ErrNotImplements = errors.New("construct: concrete type does not implement interface")
)

// UnresolvedTypeError is returned when no rule can produce a value of Type.
type UnresolvedTypeError struct {
	Type reflect.Type
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("construct: no rule resolves type %s", e.Type)
}

// NewUnresolvedTypeError creates an UnresolvedTypeError for t.
func NewUnresolvedTypeError(t reflect.Type) *UnresolvedTypeError {
	return &UnresolvedTypeError{Type: t}
}

// IsUnresolvedTypeError reports whether err is an UnresolvedTypeError.
func IsUnresolvedTypeError(err error) bool {
	var e *UnresolvedTypeError
	return errors.As(err, &e)
}
