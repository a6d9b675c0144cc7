package validator

import "errors"

var (
	// ErrValidationFailed matches every ValidationErrors under errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNilValue is returned when a nil pointer is passed for validation.
	ErrNilValue = errors.New("validator: nil value")

	// ErrTypeMismatch is returned when a value does not belong to the type a validator was compiled for.
	ErrTypeMismatch = errors.New("validator: value type does not match compiled type")

	// ErrAlreadyCompiled is raised when rules are declared for a type whose validator is already in use.
	ErrAlreadyCompiled = errors.New("validator: type already compiled, declare rules before first use")

	// ErrNotStruct is returned when a manifest is bound to a non-struct type.
	ErrNotStruct = errors.New("validator: manifest target must be a struct type")

	// ErrUnknownField is returned when a manifest names a field the type does not have.
	ErrUnknownField = errors.New("validator: unknown field")

	// ErrUnknownRule is returned when a manifest rule entry names no known rule kind.
	ErrUnknownRule = errors.New("validator: unknown rule")

	// ErrInvalidManifest is returned when a manifest cannot be decoded.
	ErrInvalidManifest = errors.New("validator: invalid rule manifest")
)
