package rules

import "errors"

// Configuration errors. They are raised as panics while a validator is being
// compiled and are never returned from Eval.
var (
	ErrNilHandler        = errors.New("rules: handler must not be nil")
	ErrNilRule           = errors.New("rules: rule must not be nil")
	ErrEmptyMessage      = errors.New("rules: rule message must not be empty")
	ErrInvalidBounds     = errors.New("rules: min must not exceed max")
	ErrInvalidPattern    = errors.New("rules: invalid pattern")
	ErrMethodNotFound    = errors.New("rules: validation method not found")
	ErrInvalidMethod     = errors.New("rules: validation method must have signature func() string or func() error")
	ErrInvalidExpression = errors.New("rules: invalid expression")
)
