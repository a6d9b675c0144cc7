package query

import "errors"

var (
	// ErrNotOrderable is raised when a column declared without ordering is used as a sort key.
	ErrNotOrderable = errors.New("query: column is not orderable")

	// ErrUntranslatable is returned by storage adapters for expressions they cannot express,
	// such as Func conditions.
	ErrUntranslatable = errors.New("query: expression cannot be translated")

	// ErrAlreadyDeclared is raised when a default is declared for a type whose
	// default has already been declared or handed out.
	ErrAlreadyDeclared = errors.New("query: default already declared")
)
