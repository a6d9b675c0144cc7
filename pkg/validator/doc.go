// Package validator compiles declared field rules into per-type validators.
//
// Rules are declared once per type, either in code or from a YAML manifest:
//
//	validator.Declare(reg,
//		validator.Field("Title", func(b Book) string { return b.Title },
//			rules.Required{Message: "title is required"},
//			rules.MaxLen(200, "title is too long")),
//		validator.Field("Pages", func(b Book) *int { return b.Pages },
//			rules.Min(1, "pages must be positive")),
//	)
//
// The first Validate call for a type resolves every rule through the
// registry's rules.Chain and memoizes the result. Concurrent first calls
// build the validator once and share it. Rules the chain does not recognize
// for a field's type are dropped; pointer fields are unwrapped and a nil
// pointer passes their checks.
//
// Validate reports the first failure in field order then rule order;
// ValidateAll reports all of them. Both return ValidationErrors, which
// matches ErrValidationFailed under errors.Is.
//
// Misconfigured rules, such as an inverted length range or a method that
// does not exist, panic during compilation.
package validator
