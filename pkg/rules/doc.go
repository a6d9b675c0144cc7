// Package rules turns declarative field constraints into executable checks.
//
// A Rule is plain metadata (Required, Length, Range, Pattern, Method, Tag,
// Expr). A Handler interprets a rule for a given field type and returns a
// *Check, a small tagged node evaluated by Check.Eval. Handlers live in a
// Chain; Resolve walks the chain from the most recently registered handler
// to the oldest and returns the first non-nil check, so registering a
// handler overrides the built-ins for whatever rule and type it accepts.
//
// # Built-in handlers
//
//   - optional: pointer fields are resolved against their element type; a nil
//     pointer passes. If the element type yields no check the rule is dropped.
//   - required, length, range, pattern: primitive bound checks.
//   - method: calls a named method of the owning entity returning a string or
//     an error.
//   - tag: go-playground/validator tag expressions.
//   - expr: expr-lang boolean expressions over "value" and "entity".
//
// # Usage
//
//	chain := rules.NewDefaultChain()
//	chain.Register(rules.For(func(_ *rules.Chain, r rules.Required, f rules.Field) *rules.Check {
//	    if f.Type != reflect.TypeFor[uuid.UUID]() {
//	        return nil
//	    }
//	    return rules.NewFunc(func(_, v reflect.Value) (string, bool) {
//	        return r.Message, v.Interface().(uuid.UUID) != uuid.Nil
//	    })
//	}))
//
// # Error Handling
//
// Malformed metadata (nil rules or handlers, empty messages, invalid
// patterns or expressions, unknown methods) is a programming error and
// panics while the check is being resolved, which happens once per type at
// warm-up. Eval itself never panics for well-formed checks.
package rules
