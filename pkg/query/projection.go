package query

// Projection turns a stored entity into the shape returned to callers. The
// identity projection returns entities unchanged; an expand projection
// names the related data storage adapters should load and post-processes
// each entity.
type Projection[T any] struct {
	name      string
	fn        func(T) T
	relations []string
}

// Identity returns entities unchanged.
func Identity[T any]() Projection[T] {
	return Projection[T]{name: "identity"}
}

// Expand declares the relations to load and an optional transform applied
// to every loaded entity.
func Expand[T any](fn func(T) T, relations ...string) Projection[T] {
	return Projection[T]{
		name:      "expand",
		fn:        fn,
		relations: append([]string(nil), relations...),
	}
}

// Name is "identity" or "expand".
func (p Projection[T]) Name() string {
	if p.name == "" {
		return "identity"
	}
	return p.name
}

// IsIdentity reports whether the projection leaves entities unchanged.
func (p Projection[T]) IsIdentity() bool {
	return p.fn == nil && len(p.relations) == 0
}

// Relations lists the related data to load, e.g. "Category".
func (p Projection[T]) Relations() []string {
	return append([]string(nil), p.relations...)
}

// Apply projects one entity.
func (p Projection[T]) Apply(v T) T {
	if p.fn == nil {
		return v
	}
	return p.fn(v)
}

// ApplyAll projects items into a new slice.
func (p Projection[T]) ApplyAll(items []T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = p.Apply(it)
	}
	return out
}
