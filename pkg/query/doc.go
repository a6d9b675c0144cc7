// Package query builds typed, immutable query values: predicates, sort keys
// and projections over an entity type T.
//
// Conditions are built from columns, which name a field of T and read it:
//
//	var (
//	    title   = query.Ordered("Book.Title", func(b Book) string { return b.Title })
//	    created = query.Time("Book.CreateTime", func(b Book) time.Time { return b.CreateTime })
//	    deleted = query.Col("Deleted", func(b Book) bool { return b.Deleted })
//	)
//
//	p := query.Where[Book]().
//	    AndIfNotEmpty(search, query.Contains(title, search)).
//	    AndIf(!since.IsZero(), query.After(created, since))
//
// Where starts from the type's default condition (see SoftDelete) and every
// combinator returns a new value. A predicate evaluates in memory with Match
// and exposes its expression tree with Expr, which the pg, mongo and
// opensearch packages translate into native queries.
//
// Sort keys compose left to right; a SortDictionary maps client-provided
// (field, direction) pairs to precompiled keys:
//
//	dict := query.NewSortDictionary[Book](created, categoryName)
//	key, ok := dict.Lookup("Category.Name", "desc")
//
// Default predicates, sort dictionaries and projections are resolved once
// per type and cached for the life of the process.
package query
