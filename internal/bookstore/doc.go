// Package bookstore is a small catalogue service built on the rule engine.
//
// Book declares validation rules (Rules), a soft-delete default filter,
// the fields clients may sort by and an expand projection. Service turns
// list parameters into predicates and sort keys and validates books before
// they are stored. Repositories exist for PostgreSQL, MongoDB, OpenSearch
// and process memory; Handler serves the catalogue with chi.
package bookstore
