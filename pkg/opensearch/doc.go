// Package opensearch connects to an OpenSearch cluster and renders engine
// queries as query DSL.
//
// Conjunctions become bool filter clauses, disjunctions bool should clauses
// with minimum_should_match 1, and negations bool must_not clauses.
// Substring search renders as a case-insensitive wildcard query. Search
// posts the rendered body and decodes hit sources:
//
//	hits, err := opensearch.Search[Book](ctx, client, "books", opensearch.SearchSpec{
//		Where:   query.Where[Book]().Expr(),
//		OrderBy: query.ParseSort[Book]("", "").Orders(),
//		Size:    20,
//	})
package opensearch
