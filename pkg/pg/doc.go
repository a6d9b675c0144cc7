// Package pg connects to PostgreSQL with pgx/v5, applies goose migrations
// and renders engine queries as SQL.
//
// Predicates and sort keys built with package query are translated by
// Where and OrderBy; Select combines them into a statement and Find scans
// the result into a row struct:
//
//	pred := query.Where[Book]().AndIfNotEmpty(q, query.Contains(titleCol, q))
//	rows, err := pg.Find[bookRow](ctx, pool, pg.Select{
//		Table:   "books",
//		Where:   pred.Expr(),
//		OrderBy: query.ParseSort[Book](field, dir).Orders(),
//		Limit:   50,
//	})
//
// Field names map to columns through a ColumnMapper; SnakeCase is the
// default, so "Category.Name" becomes category_name. Conditions built with
// query.Func have no SQL form and fail with query.ErrUntranslatable.
//
// Connect retries until the database answers a ping. Migrate runs goose
// against the same pool, from disk or from an embedded fs.FS.
//
// Error helpers such as IsDuplicateKeyError classify *pgconn.PgError codes.
package pg
