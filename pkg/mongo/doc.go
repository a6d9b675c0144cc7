// Package mongo connects to MongoDB and renders engine queries as filter
// and sort documents.
//
// Filter translates a query.Expr into a bson.D filter; Sort translates
// sort orders. Find combines both:
//
//	books, err := mongo.Find[Book](ctx, db.Collection("books"), mongo.FindSpec{
//		Where:   query.Where[Book]().Expr(),
//		OrderBy: query.ParseSort[Book]("CreateTime", "desc").Orders(),
//		Limit:   50,
//	})
//
// Field names map to document paths through a FieldMapper. LowerPath, the
// default, matches the driver's default struct codec. Negation renders as
// $nor and substring search as a case-insensitive regular expression with
// the search text quoted.
//
// Config is loaded from MONGODB_* variables; New retries until the server
// answers a ping.
package mongo
