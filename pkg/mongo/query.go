package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/rulekit/pkg/query"
)

// FieldMapper maps a field name such as "Category.Name" to a document path.
type FieldMapper func(field string) string

// LowerPath follows the default bson struct codec, which lower-cases field
// names: "Category.Name" becomes "category.name".
func LowerPath(field string) string {
	return strings.ToLower(strings.TrimSpace(field))
}

// Filter renders e as a query document.
func Filter(e query.Expr, fields FieldMapper) (bson.D, error) {
	if fields == nil {
		fields = LowerPath
	}
	return render(e, fields)
}

// Sort renders orders as a sort document.
func Sort(orders []query.Order, fields FieldMapper) bson.D {
	if fields == nil {
		fields = LowerPath
	}
	out := make(bson.D, 0, len(orders))
	for _, o := range orders {
		dir := 1
		if o.Direction == query.Desc {
			dir = -1
		}
		out = append(out, bson.E{Key: fields(o.Field), Value: dir})
	}
	return out
}

// FindSpec describes a collection read.
type FindSpec struct {
	Where   query.Expr
	OrderBy []query.Order
	Limit   int64
	Skip    int64
	Fields  FieldMapper
}

// Find runs spec against coll and decodes every document into T.
func Find[T any](ctx context.Context, coll *mongo.Collection, spec FindSpec) ([]T, error) {
	filter, err := Filter(spec.Where, spec.Fields)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if sort := Sort(spec.OrderBy, spec.Fields); len(sort) > 0 {
		opts.SetSort(sort)
	}
	if spec.Limit > 0 {
		opts.SetLimit(spec.Limit)
	}
	if spec.Skip > 0 {
		opts.SetSkip(spec.Skip)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return out, nil
}

var operators = map[query.Op]string{
	query.OpEq:     "$eq",
	query.OpIsZero: "$eq",
	query.OpNe:     "$ne",
	query.OpGt:     "$gt",
	query.OpGe:     "$gte",
	query.OpLt:     "$lt",
	query.OpLe:     "$lte",
}

func render(e query.Expr, fields FieldMapper) (bson.D, error) {
	switch e.Op {
	case query.OpTrue, "":
		return bson.D{}, nil
	case query.OpAnd, query.OpOr, query.OpNot:
		args := make(bson.A, len(e.Args))
		for i, a := range e.Args {
			d, err := render(a, fields)
			if err != nil {
				return nil, err
			}
			args[i] = d
		}
		op := "$" + string(e.Op)
		if e.Op == query.OpNot {
			op = "$nor"
		}
		return bson.D{{Key: op, Value: args}}, nil
	case query.OpEq, query.OpIsZero, query.OpNe, query.OpGt, query.OpGe, query.OpLt, query.OpLe:
		return bson.D{{Key: fields(e.Field), Value: bson.D{{Key: operators[e.Op], Value: e.Value}}}}, nil
	case query.OpIn:
		values, _ := e.Value.([]any)
		return bson.D{{Key: fields(e.Field), Value: bson.D{{Key: "$in", Value: bson.A(append([]any{}, values...))}}}}, nil
	case query.OpContains:
		sub, _ := e.Value.(string)
		return bson.D{{Key: fields(e.Field), Value: bson.Regex{Pattern: regexp.QuoteMeta(sub), Options: "i"}}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", query.ErrUntranslatable, e)
	}
}
