package mongo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/rulekit/pkg/mongo"
	"github.com/dmitrymomot/rulekit/pkg/query"
)

type doc struct {
	Title    string
	Price    float64
	Category string
	Deleted  bool
}

var (
	title    = query.Ordered("Title", func(d doc) string { return d.Title })
	price    = query.Ordered("Price", func(d doc) float64 { return d.Price })
	category = query.Ordered("Category.Name", func(d doc) string { return d.Category })
	deleted  = query.Col("Deleted", func(d doc) bool { return d.Deleted })
)

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cond query.Condition[doc]
		want bson.D
	}{
		{"true", query.True[doc](), bson.D{}},
		{"eq", query.Eq(title, "Go"), bson.D{{Key: "title", Value: bson.D{{Key: "$eq", Value: "Go"}}}}},
		{"le", query.Le(price, 9.5), bson.D{{Key: "price", Value: bson.D{{Key: "$lte", Value: 9.5}}}}},
		{"nested path", query.Ne(category, "x"), bson.D{{Key: "category.name", Value: bson.D{{Key: "$ne", Value: "x"}}}}},
		{"in", query.In(title, "a"), bson.D{{Key: "title", Value: bson.D{{Key: "$in", Value: bson.A{"a"}}}}}},
		{"empty in", query.In(title), bson.D{{Key: "title", Value: bson.D{{Key: "$in", Value: bson.A{}}}}}},
		{"contains", query.Contains(title, "c++"), bson.D{{Key: "title", Value: bson.Regex{Pattern: `c\+\+`, Options: "i"}}}},
		{"not", query.Not(query.Eq(deleted, true)), bson.D{{Key: "$nor", Value: bson.A{
			bson.D{{Key: "deleted", Value: bson.D{{Key: "$eq", Value: true}}}},
		}}}},
		{"or", query.Any(query.Eq(title, "a"), query.Gt(price, 1.0)), bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: bson.D{{Key: "$eq", Value: "a"}}}},
			bson.D{{Key: "price", Value: bson.D{{Key: "$gt", Value: 1.0}}}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := mongo.Filter(tt.cond.Expr(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSoftDelete(t *testing.T) {
	t.Parallel()

	pred := query.New(query.SoftDelete(deleted)).And(query.Ge(price, 10.0))
	got, err := mongo.Filter(pred.Expr(), nil)
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "deleted", Value: bson.D{{Key: "$eq", Value: false}}}},
		bson.D{{Key: "price", Value: bson.D{{Key: "$gte", Value: 10.0}}}},
	}}}, got)
}

func TestFilterUntranslatable(t *testing.T) {
	t.Parallel()

	_, err := mongo.Filter(query.Func("custom", func(doc) bool { return true }).Expr(), nil)
	assert.ErrorIs(t, err, query.ErrUntranslatable)
}

func TestSort(t *testing.T) {
	t.Parallel()

	key := query.OrderBy[doc]().Desc(price).Asc(category)
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "category.name", Value: 1}}, mongo.Sort(key.Orders(), nil))
	assert.Empty(t, mongo.Sort(nil, nil))

	custom := func(f string) string { return "meta." + f }
	assert.Equal(t, bson.D{{Key: "meta.Title", Value: 1}}, mongo.Sort(query.OrderBy[doc]().Asc(title).Orders(), custom))
}
