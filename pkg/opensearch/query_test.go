package opensearch_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/opensearch"
	"github.com/dmitrymomot/rulekit/pkg/query"
)

type doc struct {
	Title   string
	Price   float64
	Pages   *int
	Deleted bool
}

var (
	title   = query.Ordered("Title", func(d doc) string { return d.Title })
	price   = query.Ordered("Price", func(d doc) float64 { return d.Price })
	pages   = query.Col("Pages", func(d doc) *int { return d.Pages })
	deleted = query.Col("Deleted", func(d doc) bool { return d.Deleted })
)

// asJSON compares rendered documents by their wire form.
func asJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cond query.Condition[doc]
		want string
	}{
		{"true", query.True[doc](), `{"match_all":{}}`},
		{"eq", query.Eq(title, "Go"), `{"term":{"Title":"Go"}}`},
		{"ne", query.Ne(title, "Go"), `{"bool":{"must_not":[{"term":{"Title":"Go"}}]}}`},
		{"range", query.Gt(price, 5.0), `{"range":{"Price":{"gt":5}}}`},
		{"in", query.In(title, "a", "b"), `{"terms":{"Title":["a","b"]}}`},
		{"missing", query.IsZero(pages), `{"bool":{"must_not":[{"exists":{"field":"Pages"}}]}}`},
		{"eq nil pointer", query.Eq(pages, nil), `{"bool":{"must_not":[{"exists":{"field":"Pages"}}]}}`},
		{"ne nil pointer", query.Ne(pages, nil), `{"exists":{"field":"Pages"}}`},
		{"contains", query.Contains(title, "a*b"), `{"wildcard":{"Title":{"case_insensitive":true,"value":"*a\\*b*"}}}`},
		{
			"and",
			query.All(query.SoftDelete(deleted), query.Le(price, 10.0)),
			`{"bool":{"filter":[{"term":{"Deleted":false}},{"range":{"Price":{"lte":10}}}]}}`,
		},
		{
			"or",
			query.Any(query.Eq(title, "a"), query.Eq(title, "b")),
			`{"bool":{"minimum_should_match":1,"should":[{"term":{"Title":"a"}},{"term":{"Title":"b"}}]}}`,
		},
		{"not", query.Not(query.Eq(deleted, true)), `{"bool":{"must_not":[{"term":{"Deleted":true}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := opensearch.Query(tt.cond.Expr(), nil)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, asJSON(t, got))
		})
	}
}

func TestQueryUntranslatable(t *testing.T) {
	t.Parallel()

	_, err := opensearch.Query(query.Func("x", func(doc) bool { return false }).Expr(), nil)
	assert.ErrorIs(t, err, query.ErrUntranslatable)
}

func TestSearchBody(t *testing.T) {
	t.Parallel()

	spec := opensearch.SearchSpec{
		Where:   query.New(query.Eq(title, "Go")).Expr(),
		OrderBy: query.OrderBy[doc]().Desc(price).Asc(title).Orders(),
		Size:    10,
		From:    20,
		Fields:  func(f string) string { return f + ".keyword" },
	}
	body, err := spec.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"query": {"term": {"Title.keyword": "Go"}},
		"sort": [{"Price.keyword": {"order": "desc"}}, {"Title.keyword": {"order": "asc"}}],
		"size": 10,
		"from": 20
	}`, asJSON(t, body))

	body, err = opensearch.SearchSpec{}.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":{"match_all":{}}}`, asJSON(t, body))
}
