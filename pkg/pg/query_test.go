package pg_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/pg"
	"github.com/dmitrymomot/rulekit/pkg/query"
)

type item struct {
	Title      string
	Price      float64
	Category   string
	Pages      *int
	CreateTime time.Time
	Deleted    bool
}

var (
	title    = query.Ordered("item.Title", func(i item) string { return i.Title })
	price    = query.Ordered("Price", func(i item) float64 { return i.Price })
	category = query.Ordered("Category.Name", func(i item) string { return i.Category })
	pages    = query.Col("Pages", func(i item) *int { return i.Pages })
	created  = query.Time("CreateTime", func(i item) time.Time { return i.CreateTime })
	deleted  = query.Col("Deleted", func(i item) bool { return i.Deleted })
)

func TestSnakeCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Title":         "title",
		"CreateTime":    "create_time",
		"Category.Name": "category_name",
		"ISBN":          "isbn",
		"HTTPServer":    "http_server",
		"Page2Count":    "page2_count",
		"already_snake": "already_snake",
	}
	for in, want := range tests {
		assert.Equal(t, want, pg.SnakeCase(in), in)
	}
}

func TestWhere(t *testing.T) {
	t.Parallel()

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cond query.Condition[item]
		sql  string
		args []any
	}{
		{"true", query.True[item](), "TRUE", nil},
		{"eq", query.Eq(title, "Go"), "title = $1", []any{"Go"}},
		{"ne", query.Ne(category, "tech"), "category_name <> $1", []any{"tech"}},
		{"range", query.All(query.Ge(price, 10.0), query.Lt(price, 20.0)), "(price >= $1 AND price < $2)", []any{10.0, 20.0}},
		{"after", query.After(created, since), "create_time > $1", []any{since}},
		{"in", query.In(title, "a", "b"), "title IN ($1, $2)", []any{"a", "b"}},
		{"empty in", query.In(title), "FALSE", nil},
		{"contains", query.Contains(title, "50%_off"), "title ILIKE $1", []any{`%50\%\_off%`}},
		{"is zero", query.IsZero(deleted), "deleted = $1", []any{false}},
		{"is null", query.IsZero(pages), "pages IS NULL", nil},
		{"eq nil pointer", query.Eq(pages, nil), "pages IS NULL", nil},
		{"ne nil pointer", query.Ne(pages, nil), "pages IS NOT NULL", nil},
		{"not", query.Not(query.Eq(deleted, true)), "NOT (deleted = $1)", []any{true}},
		{
			"nested",
			query.All(query.Eq(deleted, false), query.Any(query.Eq(category, "a"), query.Gt(price, 5.0))),
			"(deleted = $1 AND (category_name = $2 OR price > $3))",
			[]any{false, "a", 5.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sql, args, err := pg.Where(tt.cond.Expr(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestWhereUntranslatable(t *testing.T) {
	t.Parallel()

	cond := query.All(query.Eq(deleted, false), query.Func("odd", func(item) bool { return true }))
	_, _, err := pg.Where(cond.Expr(), nil)
	assert.ErrorIs(t, err, query.ErrUntranslatable)
}

func TestOrderBy(t *testing.T) {
	t.Parallel()

	key := query.OrderBy[item]().Desc(created).Asc(category)
	assert.Equal(t, "create_time DESC, category_name ASC", pg.OrderBy(key.Orders(), nil))
	assert.Empty(t, pg.OrderBy(nil, nil))

	upper := func(f string) string { return `"` + f + `"` }
	assert.Equal(t, `"Title" ASC`, pg.OrderBy(query.OrderBy[item]().Asc(title).Orders(), upper))
}

func TestSelectBuild(t *testing.T) {
	t.Parallel()

	pred := query.New(query.Eq(deleted, false)).AndIfNotEmpty("go", query.Contains(title, "go"))

	sql, args, err := pg.Select{
		Table:   "books",
		Columns: []string{"id", "title"},
		Where:   pred.Expr(),
		OrderBy: query.OrderBy[item]().Desc(created).Orders(),
		Limit:   20,
		Offset:  40,
	}.Build()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, title FROM books WHERE (deleted = $1 AND title ILIKE $2) ORDER BY create_time DESC LIMIT 20 OFFSET 40",
		sql)
	assert.Equal(t, []any{false, "%go%"}, args)

	sql, args, err = pg.Select{Table: "books"}.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM books", sql)
	assert.Empty(t, args)

	_, _, err = pg.Select{}.Build()
	assert.ErrorIs(t, err, pg.ErrEmptyTable)
}
