package pg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/rulekit/pkg/query"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ColumnMapper maps a field name such as "Category.Name" to a SQL column.
type ColumnMapper func(field string) string

// SnakeCase maps "CreateTime" to "create_time" and "Category.Name" to
// "category_name".
func SnakeCase(field string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(field))
	for i, r := range runes {
		switch {
		case r == '.' || r == ' ' || r == '-':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && needsBreak(runes, i) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// needsBreak reports whether an underscore goes before the upper-case rune
// at i: after a lower-case letter or digit, or at the end of an acronym.
func needsBreak(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '.' || prev == ' ' || prev == '-' {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// Select describes a single-table read.
type Select struct {
	Table   string
	Columns []string // defaults to *
	Where   query.Expr
	OrderBy []query.Order
	Limit   int
	Offset  int
	Mapper  ColumnMapper // defaults to SnakeCase
}

// Build renders the statement and its positional arguments.
func (s Select) Build() (string, []any, error) {
	if s.Table == "" {
		return "", nil, ErrEmptyTable
	}
	mapper := s.Mapper
	if mapper == nil {
		mapper = SnakeCase
	}

	cols := "*"
	if len(s.Columns) > 0 {
		cols = strings.Join(s.Columns, ", ")
	}

	var b strings.Builder
	b.WriteString("SELECT " + cols + " FROM " + s.Table)

	r := renderer{columns: mapper}
	if !s.Where.IsTrue() {
		where, err := r.render(s.Where)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHERE " + where)
	}
	if order := OrderBy(s.OrderBy, mapper); order != "" {
		b.WriteString(" ORDER BY " + order)
	}
	if s.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(s.Limit))
	}
	if s.Offset > 0 {
		b.WriteString(" OFFSET " + strconv.Itoa(s.Offset))
	}
	return b.String(), r.args, nil
}

// Where renders e as a SQL boolean expression with $1..$n placeholders.
func Where(e query.Expr, columns ColumnMapper) (string, []any, error) {
	if columns == nil {
		columns = SnakeCase
	}
	r := renderer{columns: columns}
	sql, err := r.render(e)
	if err != nil {
		return "", nil, err
	}
	return sql, r.args, nil
}

// OrderBy renders orders as the body of an ORDER BY clause. An empty list
// renders as "".
func OrderBy(orders []query.Order, columns ColumnMapper) string {
	if columns == nil {
		columns = SnakeCase
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		dir := "ASC"
		if o.Direction == query.Desc {
			dir = "DESC"
		}
		parts[i] = columns(o.Field) + " " + dir
	}
	return strings.Join(parts, ", ")
}

// Find runs s and scans each row into R by column name.
func Find[R any](ctx context.Context, db Querier, s Select) ([]R, error) {
	sql, args, err := s.Build()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[R])
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return items, nil
}

type renderer struct {
	columns ColumnMapper
	args    []any
}

func (r *renderer) arg(v any) string {
	r.args = append(r.args, v)
	return "$" + strconv.Itoa(len(r.args))
}

var comparisons = map[query.Op]string{
	query.OpEq: "=",
	query.OpNe: "<>",
	query.OpGt: ">",
	query.OpGe: ">=",
	query.OpLt: "<",
	query.OpLe: "<=",
}

func (r *renderer) render(e query.Expr) (string, error) {
	switch e.Op {
	case query.OpTrue, "":
		return "TRUE", nil
	case query.OpAnd, query.OpOr:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			s, err := r.render(a)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, " "+strings.ToUpper(string(e.Op))+" ") + ")", nil
	case query.OpNot:
		if len(e.Args) != 1 {
			return "", fmt.Errorf("%w: not expects one argument", query.ErrUntranslatable)
		}
		s, err := r.render(e.Args[0])
		if err != nil {
			return "", err
		}
		return "NOT (" + s + ")", nil
	case query.OpEq, query.OpIsZero:
		if e.Value == nil {
			return r.columns(e.Field) + " IS NULL", nil
		}
		return r.columns(e.Field) + " = " + r.arg(e.Value), nil
	case query.OpNe:
		if e.Value == nil {
			return r.columns(e.Field) + " IS NOT NULL", nil
		}
		return r.columns(e.Field) + " <> " + r.arg(e.Value), nil
	case query.OpGt, query.OpGe, query.OpLt, query.OpLe:
		return r.columns(e.Field) + " " + comparisons[e.Op] + " " + r.arg(e.Value), nil
	case query.OpIn:
		values, _ := e.Value.([]any)
		if len(values) == 0 {
			return "FALSE", nil
		}
		holders := make([]string, len(values))
		for i, v := range values {
			holders[i] = r.arg(v)
		}
		return r.columns(e.Field) + " IN (" + strings.Join(holders, ", ") + ")", nil
	case query.OpContains:
		sub, _ := e.Value.(string)
		return r.columns(e.Field) + " ILIKE " + r.arg("%"+escapeLike(sub)+"%"), nil
	default:
		return "", fmt.Errorf("%w: %s", query.ErrUntranslatable, e)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
