package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/dmitrymomot/rulekit/pkg/query"
)

// FieldMapper maps a field name such as "Category.Name" to an index field.
type FieldMapper func(field string) string

// SameName keeps field names as encoding/json writes them.
func SameName(field string) string { return field }

// Query renders e as query DSL.
func Query(e query.Expr, fields FieldMapper) (map[string]any, error) {
	if fields == nil {
		fields = SameName
	}
	return render(e, fields)
}

// Sort renders orders as a sort clause.
func Sort(orders []query.Order, fields FieldMapper) []any {
	if fields == nil {
		fields = SameName
	}
	out := make([]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, map[string]any{
			fields(o.Field): map[string]any{"order": string(o.Direction)},
		})
	}
	return out
}

// SearchSpec describes a search request.
type SearchSpec struct {
	Where   query.Expr
	OrderBy []query.Order
	Size    int
	From    int
	Fields  FieldMapper
}

// Body renders the request body.
func (s SearchSpec) Body() (map[string]any, error) {
	q, err := Query(s.Where, s.Fields)
	if err != nil {
		return nil, err
	}
	body := map[string]any{"query": q}
	if sort := Sort(s.OrderBy, s.Fields); len(sort) > 0 {
		body["sort"] = sort
	}
	if s.Size > 0 {
		body["size"] = s.Size
	}
	if s.From > 0 {
		body["from"] = s.From
	}
	return body, nil
}

// Search runs spec against index and decodes every hit's _source into T.
func Search[T any](ctx context.Context, client *opensearch.Client, index string, spec SearchSpec) ([]T, error) {
	body, err := spec.Body()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Join(ErrSearchFailed, err)
	}

	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, errors.Join(ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source T `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Join(ErrSearchFailed, err)
	}

	out := make([]T, len(parsed.Hits.Hits))
	for i, h := range parsed.Hits.Hits {
		out[i] = h.Source
	}
	return out, nil
}

var ranges = map[query.Op]string{
	query.OpGt: "gt",
	query.OpGe: "gte",
	query.OpLt: "lt",
	query.OpLe: "lte",
}

func render(e query.Expr, fields FieldMapper) (map[string]any, error) {
	switch e.Op {
	case query.OpTrue, "":
		return map[string]any{"match_all": map[string]any{}}, nil
	case query.OpAnd, query.OpOr, query.OpNot:
		args := make([]any, len(e.Args))
		for i, a := range e.Args {
			q, err := render(a, fields)
			if err != nil {
				return nil, err
			}
			args[i] = q
		}
		switch e.Op {
		case query.OpAnd:
			return boolQuery(map[string]any{"filter": args}), nil
		case query.OpOr:
			return boolQuery(map[string]any{"should": args, "minimum_should_match": 1}), nil
		default:
			return boolQuery(map[string]any{"must_not": args}), nil
		}
	case query.OpEq, query.OpIsZero:
		if e.Value == nil {
			return boolQuery(map[string]any{"must_not": []any{exists(fields(e.Field))}}), nil
		}
		return term(fields(e.Field), e.Value), nil
	case query.OpNe:
		if e.Value == nil {
			return exists(fields(e.Field)), nil
		}
		return boolQuery(map[string]any{"must_not": []any{term(fields(e.Field), e.Value)}}), nil
	case query.OpGt, query.OpGe, query.OpLt, query.OpLe:
		return map[string]any{"range": map[string]any{
			fields(e.Field): map[string]any{ranges[e.Op]: e.Value},
		}}, nil
	case query.OpIn:
		values, _ := e.Value.([]any)
		return map[string]any{"terms": map[string]any{
			fields(e.Field): append([]any{}, values...),
		}}, nil
	case query.OpContains:
		sub, _ := e.Value.(string)
		return map[string]any{"wildcard": map[string]any{
			fields(e.Field): map[string]any{
				"value":            "*" + escapeWildcard(sub) + "*",
				"case_insensitive": true,
			},
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", query.ErrUntranslatable, e)
	}
}

func boolQuery(clauses map[string]any) map[string]any {
	return map[string]any{"bool": clauses}
}

func term(field string, value any) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func exists(field string) map[string]any {
	return map[string]any{"exists": map[string]any{"field": field}}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
