package bookstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	osclient "github.com/opensearch-project/opensearch-go/v2"

	"github.com/dmitrymomot/rulekit/pkg/opensearch"
)

// SearchRepository keeps books in an OpenSearch index with dynamic mapping.
type SearchRepository struct {
	client *osclient.Client
	index  string
}

func NewSearchRepository(client *osclient.Client, index string) *SearchRepository {
	return &SearchRepository{client: client, index: index}
}

// searchFields maps field names to the JSON document paths of Book. Text
// fields use their keyword sub-field so term, wildcard and sort clauses see
// the whole value.
var searchFields = map[string]string{
	"ID":            "id",
	"Title":         "title.keyword",
	"ISBN":          "isbn.keyword",
	"Price":         "price",
	"Pages":         "pages",
	"Category.Name": "category.name.keyword",
	"CreateTime":    "create_time",
	"Deleted":       "deleted",
}

func searchField(field string) string {
	if path, ok := searchFields[field]; ok {
		return path
	}
	return field
}

func (s *SearchRepository) List(ctx context.Context, q ListQuery) ([]Book, error) {
	books, err := opensearch.Search[Book](ctx, s.client, s.index, opensearch.SearchSpec{
		Where:   q.Where.Expr(),
		OrderBy: q.Sort.Orders(),
		Size:    q.Limit,
		From:    q.Offset,
		Fields:  searchField,
	})
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return q.Projection.ApplyAll(books), nil
}

func (s *SearchRepository) Create(ctx context.Context, b Book) error {
	body, err := json.Marshal(b)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	res, err := s.client.Create(s.index, b.ID.String(), bytes.NewReader(body),
		s.client.Create.WithContext(ctx),
		s.client.Create.WithRefresh("wait_for"),
	)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == 409:
		return fmt.Errorf("%w: %s", ErrDuplicateBook, b.ID)
	case res.IsError():
		return fmt.Errorf("%w: %s", ErrStorage, res.String())
	}
	return nil
}
