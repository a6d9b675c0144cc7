package bookstore

import (
	"context"
	"errors"

	"github.com/dmitrymomot/rulekit/pkg/query"
)

var (
	ErrDuplicateBook   = errors.New("bookstore: book already exists")
	ErrUnknownCategory = errors.New("bookstore: category does not exist")
	ErrStorage         = errors.New("bookstore: storage failure")
)

// ListQuery is what the service asks a repository for. Repositories
// translate Where and Sort into their native query language and apply
// Projection to the loaded books.
type ListQuery struct {
	Where      query.Predicate[Book]
	Sort       query.SortKey[Book]
	Projection query.Projection[Book]
	Limit      int
	Offset     int
}

// Repository persists books.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Book, error)
	Create(ctx context.Context, b Book) error
}

// window applies offset and limit to an in-memory slice.
func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
