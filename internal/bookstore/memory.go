package bookstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryRepository keeps books in process memory and evaluates queries
// with the in-memory form of predicates and sort keys.
type MemoryRepository struct {
	mu    sync.RWMutex
	books []Book
}

func NewMemoryRepository(seed ...Book) *MemoryRepository {
	return &MemoryRepository{books: slices.Clone(seed)}
}

func (m *MemoryRepository) List(_ context.Context, q ListQuery) ([]Book, error) {
	m.mu.RLock()
	items := q.Where.Filter(m.books)
	m.mu.RUnlock()

	q.Sort.Sort(items)
	return q.Projection.ApplyAll(window(items, q.Offset, q.Limit)), nil
}

func (m *MemoryRepository) Create(_ context.Context, b Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.books {
		if existing.ID == b.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateBook, b.ID)
		}
	}
	m.books = append(m.books, b)
	return nil
}
