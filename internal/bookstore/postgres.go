package bookstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/rulekit/pkg/pg"
)

// PostgresDB is satisfied by *pgxpool.Pool and pgx.Tx.
type PostgresDB interface {
	pg.Querier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores books in the books table created by the
// embedded migrations.
type PostgresRepository struct {
	db PostgresDB
}

func NewPostgresRepository(db PostgresDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type bookRow struct {
	ID           uuid.UUID  `db:"id"`
	Title        string     `db:"title"`
	ISBN         string     `db:"isbn"`
	Price        float64    `db:"price"`
	Pages        *int       `db:"pages"`
	CategoryID   *uuid.UUID `db:"category_id"`
	CategoryName string     `db:"category_name"`
	CreateTime   time.Time  `db:"create_time"`
	Deleted      bool       `db:"deleted"`
}

var (
	bookColumns     = []string{"id", "title", "isbn", "price", "pages", "create_time", "deleted"}
	categoryColumns = []string{"category_id", "category_name"}
)

func (r bookRow) book() Book {
	b := Book{
		ID:         r.ID,
		Title:      r.Title,
		ISBN:       r.ISBN,
		Price:      r.Price,
		Pages:      r.Pages,
		Category:   Category{Name: r.CategoryName},
		CreateTime: r.CreateTime,
		Deleted:    r.Deleted,
	}
	if r.CategoryID != nil {
		b.Category.ID = *r.CategoryID
	}
	return b
}

func (p *PostgresRepository) List(ctx context.Context, q ListQuery) ([]Book, error) {
	columns := bookColumns
	if slices.Contains(q.Projection.Relations(), "Category") {
		columns = slices.Concat(bookColumns, categoryColumns)
	}

	rows, err := pg.Find[bookRow](ctx, p.db, pg.Select{
		Table:   "books",
		Columns: columns,
		Where:   q.Where.Expr(),
		OrderBy: q.Sort.Orders(),
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	books := make([]Book, len(rows))
	for i, row := range rows {
		books[i] = q.Projection.Apply(row.book())
	}
	return books, nil
}

func (p *PostgresRepository) Create(ctx context.Context, b Book) error {
	var categoryID *uuid.UUID
	if b.Category.ID != uuid.Nil {
		categoryID = &b.Category.ID
	}
	_, err := p.db.Exec(ctx,
		`INSERT INTO books (id, title, isbn, price, pages, category_id, category_name, create_time, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Title, b.ISBN, b.Price, b.Pages, categoryID, b.Category.Name, b.CreateTime, b.Deleted,
	)
	switch {
	case pg.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s", ErrDuplicateBook, b.ID)
	case pg.IsForeignKeyViolationError(err):
		return fmt.Errorf("%w: %s", ErrUnknownCategory, b.Category.ID)
	case err != nil:
		return errors.Join(ErrStorage, err)
	}
	return nil
}
