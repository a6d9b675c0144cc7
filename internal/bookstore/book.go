package bookstore

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rulekit/pkg/query"
)

// Category groups books on the storefront.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Book is a catalogue entry. Deleted books stay in storage but are hidden
// by every default query.
type Book struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ISBN       string    `json:"isbn"`
	Price      float64   `json:"price"`
	Pages      *int      `json:"pages,omitempty"`
	Category   Category  `json:"category"`
	CreateTime time.Time `json:"create_time"`
	Deleted    bool      `json:"deleted"`
}

const uncategorized = "uncategorized"

// Columns of Book usable in predicates and sort keys.
var (
	ColTitle        = query.Ordered("Book.Title", func(b Book) string { return b.Title })
	ColISBN         = query.Col("Book.ISBN", func(b Book) string { return b.ISBN })
	ColPrice        = query.Ordered("Book.Price", func(b Book) float64 { return b.Price })
	ColPages        = query.Col("Book.Pages", func(b Book) *int { return b.Pages })
	ColCategoryName = query.Ordered("Book.Category.Name", func(b Book) string { return b.Category.Name })
	ColCreateTime   = query.Time("Book.CreateTime", func(b Book) time.Time { return b.CreateTime })
	ColDeleted      = query.Col("Book.Deleted", func(b Book) bool { return b.Deleted })
)

// DefaultFilter hides soft-deleted books.
func (Book) DefaultFilter() query.Condition[Book] {
	return query.SoftDelete(ColDeleted)
}

// SortFields lists the fields clients may sort by; the first one is the
// default order.
func (Book) SortFields() []query.Key[Book] {
	return []query.Key[Book]{ColCreateTime, ColCategoryName}
}

// DefaultProjection loads the category with every book and labels books
// without one.
func (Book) DefaultProjection() query.Projection[Book] {
	return query.Expand(func(b Book) Book {
		if strings.TrimSpace(b.Category.Name) == "" {
			b.Category.Name = uncategorized
		}
		return b
	}, "Category")
}

// SetDefaults prepares a new, unsaved book.
func (b *Book) SetDefaults() {
	b.Category.Name = uncategorized
}

// CheckISBN verifies the ISBN-10 or ISBN-13 check digit. Hyphens and spaces
// are ignored.
func (b Book) CheckISBN() string {
	digits := strings.NewReplacer("-", "", " ", "").Replace(b.ISBN)
	switch len(digits) {
	case 10:
		if isbn10(digits) {
			return ""
		}
	case 13:
		if isbn13(digits) {
			return ""
		}
	default:
		return "isbn must have 10 or 13 digits"
	}
	return "isbn check digit is invalid"
}

func isbn10(s string) bool {
	sum := 0
	for i, r := range s {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case (r == 'X' || r == 'x') && i == 9:
			d = 10
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

func isbn13(s string) bool {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}
