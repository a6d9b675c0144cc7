package bookstore

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/rulekit/pkg/rules"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

// Rules returns the field rules of Book in reporting order.
func Rules() []validator.FieldRules[Book] {
	return []validator.FieldRules[Book]{
		validator.Field("ID", func(b Book) uuid.UUID { return b.ID },
			rules.Required{Message: "id is required"}),
		validator.Field("Title", func(b Book) string { return b.Title },
			rules.Required{Message: "title is required"},
			rules.MaxLen(200, "title must be at most 200 characters"),
			rules.Expr{Expression: "value != entity.ISBN", Message: "title must not repeat the isbn"}),
		validator.Field("ISBN", func(b Book) string { return b.ISBN },
			rules.Required{Message: "isbn is required"},
			rules.Pattern{Expr: `^[0-9][0-9 -]{8,15}[0-9Xx]$`, Message: "isbn may only contain digits and hyphens"},
			rules.Method{Name: "CheckISBN"}),
		validator.Field("Price", func(b Book) float64 { return b.Price },
			rules.Range{Min: 0.01, Max: 10000, Message: "price must be between 0.01 and 10000"}),
		validator.Field("Pages", func(b Book) *int { return b.Pages },
			rules.Min(1, "pages must be positive")),
		validator.Field("Category.Name", func(b Book) string { return b.Category.Name },
			rules.Tag{Tag: "min=2,max=50", Message: "category must be 2 to 50 characters"}),
	}
}
