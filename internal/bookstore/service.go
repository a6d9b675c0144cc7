package bookstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rulekit/pkg/construct"
	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/query"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInvalidParams = errors.New("bookstore: invalid list parameters")

// ListParams are the client-facing list options. Zero values mean "not
// set".
type ListParams struct {
	Search         string
	Category       string
	MinPrice       float64
	MaxPrice       float64
	Sort           string
	Dir            string
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// Service is the catalogue use-case layer.
type Service struct {
	repo     Repository
	registry *validator.Registry
	manifest *validator.Manifest
	resolver *construct.Resolver
	logger   *slog.Logger
	now      func() time.Time

	validate *validator.Compiled
}

type ServiceOption func(*Service)

// WithRegistry compiles Book rules in reg instead of a private registry.
// Book must not have been compiled in reg yet.
func WithRegistry(reg *validator.Registry) ServiceOption {
	return func(s *Service) { s.registry = reg }
}

// WithManifest replaces the built-in Book rules with m.
func WithManifest(m *validator.Manifest) ServiceOption {
	return func(s *Service) { s.manifest = m }
}

func WithResolver(r *construct.Resolver) ServiceOption {
	return func(s *Service) { s.resolver = r }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService declares and compiles the Book rules, so rule configuration
// errors surface here.
func NewService(repo Repository, opts ...ServiceOption) (*Service, error) {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.resolver == nil {
		s.resolver = construct.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.registry == nil {
		s.registry = validator.NewRegistry(validator.WithLogger(s.logger))
	}

	if s.manifest != nil {
		if err := validator.DeclareManifest[Book](s.registry, s.manifest); err != nil {
			return nil, err
		}
	} else {
		validator.Declare(s.registry, Rules()...)
	}
	s.validate = validator.Compile[Book](s.registry)
	return s, nil
}

// New returns a blank book for a creation form.
func (s *Service) New() (Book, error) {
	return construct.New[Book](s.resolver)
}

// Create validates b, fills in its identity and timestamp when missing and
// stores it. Validation failures are returned as validator.ValidationErrors
// listing every problem.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreateTime.IsZero() {
		b.CreateTime = s.now().UTC()
	}
	b.Title = strings.TrimSpace(b.Title)

	if err := s.validate.ValidateAll(b); err != nil {
		return Book{}, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}

	s.logger.InfoContext(ctx, "book created",
		logger.Component("bookstore"),
		logger.Group("book",
			slog.String("id", b.ID.String()),
			slog.String("isbn", b.ISBN),
		),
	)
	return b, nil
}

// List builds the predicate, sort key and projection for p and queries the
// repository.
func (s *Service) List(ctx context.Context, p ListParams) ([]Book, error) {
	q, err := s.listQuery(p)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "listing books",
		logger.Component("bookstore"),
		slog.String("where", q.Where.String()),
		slog.String("sort", q.Sort.String()),
	)
	return s.repo.List(ctx, q)
}

func (s *Service) listQuery(p ListParams) (ListQuery, error) {
	if p.MinPrice < 0 || p.MaxPrice < 0 || (p.MaxPrice > 0 && p.MinPrice > p.MaxPrice) {
		return ListQuery{}, fmt.Errorf("%w: price range %v..%v", ErrInvalidParams, p.MinPrice, p.MaxPrice)
	}
	if p.Limit < 0 || p.Offset < 0 {
		return ListQuery{}, fmt.Errorf("%w: negative limit or offset", ErrInvalidParams)
	}

	where := query.Where[Book]()
	if p.IncludeDeleted {
		where = query.New(query.True[Book]())
	}
	search := strings.TrimSpace(p.Search)
	where = where.
		AndIfNotEmpty(search, query.Any(query.Contains(ColTitle, search), query.Eq(ColISBN, search))).
		AndIfNotEmpty(p.Category, query.Eq(ColCategoryName, strings.TrimSpace(p.Category))).
		AndIf(p.MinPrice > 0, query.Ge(ColPrice, p.MinPrice)).
		AndIf(p.MaxPrice > 0, query.Le(ColPrice, p.MaxPrice))

	limit := p.Limit
	switch {
	case limit == 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	return ListQuery{
		Where:      where,
		Sort:       query.ParseSort[Book](p.Sort, p.Dir),
		Projection: query.DefaultProjection[Book](),
		Limit:      limit,
		Offset:     p.Offset,
	}, nil
}
