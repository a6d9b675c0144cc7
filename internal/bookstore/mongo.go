package bookstore

import (
	"context"
	"errors"
	"fmt"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/rulekit/pkg/mongo"
)

// MongoRepository stores books as documents encoded by the default struct
// codec.
type MongoRepository struct {
	coll *mongodriver.Collection
}

func NewMongoRepository(db *mongodriver.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection("books")}
}

func (m *MongoRepository) List(ctx context.Context, q ListQuery) ([]Book, error) {
	books, err := mongo.Find[Book](ctx, m.coll, mongo.FindSpec{
		Where:   q.Where.Expr(),
		OrderBy: q.Sort.Orders(),
		Limit:   int64(q.Limit),
		Skip:    int64(q.Offset),
	})
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return q.Projection.ApplyAll(books), nil
}

func (m *MongoRepository) Create(ctx context.Context, b Book) error {
	_, err := m.coll.InsertOne(ctx, b)
	switch {
	case mongodriver.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s", ErrDuplicateBook, b.ID)
	case err != nil:
		return errors.Join(ErrStorage, err)
	}
	return nil
}
