package querypager

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query is a single fetch requested by the executor.
type Query struct {
	// Where is the combined predicate; nil selects every row of the base query.
	Where     clause.Expression
	Orderings Orderings
	// Limit is the maximum number of rows to return, always positive.
	Limit  int
	Offset int
}

// Apply applies the query to a gorm query: predicate, sort, offset and limit.
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	if q.Where != nil {
		db = db.Clauses(q.Where)
	}

	db = q.Orderings.Apply(db)

	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}

	return db.Limit(q.Limit)
}

// QueryBackend runs a Query against a base query and returns the rows in order.
//
// The executor calls Fetch exactly once per page. Cancellation and timeouts are the backend's
// business, through ctx.
type QueryBackend[T any] interface {
	Fetch(ctx context.Context, query Query) ([]T, error)
}

// BackendFunc adapts a function to QueryBackend.
type BackendFunc[T any] func(ctx context.Context, query Query) ([]T, error)

// Fetch - implements QueryBackend.
func (f BackendFunc[T]) Fetch(ctx context.Context, query Query) ([]T, error) {
	return f(ctx, query)
}

// GORMBackend fetches rows of T from a gorm base query, e.g. db.Model(&User{}) or a joined
// db.Table("orders").Joins(...). The base query is never mutated.
type GORMBackend[T any] struct {
	db *gorm.DB
}

func NewGORMBackend[T any](db *gorm.DB) *GORMBackend[T] {
	return &GORMBackend[T]{db: db}
}

// Fetch - implements QueryBackend. Errors of the underlying driver are returned as is.
func (b *GORMBackend[T]) Fetch(ctx context.Context, query Query) ([]T, error) {
	var rows []T
	if err := query.Apply(b.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

var (
	_ QueryBackend[struct{}] = (*GORMBackend[struct{}])(nil)
	_ QueryBackend[struct{}] = BackendFunc[struct{}](nil)
)
