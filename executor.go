package querypager

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

// Executor runs PaginationRequests against a QueryBackend and assembles pages.
//
// An Executor holds no per-request state and is safe for concurrent use.
type Executor[T any] struct {
	backend QueryBackend[T]
	logger  logrus.FieldLogger
}

type executorOptions struct {
	logger logrus.FieldLogger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*executorOptions)

// WithLogger sets the logger used for debug output and backend failures. Defaults to a discard
// logger.
func WithLogger(logger logrus.FieldLogger) ExecutorOption {
	return func(o *executorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewExecutor[T any](backend QueryBackend[T], opts ...ExecutorOption) *Executor[T] {
	options := executorOptions{logger: discardLogger()}
	for _, opt := range opts {
		opt(&options)
	}

	return &Executor[T]{
		backend: backend,
		logger:  options.logger,
	}
}

// Execute is a shortcut for NewExecutor(backend).Execute.
func Execute[T any](ctx context.Context, backend QueryBackend[T], req *PaginationRequest, extra ...clause.Expression) (*Page[T], error) {
	return NewExecutor(backend).Execute(ctx, req, extra...)
}

// Execute fetches the page described by req. extra predicates are ANDed with the request
// filters, e.g. tenant scoping.
//
// The backend is called exactly once. Its errors are returned unchanged.
func (e *Executor[T]) Execute(ctx context.Context, req *PaginationRequest, extra ...clause.Expression) (*Page[T], error) {
	if req == nil {
		return nil, fmt.Errorf("cannot paginate: request is nil")
	}
	if req.Limit <= 0 {
		return nil, fmt.Errorf("cannot paginate: limit must be positive, got %d", req.Limit)
	}

	predicates := make([]clause.Expression, 0, len(req.Filters)+len(extra)+1)
	for _, filter := range req.Filters {
		predicate, err := filter.Predicate()
		if err != nil {
			return nil, err
		}
		if predicate != nil {
			predicates = append(predicates, predicate)
		}
	}
	predicates = append(predicates, lo.Filter(extra, func(item clause.Expression, _ int) bool {
		return item != nil
	})...)

	switch req.Mode {
	case ModeOffset:
		return e.executeOffset(ctx, req, predicates)
	case ModeCursor:
		return e.executeCursor(ctx, req, predicates)
	default:
		return nil, fmt.Errorf("cannot paginate: unknown mode '%s'", req.Mode)
	}
}

func (e *Executor[T]) executeOffset(ctx context.Context, req *PaginationRequest, predicates []clause.Expression) (*Page[T], error) {
	page := lo.Ternary(req.Page < 1, 1, req.Page)
	query := Query{
		Where:     clause.And(predicates...),
		Orderings: req.Orderings(),
		Limit:     req.Limit,
		Offset:    req.Offset,
	}

	if err := query.Orderings.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	rows, err := e.fetch(ctx, req, query)
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Offset: &OffsetPage[T]{
			Rows:  nonNilRows(rows),
			Page:  page,
			Limit: req.Limit,
		},
	}, nil
}

func (e *Executor[T]) executeCursor(ctx context.Context, req *PaginationRequest, predicates []clause.Expression) (*Page[T], error) {
	if req.TieBreak.FieldName == "" {
		return nil, newConfigError(ErrMissingIDField, "", "cursor pagination requires an id field")
	}

	sorting := withTieBreak(req.Sorting, req.TieBreak)

	keyset, err := BuildKeysetWhere(sorting, req.Cursor, req.TieBreak)
	if err != nil {
		return nil, err
	}
	if keyset != nil {
		predicates = append(predicates, keyset)
	}

	query := Query{
		Where: clause.And(predicates...),
		Orderings: lo.Map(sorting, func(item SortInstruction, _ int) OrderBy {
			return OrderBy{Column: item.Column.Expr, Direction: item.Order}
		}),
		// Fetch one extra row to learn whether a next page exists without counting.
		Limit: req.Limit + 1,
	}

	if err = query.Orderings.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	rows, err := e.fetch(ctx, req, query)
	if err != nil {
		return nil, err
	}

	if IsLastPage(req.Limit, rows) {
		return &Page[T]{Cursor: &CursorPage[T]{Rows: nonNilRows(rows)}}, nil
	}

	rows = TrimResultSet(req.Limit, rows)

	next, err := nextCursor(sorting, rows[len(rows)-1])
	if err != nil {
		return nil, err
	}

	return &Page[T]{Cursor: &CursorPage[T]{Rows: rows, NextCursor: &next}}, nil
}

func (e *Executor[T]) fetch(ctx context.Context, req *PaginationRequest, query Query) ([]T, error) {
	log := e.logger.WithFields(logrus.Fields{
		"mode":   req.Mode,
		"limit":  query.Limit,
		"offset": query.Offset,
		"sort":   query.Orderings.ToSQL(),
	})
	log.Debug("fetching page")

	rows, err := e.backend.Fetch(ctx, query)
	if err != nil {
		log.WithError(err).Warn("page fetch failed")
		return nil, err
	}

	log.WithField("rows", len(rows)).Debug("page fetched")

	return rows, nil
}

// nextCursor encodes the sort values of the last row of a page.
func nextCursor[T any](sorting []SortInstruction, last T) (string, error) {
	values := make(CursorValues, 0, len(sorting))
	for _, instruction := range sorting {
		value, err := instruction.ValueOf(last)
		if err != nil {
			return "", newConfigError(ErrInvalidRegistry, instruction.FieldName, "cannot extract cursor value: %s", err)
		}

		values = append(values, CursorValue{Field: instruction.FieldName, Value: value})
	}

	token, err := EncodeCursor(values)
	if err != nil {
		return "", newConfigError(ErrInvalidRegistry, "", "cannot encode next cursor: %s", err)
	}

	return token, nil
}
