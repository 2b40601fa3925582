// Package querypager paginates, filters and sorts GORM queries from raw query parameters.
//
// # Overview
//
// Endpoints describe what is filterable and sortable declaratively, with a FieldRegistry, and
// how they paginate, with a PaginationConfig. The package supports two strategies:
//   - offset pagination: page/limit translated to LIMIT/OFFSET;
//   - cursor pagination: keyset pagination seeking strictly past the sort values of the last row
//     of the previous page. It requires a unique tie-break column (PaginationConfig.CursorIDField)
//     and scales on large datasets.
//
// # Key concepts
//
//   - Parser: validates url.Values into a PaginationRequest (filters, sorting, limit, page or
//     cursor). Client mistakes are *RequestError (ErrBadRequest), registry and config mistakes
//     are *ConfigError (ErrConfiguration).
//   - ApplyFilter: turns a FilterOperator and a value into a gorm clause.Expression.
//   - EncodeCursor/DecodeCursor: the opaque, URL-safe cursor token.
//   - BuildKeysetWhere: the composite "next page" predicate over N sort columns.
//   - Executor: runs a request through a QueryBackend, fetching limit + 1 rows in cursor mode to
//     detect the next page without counting.
//
// # Usage
//
//	registry := querypager.MustRegistry(
//		querypager.Field{Name: "id", Column: querypager.NewColumn("id", "users.id"), Sort: querypager.Sortable()},
//		querypager.Field{
//			Name:    "name",
//			Column:  querypager.NewColumn("name", "users.name"),
//			Filters: []querypager.FilterDescriptor{{Alias: "name", Operator: querypager.Like}},
//			Sort:    querypager.Sortable(),
//		},
//	)
//	parser, err := querypager.NewParser(registry, querypager.DefaultConfig().WithMode(querypager.ModeBoth).WithCursorIDField("id"))
//	...
//	req, err := parser.Parse(r.URL.Query())
//	...
//	page, err := querypager.Execute[User](ctx, querypager.NewGORMBackend[User](db.Model(&User{})), req)
package querypager
