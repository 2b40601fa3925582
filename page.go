package querypager

import (
	"encoding/json"
)

// OffsetPage is a page of an offset paginated dataset.
type OffsetPage[T any] struct {
	Rows  []T `json:"rows"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// CursorPage is a page of a keyset paginated dataset. NextCursor is nil on the last page.
type CursorPage[T any] struct {
	Rows       []T     `json:"rows"`
	NextCursor *string `json:"nextCursor"`
}

// HasMore reports whether a further page exists.
func (p *CursorPage[T]) HasMore() bool {
	return p != nil && p.NextCursor != nil
}

// Page holds exactly one of OffsetPage or CursorPage, depending on the request mode.
type Page[T any] struct {
	Offset *OffsetPage[T]
	Cursor *CursorPage[T]
}

// Rows returns the rows of whichever variant is set.
func (p *Page[T]) Rows() []T {
	switch {
	case p == nil:
		return nil
	case p.Offset != nil:
		return p.Offset.Rows
	case p.Cursor != nil:
		return p.Cursor.Rows
	default:
		return nil
	}
}

// MarshalJSON encodes the set variant only:
//
//	{"rows": [...], "page": 1, "limit": 10}
//	{"rows": [...], "nextCursor": "eyJm..."}
func (p Page[T]) MarshalJSON() ([]byte, error) {
	switch {
	case p.Offset != nil:
		return json.Marshal(p.Offset)
	case p.Cursor != nil:
		return json.Marshal(p.Cursor)
	default:
		return []byte("null"), nil
	}
}

// IsLastPage reports whether a result set fetched with a lookahead row (limit + 1) is the last
// page: the extra row is missing. An exact match to limit is the last page.
func IsLastPage[T any](limit int, resultSet []T) bool {
	return len(resultSet) <= limit
}

// TrimResultSet drops the lookahead row, if any. Suppose limit = 2 and resultSet = [a, b, c]:
// the client receives [a, b] and the next page starts strictly after b.
func TrimResultSet[T any](limit int, resultSet []T) []T {
	if len(resultSet) > limit {
		resultSet = resultSet[:limit]
	}

	return resultSet
}

func nonNilRows[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}

	return rows
}
