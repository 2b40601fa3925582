package querypager

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// FilterInstruction is a filter resolved against the request: one per matched descriptor with a
// non-empty value.
type FilterInstruction struct {
	FieldName string
	// Param is the query parameter (filter alias) the value came from.
	Param    string
	Column   Column
	Operator FilterOperator
	Value    any
}

// Predicate evaluates the instruction. See ApplyFilter.
func (f FilterInstruction) Predicate() (clause.Expression, error) {
	return ApplyFilter(f.Param, f.Column, f.Operator, f.Value)
}

// SortInstruction is one resolved sort key.
type SortInstruction struct {
	FieldName string
	Column    Column
	Order     Direction
	Value     ValueExtractor
}

// PaginationRequest is the validated pagination instruction produced by Parser.Parse.
//
// Page and Offset are meaningful in ModeOffset only, Cursor and TieBreak in ModeCursor only.
type PaginationRequest struct {
	Mode    Mode
	Filters []FilterInstruction
	Sorting []SortInstruction
	Limit   int

	Page   int
	Offset int

	// Cursor holds the decoded cursor values; empty for the first page.
	Cursor CursorValues
	// TieBreak is the cursor id field instruction, also present as the last entry of Sorting.
	TieBreak SortInstruction
}

// Orderings returns the sort instructions as ORDER BY entries.
func (r *PaginationRequest) Orderings() Orderings {
	if r == nil {
		return nil
	}

	return lo.Map(r.Sorting, func(item SortInstruction, _ int) OrderBy {
		return OrderBy{Column: item.Column.Expr, Direction: item.Order}
	})
}

// IsCursor reports whether the request uses keyset pagination.
func (r *PaginationRequest) IsCursor() bool {
	return r != nil && r.Mode == ModeCursor
}

// appendSort adds instructions keeping order. A field already present is moved to the position
// of its latest occurrence:
//
//	OrderBy(o1).ThenBy(o2).ThenBy(o3)...
func appendSort(sorting []SortInstruction, instructions ...SortInstruction) []SortInstruction {
	for _, o := range instructions {
		idx := slices.IndexFunc(sorting, func(processed SortInstruction) bool {
			return processed.FieldName == o.FieldName
		})

		// Remove previous occurrence (avoid duplication).
		if idx != -1 {
			sorting = slices.Delete(sorting, idx, idx+1)
		}

		sorting = append(sorting, o)
	}

	return sorting
}

// withTieBreak appends tieBreak unless its field is already sorted on.
func withTieBreak(sorting []SortInstruction, tieBreak SortInstruction) []SortInstruction {
	if tieBreak.FieldName == "" {
		return sorting
	}

	if lo.ContainsBy(sorting, func(item SortInstruction) bool {
		return item.FieldName == tieBreak.FieldName
	}) {
		return sorting
	}

	return append(slices.Clone(sorting), tieBreak)
}

func (r *PaginationRequest) String() string {
	if r == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s limit=%d page=%d offset=%d filters=%d sort=[%s]",
		r.Mode, r.Limit, r.Page, r.Offset, len(r.Filters), r.Orderings().ToSQL())
}
