package querypager

import (
	"slices"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// BuildKeysetWhere builds the predicate selecting rows strictly after the cursor row in the
// order defined by sorting. It returns nil for an empty cursor.
//
// For sorting [(C1, D1), (C2, D2) ... (Cn, Dn)] and cursor values [V1, V2 ... Vn] the predicate is
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) OR ... OR (C1 = V1 AND ... AND Cn On Vn)
//
// where Oi is ">" for ascending and "<" for descending columns. When tieBreak is not part of
// sorting, one more disjunct compares it after equality on every sort column, in tieBreak.Order
// or, when unset, in the direction of the last sort column. The ORDER BY must end with the
// tie-break in the same direction.
//
// A cursor lacking a value for one of the columns yields a *RequestError of kind
// ErrMissingCursorField: the token was produced for another sort configuration.
func BuildKeysetWhere(sorting []SortInstruction, cursor CursorValues, tieBreak SortInstruction) (clause.Expression, error) {
	dnf, err := buildKeysetDNF(sorting, cursor, tieBreak)
	if err != nil {
		return nil, err
	}

	return dnf.toGORMExpression(), nil
}

// KeysetSQL renders the BuildKeysetWhere predicate as raw SQL with "?" placeholders, for callers
// not using gorm. An empty cursor renders as TRUE.
//
// Usage:
//
//	where, args, err := querypager.KeysetSQL(req.Sorting, req.Cursor, req.TieBreak)
//	rows, err := db.QueryContext(ctx, "SELECT * FROM users WHERE "+where+" ORDER BY "+req.Orderings().ToSQL(), args...)
func KeysetSQL(sorting []SortInstruction, cursor CursorValues, tieBreak SortInstruction) (string, []any, error) {
	dnf, err := buildKeysetDNF(sorting, cursor, tieBreak)
	if err != nil {
		return "", nil, err
	}

	sql, args := dnf.toSQLClause()

	return sql, args, nil
}

func buildKeysetDNF(sorting []SortInstruction, cursor CursorValues, tieBreak SortInstruction) (tDNF, error) {
	if cursor.IsEmpty() {
		return nil, nil
	}

	keys := slices.Clone(sorting)
	appendTieBreak := tieBreak.FieldName != "" && !lo.ContainsBy(keys, func(item SortInstruction) bool {
		return item.FieldName == tieBreak.FieldName
	})

	conjuncts := make([]tConjunct, 0, len(keys)+1)
	for _, key := range keys {
		value, ok := cursor.Get(key.FieldName)
		if !ok {
			return nil, newRequestError(
				ErrMissingCursorField,
				ParamCursor,
				"cursor has no value for sort field '%s'",
				key.FieldName,
			)
		}

		conjuncts = append(conjuncts, tConjunct{
			Column:   key.Column.Expr,
			Value:    value,
			Operator: key.Order.ForOperator(),
		})
	}

	if appendTieBreak {
		value, ok := cursor.Get(tieBreak.FieldName)
		if !ok {
			return nil, newRequestError(
				ErrMissingCursorField,
				ParamCursor,
				"cursor has no value for sort field '%s'",
				tieBreak.FieldName,
			)
		}

		direction := tieBreak.Order
		if !direction.Valid() {
			direction = DirectionASC
			if len(keys) > 0 {
				direction = keys[len(keys)-1].Order
			}
		}

		conjuncts = append(conjuncts, tConjunct{
			Column:   tieBreak.Column.Expr,
			Value:    value,
			Operator: direction.ForOperator(),
		})
	}

	dnf := make(tDNF, 0, len(conjuncts))
	for i := range conjuncts {
		previousWithEqualityCondition := lo.Map(conjuncts[:i], func(item tConjunct, _ int) tConjunct {
			return item.withEqualityCondition()
		})

		disjunct := make(tDisjunct, 0, i+1)
		disjunct = append(disjunct, previousWithEqualityCondition...)
		disjunct = append(disjunct, conjuncts[i])

		dnf = append(dnf, disjunct)
	}

	return dnf, nil
}

func (c tConjunct) withEqualityCondition() tConjunct {
	return tConjunct{
		Column:   c.Column,
		Value:    c.Value,
		Operator: OperatorEQ,
	}
}
