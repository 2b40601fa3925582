package querypager

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

type (
	// tConjunct is a single comparison "Column Operator Value".
	tConjunct struct {
		Column   string
		Value    any
		Operator Operator
	}

	// tDisjunct is a list of conjuncts joined by AND.
	tDisjunct []tConjunct

	// tDNF is a logical expression in disjunctive normal form: disjuncts joined by OR, each of
	// them a list of conjuncts joined by AND.
	//
	//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
	//
	// The keyset predicate is naturally a DNF, see buildKeysetDNF.
	tDNF []tDisjunct
)

// toGORMExpression converts a conjunct into "Column Operator ?" with the value bound to the
// placeholder.
func (c tConjunct) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause renders a conjunct as ("id > ?", 123).
func (c tConjunct) toSQLClause() (string, any) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), c.Value
}

// toGORMExpression joins the conjuncts with AND. Returns nil for an empty disjunct.
func (d tDisjunct) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, conjunct := range d {
		andExpressions = append(andExpressions, conjunct.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause renders a disjunct as ("(id > ? AND name < ?)", [5, "abc"]).
func (d tDisjunct) toSQLClause() (string, []any) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]any, 0, len(d))

	for _, conjunct := range d {
		andClause, andValue := conjunct.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// toGORMExpression joins the disjuncts with OR. Returns nil for an empty DNF.
func (d tDNF) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(d))

	for _, disjunct := range d {
		andExpressions := disjunct.toGORMExpression()
		if andExpressions == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpressions)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause renders the DNF as raw SQL with "?" placeholders:
//
//	tDNF = {
//		{{Column: "id", Operator: "<", Value: 10}},
//		{{Column: "id", Operator: "=", Value: 10}, {Column: "name", Operator: "<", Value: "abc"}},
//	}
//
// becomes ("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"]). An empty DNF renders as TRUE.
func (d tDNF) toSQLClause() (string, []any) {
	orClauses := make([]string, 0, len(d))
	values := make([]any, 0, len(d))

	for _, disjunct := range d {
		orClause, orValues := disjunct.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}
