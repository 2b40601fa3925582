package querypager

// Operator defines an SQL comparison operator applied to a column.
type Operator string

const (
	OperatorEQ  Operator = "="
	OperatorNEQ Operator = "<>"
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="
)

// FilterOperator is the closed set of filter operators a FilterDescriptor may carry:
// Eq, Neq, Gt, Lt, Gte, Lte, Like, Exists, Switch and Custom.
type FilterOperator interface {
	// Name returns a short operator name used in error messages and logs.
	Name() string

	filterOperator()
}

// comparison covers the plain relational operators.
type comparison struct {
	op Operator
}

func (c comparison) Name() string {
	switch c.op {
	case OperatorEQ:
		return "eq"
	case OperatorNEQ:
		return "neq"
	case OperatorGT:
		return "gt"
	case OperatorLT:
		return "lt"
	case OperatorGTE:
		return "gte"
	case OperatorLTE:
		return "lte"
	default:
		return string(c.op)
	}
}

func (comparison) filterOperator() {}

// like is a case-insensitive substring match.
type like struct{}

func (like) Name() string { return "like" }

func (like) filterOperator() {}

var (
	Eq   FilterOperator = comparison{op: OperatorEQ}
	Neq  FilterOperator = comparison{op: OperatorNEQ}
	Gt   FilterOperator = comparison{op: OperatorGT}
	Lt   FilterOperator = comparison{op: OperatorLT}
	Gte  FilterOperator = comparison{op: OperatorGTE}
	Lte  FilterOperator = comparison{op: OperatorLTE}
	Like FilterOperator = like{}
)

// Exists filters by the existence of related rows: EXISTS (SELECT 1 FROM Table WHERE Builder(...)).
type Exists struct {
	// Table is the join target of the subquery.
	Table string
	// Builder constrains the subquery, usually correlating Table with the base column.
	Builder PredicateBuilder
}

func (Exists) Name() string { return "exists" }

func (Exists) filterOperator() {}

// Switch maps a fixed set of filter values to predicates.
//
// Example:
//
//	querypager.Switch{Conditions: map[string]querypager.ConditionBuilder{
//		"positive": func(c querypager.Column) clause.Expression { return clause.Expr{SQL: c.Expr + " > 0"} },
//		"negative": func(c querypager.Column) clause.Expression { return clause.Expr{SQL: c.Expr + " < 0"} },
//	}}
type Switch struct {
	Conditions map[string]ConditionBuilder
}

func (Switch) Name() string { return "switch" }

func (Switch) filterOperator() {}

// Custom delegates predicate construction entirely to Builder.
type Custom struct {
	Builder PredicateBuilder
}

func (Custom) Name() string { return "custom" }

func (Custom) filterOperator() {}

var (
	_ FilterOperator = comparison{}
	_ FilterOperator = like{}
	_ FilterOperator = Exists{}
	_ FilterOperator = Switch{}
	_ FilterOperator = Custom{}
)
