package querypager

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// PredicateBuilder builds a predicate from a filter value and the filtered column.
type PredicateBuilder func(value any, column Column) clause.Expression

// ConditionBuilder builds a fixed predicate on the filtered column. See Switch.
type ConditionBuilder func(column Column) clause.Expression

// ApplyFilter turns an operator and a filter value into a predicate on column.
//
// Missing payloads (Exists without Table or Builder, Switch without Conditions, Custom without
// Builder) are reported as *ConfigError. A Switch value outside of Conditions is reported as
// *RequestError for the given param.
func ApplyFilter(param string, column Column, operator FilterOperator, value any) (clause.Expression, error) {
	switch op := operator.(type) {
	case comparison:
		return tConjunct{Column: column.Expr, Operator: op.op, Value: value}.toGORMExpression(), nil
	case like:
		return clause.Expr{
			SQL:  fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", column.Expr),
			Vars: []any{"%" + fmt.Sprint(value) + "%"},
		}, nil
	case Exists:
		if op.Table == "" || op.Builder == nil {
			return nil, newConfigError(ErrMissingPayload, column.Name, "exists filter '%s' requires a table and a builder", param)
		}

		return clause.Expr{
			SQL:  "EXISTS (SELECT 1 FROM ? WHERE ?)",
			Vars: []any{clause.Table{Name: op.Table, Raw: true}, op.Builder(value, column)},
		}, nil
	case Switch:
		if len(op.Conditions) == 0 {
			return nil, newConfigError(ErrMissingPayload, column.Name, "switch filter '%s' requires conditions", param)
		}

		key := fmt.Sprint(value)
		condition, ok := op.Conditions[key]
		if !ok || condition == nil {
			keys := lo.Keys(op.Conditions)
			slices.Sort(keys)

			return nil, newRequestError(
				ErrUnknownSwitchValue,
				param,
				"unknown value '%s', available: %s",
				key,
				strings.Join(keys, ", "),
			)
		}

		return condition(column), nil
	case Custom:
		if op.Builder == nil {
			return nil, newConfigError(ErrMissingPayload, column.Name, "custom filter '%s' requires a builder", param)
		}

		return op.Builder(value, column), nil
	default:
		return nil, newConfigError(ErrInvalidRegistry, column.Name, "unsupported filter operator %T", operator)
	}
}

// validateOperator checks operator payloads once, at registry construction.
func validateOperator(field, alias string, operator FilterOperator) error {
	switch op := operator.(type) {
	case comparison, like:
		return nil
	case Exists:
		if op.Table == "" || op.Builder == nil {
			return newConfigError(ErrMissingPayload, field, "exists filter '%s' requires a table and a builder", alias)
		}
		if !lo.Every(_availableColumnNameSymbols, []rune(op.Table)) {
			return newConfigError(ErrInvalidColumn, field, "exists filter '%s' table contains forbidden symbols '%s'", alias, op.Table)
		}
	case Switch:
		if len(op.Conditions) == 0 {
			return newConfigError(ErrMissingPayload, field, "switch filter '%s' requires conditions", alias)
		}
	case Custom:
		if op.Builder == nil {
			return newConfigError(ErrMissingPayload, field, "custom filter '%s' requires a builder", alias)
		}
	case nil:
		return newConfigError(ErrInvalidRegistry, field, "filter '%s' has no operator", alias)
	default:
		return newConfigError(ErrInvalidRegistry, field, "unsupported filter operator %T", operator)
	}

	return nil
}
