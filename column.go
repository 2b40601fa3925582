package querypager

import (
	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// Column references a column or computed expression of the backing store.
//
// Name is the logical name of the column. It keys cursor values and is used to read the column
// value off a result row when a sort field has no explicit extractor. Expr is the SQL expression
// placed into generated conditions and ORDER BY, e.g. "users.created_at" or "LOWER(users.email)".
type Column struct {
	Name string
	Expr string
}

// Col returns a Column whose SQL expression equals its logical name.
func Col(name string) Column {
	return Column{Name: name, Expr: name}
}

// NewColumn returns a Column with an explicit SQL expression.
func NewColumn(name, expr string) Column {
	return Column{Name: name, Expr: expr}
}

// IsZero reports whether the column is unset.
func (c Column) IsZero() bool {
	return c == Column{}
}

// Clause returns the column as a raw gorm clause.Column, suitable for clause.Expr vars.
func (c Column) Clause() clause.Column {
	return clause.Column{Name: c.Expr, Raw: true}
}

func (c Column) String() string {
	return c.Expr
}

var _availableColumnNameSymbols = append([]rune("_.'`\"()"), lo.AlphanumericCharset...)

// validate guards against SQL injection through column expressions: they are interpolated into
// generated SQL as is.
func (c Column) validate() error {
	if c.Name == "" {
		return newConfigError(ErrInvalidColumn, c.Expr, "column has no logical name")
	}

	if c.Expr == "" {
		return newConfigError(ErrInvalidColumn, c.Name, "column has no expression")
	}

	if !lo.Every(_availableColumnNameSymbols, []rune(c.Expr)) {
		return newConfigError(ErrInvalidColumn, c.Name, "column expression contains forbidden symbols '%s'", c.Expr)
	}

	return nil
}
