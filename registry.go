package querypager

import (
	"slices"

	"github.com/samber/lo"
)

// Query parameters reserved by the parser. Filter and sort aliases must not reuse them.
const (
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamCursor    = "cursor"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

var _reservedParams = []string{ParamPage, ParamLimit, ParamCursor, ParamSortBy, ParamSortOrder}

// FieldRegistry exposes the filterable and sortable fields of a resource.
//
// Implementations must be immutable once requests are served: the parser reads them
// concurrently without synchronisation.
type FieldRegistry interface {
	// Fields returns all fields in registration order.
	Fields() []Field
	// Lookup returns the field registered under name.
	Lookup(name string) (Field, bool)
}

// Field binds a logical field name to a column, its filters and its sortability.
type Field struct {
	Name    string
	Column  Column
	Filters []FilterDescriptor
	// Sort is nil for fields that cannot be sorted on.
	Sort *SortDescriptor
}

// FilterDescriptor declares one filter on a field. A field may carry several, e.g. an equality
// filter and a substring filter under different aliases.
type FilterDescriptor struct {
	// Alias is the query parameter carrying the filter value.
	Alias    string
	Operator FilterOperator
	// Default applies when the parameter is absent or empty. Nil or "" disables the filter then.
	Default any
}

// SortDescriptor makes a field sortable under Alias (the field name when empty).
type SortDescriptor struct {
	Alias string
	// Value reads the field value off a result row when building the next cursor.
	Value ValueExtractor
}

// ValueExtractor reads a sort value off a result row. Func takes precedence over Field; the
// zero value reads the row key named after the column's logical name.
type ValueExtractor struct {
	// Field is a row key: a map key, a struct field name or its gorm column name.
	Field string
	Func  func(row any) any
}

// Sortable is a shortcut for a SortDescriptor using the field name as alias.
func Sortable() *SortDescriptor {
	return &SortDescriptor{}
}

// Registry is the immutable FieldRegistry implementation.
type Registry struct {
	fields []Field
	byName map[string]int
}

// NewRegistry validates fields and builds a Registry. All errors are *ConfigError.
func NewRegistry(fields ...Field) (*Registry, error) {
	r := &Registry{
		fields: make([]Field, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}

	filterAliases := make(map[string]string)
	sortAliases := make(map[string]string)

	for _, field := range fields {
		if field.Name == "" {
			return nil, newConfigError(ErrInvalidRegistry, "", "field with empty name")
		}
		if _, ok := r.byName[field.Name]; ok {
			return nil, newConfigError(ErrInvalidRegistry, field.Name, "duplicate field")
		}
		if field.Column.IsZero() {
			field.Column = Col(field.Name)
		}
		if err := field.Column.validate(); err != nil {
			return nil, err
		}

		field.Filters = slices.Clone(field.Filters)
		for i := range field.Filters {
			filter := &field.Filters[i]
			if filter.Alias == "" {
				filter.Alias = field.Name
			}
			if err := checkAlias(field.Name, filter.Alias, filterAliases); err != nil {
				return nil, err
			}
			if err := validateOperator(field.Name, filter.Alias, filter.Operator); err != nil {
				return nil, err
			}
		}

		if field.Sort != nil {
			sort := *field.Sort
			if sort.Alias == "" {
				sort.Alias = field.Name
			}
			if err := checkAlias(field.Name, sort.Alias, sortAliases); err != nil {
				return nil, err
			}
			field.Sort = &sort
		}

		r.byName[field.Name] = len(r.fields)
		r.fields = append(r.fields, field)
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Intended for package-level registries.
func MustRegistry(fields ...Field) *Registry {
	r, err := NewRegistry(fields...)
	if err != nil {
		panic(err)
	}

	return r
}

func checkAlias(field, alias string, seen map[string]string) error {
	if lo.Contains(_reservedParams, alias) {
		return newConfigError(ErrInvalidRegistry, field, "alias '%s' is a reserved parameter", alias)
	}
	if owner, ok := seen[alias]; ok {
		return newConfigError(ErrInvalidRegistry, field, "alias '%s' already used by field '%s'", alias, owner)
	}
	seen[alias] = field

	return nil
}

// Fields - implements FieldRegistry.
func (r *Registry) Fields() []Field {
	if r == nil {
		return nil
	}

	return slices.Clone(r.fields)
}

// Lookup - implements FieldRegistry.
func (r *Registry) Lookup(name string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}

	idx, ok := r.byName[name]
	if !ok {
		return Field{}, false
	}

	return r.fields[idx], true
}

var _ FieldRegistry = (*Registry)(nil)

// sortableFields returns sortable fields keyed by their sort alias.
func sortableFields(registry FieldRegistry) map[string]Field {
	ret := make(map[string]Field)
	for _, field := range registry.Fields() {
		if field.Sort != nil {
			alias := field.Sort.Alias
			if alias == "" {
				alias = field.Name
			}
			ret[alias] = field
		}
	}

	return ret
}
