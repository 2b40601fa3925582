package querypager

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"
)

// _schemaCache caches parsed row schemas across requests, as gorm does for models.
var _schemaCache sync.Map

// ValueOf reads the instruction's sort value off row, via the explicit extractor function, the
// extractor field, or the column's logical name, in that order.
func (s SortInstruction) ValueOf(row any) (any, error) {
	switch {
	case s.Value.Func != nil:
		return s.Value.Func(row), nil
	case s.Value.Field != "":
		return rowValue(row, s.Value.Field)
	default:
		return rowValue(row, s.Column.Name)
	}
}

// rowValue reads key off a map row or a struct row. Struct fields match either their Go name or
// their gorm column name.
func rowValue(row any, key string) (any, error) {
	if m, ok := row.(map[string]any); ok {
		v, ok := m[key]
		if !ok {
			return nil, fmt.Errorf("row has no key '%s'", key)
		}
		return v, nil
	}

	rv := reflect.ValueOf(row)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot read '%s' of a nil row", key)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot read '%s' of %T: map keys are not strings", key, row)
		}

		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, fmt.Errorf("row has no key '%s'", key)
		}
		return v.Interface(), nil
	case reflect.Struct:
		sch, err := schema.Parse(reflect.New(rv.Type()).Interface(), &_schemaCache, schema.NamingStrategy{})
		if err != nil {
			return nil, fmt.Errorf("cannot parse row type %T: %w", row, err)
		}

		field := sch.LookUpField(key)
		if field == nil {
			return nil, fmt.Errorf("row type %s has no field '%s'", rv.Type(), key)
		}

		v, _ := field.ValueOf(context.Background(), rv)
		return v, nil
	default:
		return nil, fmt.Errorf("cannot read '%s' of %T", key, row)
	}
}
