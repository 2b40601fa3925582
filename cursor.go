package querypager

import (
	"bytes"
	"database/sql/driver"
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/samber/lo"
)

var _encoder = base64.RawURLEncoding

// CursorValue is one sort key of the row a cursor points at.
type CursorValue struct {
	Field string
	Value any
}

// CursorValues is the ordered field->value mapping carried by a cursor token.
//
// The token is obfuscated, not signed: its contents are client input and must not be trusted.
type CursorValues []CursorValue

// IsEmpty reports whether the cursor points at the start of the dataset.
func (c CursorValues) IsEmpty() bool {
	return len(c) == 0
}

// Get returns the value stored for field.
func (c CursorValues) Get(field string) (any, bool) {
	for _, v := range c {
		if v.Field == field {
			return v.Value, true
		}
	}

	return nil, false
}

// Fields returns the field names in cursor order.
func (c CursorValues) Fields() []string {
	return lo.Map(c, func(item CursorValue, _ int) string {
		return item.Field
	})
}

// Value type tags of the wire format.
const (
	tagNull   = "n"
	tagString = "s"
	tagInt    = "i"
	tagUint   = "u"
	tagFloat  = "f"
	tagBool   = "b"
	tagTime   = "t"
)

// cursorElement is the wire form of a CursorValue. Integers travel as strings so that 64-bit
// values survive JSON, times as RFC 3339 with nanoseconds.
type cursorElement struct {
	Field string          `json:"f"`
	Type  string          `json:"t"`
	Value json.RawMessage `json:"v,omitempty"`
}

// EncodeCursor encodes values into an opaque URL-safe token. Empty values encode to "".
//
// Supported values: nil, strings, booleans, all integer and float kinds, time.Time, and anything
// implementing driver.Valuer or encoding.TextMarshaler (encoded as its text form, e.g. uuid.UUID).
// Integers decode as int64, unsigned integers as uint64, floats as float64, times in UTC.
func EncodeCursor(values CursorValues) (string, error) {
	if values.IsEmpty() {
		return "", nil
	}

	elems := make([]cursorElement, 0, len(values))
	for _, v := range values {
		elem, err := encodeCursorValue(v.Field, v.Value)
		if err != nil {
			return "", err
		}
		elems = append(elems, elem)
	}

	jTok, err := json.Marshal(elems)
	if err != nil {
		return "", fmt.Errorf("cannot marshal cursor value: %w", err)
	}

	var buf bytes.Buffer
	if err = json.Compact(&buf, jTok); err != nil {
		return "", fmt.Errorf("cannot compact cursor value: %w", err)
	}

	return _encoder.EncodeToString(buf.Bytes()), nil
}

func encodeCursorValue(field string, value any) (cursorElement, error) {
	if valuer, ok := value.(driver.Valuer); ok && !isNilPointer(value) {
		v, err := valuer.Value()
		if err != nil {
			return cursorElement{}, fmt.Errorf("cannot resolve cursor value of '%s': %w", field, err)
		}
		value = v
	}

	tag, raw, err := encodeScalar(value)
	if err != nil {
		return cursorElement{}, fmt.Errorf("cannot encode cursor value of '%s': %w", field, err)
	}

	elem := cursorElement{Field: field, Type: tag}
	if tag != tagNull {
		elem.Value, err = json.Marshal(raw)
		if err != nil {
			return cursorElement{}, fmt.Errorf("cannot encode cursor value of '%s': %w", field, err)
		}
	}

	return elem, nil
}

func encodeScalar(value any) (string, any, error) {
	switch v := value.(type) {
	case nil:
		return tagNull, nil, nil
	case time.Time:
		return tagTime, v.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if v == nil {
			return tagNull, nil, nil
		}
		return tagTime, v.UTC().Format(time.RFC3339Nano), nil
	case string:
		return tagString, v, nil
	case []byte:
		return tagString, string(v), nil
	case bool:
		return tagBool, v, nil
	case encoding.TextMarshaler:
		if isNilPointer(value) {
			return tagNull, nil, nil
		}
		text, err := v.MarshalText()
		if err != nil {
			return "", nil, err
		}
		return tagString, string(text), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return tagNull, nil, nil
		}
		return encodeScalar(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tagInt, strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return tagUint, strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return tagFloat, rv.Float(), nil
	case reflect.String:
		return tagString, rv.String(), nil
	case reflect.Bool:
		return tagBool, rv.Bool(), nil
	default:
		return "", nil, fmt.Errorf("unsupported type %T", value)
	}
}

func isNilPointer(value any) bool {
	rv := reflect.ValueOf(value)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// DecodeCursor parses a token produced by EncodeCursor. An empty token decodes to empty values.
// Malformed or tampered tokens yield a *RequestError of kind ErrBadCursor.
func DecodeCursor(token string) (CursorValues, error) {
	if len(token) == 0 {
		return nil, nil
	}

	jsonData, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, newRequestError(ErrBadCursor, ParamCursor, "token is not base64 encoded")
	}

	var elems []cursorElement
	if err = json.Unmarshal(jsonData, &elems); err != nil {
		return nil, newRequestError(ErrBadCursor, ParamCursor, "token is malformed")
	}
	if len(elems) == 0 {
		return nil, newRequestError(ErrBadCursor, ParamCursor, "token carries no values")
	}

	ret := make(CursorValues, 0, len(elems))
	seen := make(map[string]struct{}, len(elems))
	for _, elem := range elems {
		if elem.Field == "" {
			return nil, newRequestError(ErrBadCursor, ParamCursor, "token carries a value without a field")
		}
		if _, ok := seen[elem.Field]; ok {
			return nil, newRequestError(ErrBadCursor, ParamCursor, "token carries field '%s' twice", elem.Field)
		}
		seen[elem.Field] = struct{}{}

		value, err := decodeScalar(elem)
		if err != nil {
			return nil, newRequestError(ErrBadCursor, ParamCursor, "field '%s': %s", elem.Field, err)
		}

		ret = append(ret, CursorValue{Field: elem.Field, Value: value})
	}

	return ret, nil
}

func decodeScalar(elem cursorElement) (any, error) {
	if elem.Type == tagNull {
		return nil, nil
	}
	if len(elem.Value) == 0 {
		return nil, fmt.Errorf("missing value")
	}

	switch elem.Type {
	case tagString:
		var s string
		if err := json.Unmarshal(elem.Value, &s); err != nil {
			return nil, fmt.Errorf("expected a string")
		}
		return s, nil
	case tagBool:
		var b bool
		if err := json.Unmarshal(elem.Value, &b); err != nil {
			return nil, fmt.Errorf("expected a boolean")
		}
		return b, nil
	case tagFloat:
		var f float64
		if err := json.Unmarshal(elem.Value, &f); err != nil {
			return nil, fmt.Errorf("expected a number")
		}
		return f, nil
	case tagInt, tagUint, tagTime:
		var s string
		if err := json.Unmarshal(elem.Value, &s); err != nil {
			return nil, fmt.Errorf("expected a string")
		}
		return parseTextScalar(elem.Type, s)
	default:
		return nil, fmt.Errorf("unknown value type '%s'", elem.Type)
	}
}

func parseTextScalar(tag, s string) (any, error) {
	switch tag {
	case tagInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer '%s'", s)
		}
		return i, nil
	case tagUint:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unsigned integer '%s'", s)
		}
		return u, nil
	default:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid time '%s'", s)
		}
		return t.UTC(), nil
	}
}
