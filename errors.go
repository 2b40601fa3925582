package querypager

import (
	"errors"
	"fmt"
)

// Error classes. Every error produced by the package wraps exactly one of them.
var (
	// ErrBadRequest marks errors caused by client input: query parameters and cursor tokens.
	ErrBadRequest = errors.New("bad request")
	// ErrConfiguration marks errors caused by a misconfigured registry or pagination config.
	ErrConfiguration = errors.New("pagination misconfigured")
)

// Bad request kinds.
var (
	ErrModeNotAllowed     = errors.New("pagination mode not allowed")
	ErrUnknownSortField   = errors.New("unknown sort field")
	ErrMultipleSortFields = errors.New("multiple sort fields not allowed")
	ErrInvalidSortOrder   = errors.New("invalid sort order")
	ErrInvalidLimit       = errors.New("invalid limit")
	ErrLimitExceeded      = errors.New("limit exceeded")
	ErrInvalidPage        = errors.New("invalid page")
	ErrBadCursor          = errors.New("bad cursor")
	ErrMissingCursorField = errors.New("missing cursor field")
	ErrUnknownSwitchValue = errors.New("unknown switch value")
)

// Configuration kinds.
var (
	ErrMissingPayload  = errors.New("missing operator payload")
	ErrMissingIDField  = errors.New("missing cursor id field")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrInvalidRegistry = errors.New("invalid field registry")
)

// RequestError describes a rejected query parameter. It matches both ErrBadRequest and its Kind
// with errors.Is.
type RequestError struct {
	// Param is the name of the offending query parameter.
	Param   string
	Kind    error
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: parameter '%s': %s", e.Kind, e.Param, e.Message)
}

func (e *RequestError) Unwrap() []error {
	return []error{ErrBadRequest, e.Kind}
}

func newRequestError(kind error, param string, format string, args ...any) *RequestError {
	return &RequestError{
		Param:   param,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// ConfigError describes a programming error in the field registry or pagination config.
type ConfigError struct {
	// Field is the logical field (or config key) the error refers to. May be empty.
	Field   string
	Kind    error
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: field '%s': %s", e.Kind, e.Field, e.Message)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfiguration, e.Kind}
}

func newConfigError(kind error, field string, format string, args ...any) *ConfigError {
	return &ConfigError{
		Field:   field,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}
