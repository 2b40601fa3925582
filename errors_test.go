package querypager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RequestError(t *testing.T) {
	err := error(newRequestError(ErrLimitExceeded, ParamLimit, "must not exceed %d, got %d", 100, 200))

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrInvalidLimit)
	assert.Equal(t, "limit exceeded: parameter 'limit': must not exceed 100, got 200", err.Error())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, ParamLimit, reqErr.Param)
}

func Test_ConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  newConfigError(ErrMissingPayload, "status", "switch filter '%s' requires conditions", "status"),
			want: "missing operator payload: field 'status': switch filter 'status' requires conditions",
		},
		{
			name: "without field",
			err:  newConfigError(ErrInvalidRegistry, "", "field registry is nil"),
			want: "invalid field registry: field registry is nil",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrConfiguration)
			assert.ErrorIs(t, tt.err, tt.err.Kind)
			assert.NotErrorIs(t, tt.err, ErrBadRequest)
		})
	}
}
