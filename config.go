package querypager

import (
	"fmt"

	"github.com/spf13/viper"
)

// Mode selects the pagination strategies an endpoint accepts.
type Mode string

const (
	ModeOffset Mode = "offset"
	ModeCursor Mode = "cursor"
	// ModeBoth accepts both: a "page" parameter selects offset pagination, cursor otherwise.
	ModeBoth Mode = "both"
)

func (m Mode) Valid() bool {
	return m == ModeOffset || m == ModeCursor || m == ModeBoth
}

// AllowsCursor reports whether the mode permits cursor pagination.
func (m Mode) AllowsCursor() bool {
	return m == ModeCursor || m == ModeBoth
}

// AllowsOffset reports whether the mode permits offset pagination.
func (m Mode) AllowsOffset() bool {
	return m == ModeOffset || m == ModeBoth
}

// SortSpec is a configured sort entry: a field name and an "asc"/"desc" order.
type SortSpec struct {
	Field string `mapstructure:"field" json:"field"`
	Order string `mapstructure:"order" json:"order"`
}

// PaginationConfig describes how an endpoint paginates.
type PaginationConfig struct {
	Mode Mode `mapstructure:"mode" json:"mode"`
	// CursorIDField names the registry field used as the keyset tie-break. It must be unique per
	// row and is required whenever Mode allows cursor pagination.
	CursorIDField     string     `mapstructure:"cursor_id_field" json:"cursorIdField"`
	DefaultLimit      int        `mapstructure:"default_limit" json:"defaultLimit"`
	MaxLimit          int        `mapstructure:"max_limit" json:"maxLimit"`
	AllowCustomLimit  bool       `mapstructure:"allow_custom_limit" json:"allowCustomLimit"`
	AllowCustomSort   bool       `mapstructure:"allow_custom_sort" json:"allowCustomSort"`
	AllowMultipleSort bool       `mapstructure:"allow_multiple_sort" json:"allowMultipleSort"`
	DefaultSort       []SortSpec `mapstructure:"default_sort" json:"defaultSort"`
}

// DefaultConfig returns an offset pagination config with the package limits and every custom
// parameter allowed.
func DefaultConfig() PaginationConfig {
	return PaginationConfig{
		Mode:              ModeOffset,
		DefaultLimit:      DefaultLimit,
		MaxLimit:          MaxLimit,
		AllowCustomLimit:  true,
		AllowCustomSort:   true,
		AllowMultipleSort: true,
	}
}

// WithMode returns a copy of the config using mode.
func (c PaginationConfig) WithMode(mode Mode) PaginationConfig {
	c.Mode = mode

	return c
}

// WithCursorIDField returns a copy of the config using field as the keyset tie-break.
func (c PaginationConfig) WithCursorIDField(field string) PaginationConfig {
	c.CursorIDField = field

	return c
}

// WithDefaultSort returns a copy of the config sorting by specs when no custom sort is given.
func (c PaginationConfig) WithDefaultSort(specs ...SortSpec) PaginationConfig {
	c.DefaultSort = specs

	return c
}

// Validate checks the config against registry. All errors are *ConfigError.
func (c PaginationConfig) Validate(registry FieldRegistry) error {
	if registry == nil {
		return newConfigError(ErrInvalidRegistry, "", "field registry is nil")
	}

	if !c.Mode.Valid() {
		return newConfigError(ErrInvalidRegistry, "mode", "unknown pagination mode '%s'", c.Mode)
	}

	if c.DefaultLimit <= 0 {
		return newConfigError(ErrInvalidRegistry, "default_limit", "default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return newConfigError(
			ErrInvalidRegistry,
			"max_limit",
			"max limit %d is lower than default limit %d",
			c.MaxLimit,
			c.DefaultLimit,
		)
	}

	if c.Mode.AllowsCursor() {
		if c.CursorIDField == "" {
			return newConfigError(ErrMissingIDField, "cursor_id_field", "cursor pagination requires an id field")
		}
		if _, ok := registry.Lookup(c.CursorIDField); !ok {
			return newConfigError(ErrMissingIDField, c.CursorIDField, "cursor id field is not registered")
		}
	}

	for _, spec := range c.DefaultSort {
		field, ok := registry.Lookup(spec.Field)
		if !ok {
			return newConfigError(ErrInvalidRegistry, spec.Field, "default sort field is not registered")
		}
		if field.Sort == nil && field.Name != c.CursorIDField {
			return newConfigError(ErrInvalidRegistry, spec.Field, "default sort field is not sortable")
		}
		if spec.Order != "" {
			if _, ok = ParseDirection(spec.Order); !ok {
				return newConfigError(ErrInvalidRegistry, spec.Field, "invalid default sort order '%s'", spec.Order)
			}
		}
	}

	return nil
}

// ConfigFromViper decodes the pagination config stored under key over DefaultConfig. An empty
// key decodes the whole viper instance; a missing key yields DefaultConfig.
//
// Example TOML:
//
//	[pagination.products]
//	mode = "both"
//	cursor_id_field = "id"
//	max_limit = 50
//	default_sort = [{ field = "created_at", order = "desc" }]
func ConfigFromViper(v *viper.Viper, key string) (PaginationConfig, error) {
	cfg := DefaultConfig()
	if v == nil {
		return cfg, nil
	}

	sub := v
	if key != "" {
		if !v.IsSet(key) {
			return cfg, nil
		}

		sub = v.Sub(key)
		if sub == nil {
			return cfg, fmt.Errorf("pagination config '%s' is not a table", key)
		}
	}

	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("cannot decode pagination config '%s': %w", key, err)
	}

	return cfg, nil
}
