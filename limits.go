package querypager

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

// resolveLimit reads the limit parameter. Absent (or empty) parameters and disabled custom
// limits yield cfg.DefaultLimit; present values are never clamped.
func resolveLimit(cfg PaginationConfig, params url.Values) (int, error) {
	raw := strings.TrimSpace(params.Get(ParamLimit))
	if !cfg.AllowCustomLimit || raw == "" {
		return cfg.DefaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newRequestError(ErrInvalidLimit, ParamLimit, "'%s' is not an integer", raw)
	}
	if limit <= 0 {
		return 0, newRequestError(ErrInvalidLimit, ParamLimit, "must be positive, got %d", limit)
	}
	if limit > cfg.MaxLimit {
		return 0, newRequestError(ErrLimitExceeded, ParamLimit, "must not exceed %d, got %d", cfg.MaxLimit, limit)
	}

	return limit, nil
}

// resolvePage reads the page parameter. Absent (or empty) parameters yield the first page.
func resolvePage(params url.Values) (int, error) {
	raw := strings.TrimSpace(params.Get(ParamPage))
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newRequestError(ErrInvalidPage, ParamPage, "'%s' is not an integer", raw)
	}
	if page < 1 {
		return 0, newRequestError(ErrInvalidPage, ParamPage, "must be at least 1, got %d", page)
	}

	return page, nil
}
