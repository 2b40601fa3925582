package querypager

import (
	"net/url"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Parser turns raw query parameters into a PaginationRequest for one endpoint.
//
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	registry FieldRegistry
	config   PaginationConfig
	logger   logrus.FieldLogger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger sets the logger used for debug output. Defaults to a discard logger.
func WithParserLogger(logger logrus.FieldLogger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser validates cfg against registry and returns a Parser. Errors are *ConfigError.
func NewParser(registry FieldRegistry, cfg PaginationConfig, opts ...ParserOption) (*Parser, error) {
	if err := cfg.Validate(registry); err != nil {
		return nil, err
	}

	p := &Parser{
		registry: registry,
		config:   cfg,
		logger:   discardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Parse is a shortcut for NewParser followed by Parser.Parse.
func Parse(registry FieldRegistry, cfg PaginationConfig, params url.Values) (*PaginationRequest, error) {
	p, err := NewParser(registry, cfg)
	if err != nil {
		return nil, err
	}

	return p.Parse(params)
}

// Config returns the config the parser was built with.
func (p *Parser) Config() PaginationConfig {
	return p.config
}

// Parse resolves params into a PaginationRequest.
//
// Invalid parameters yield a *RequestError; nothing present is ever coerced. Defaults apply only
// to absent parameters.
func (p *Parser) Parse(params url.Values) (*PaginationRequest, error) {
	mode, err := p.resolveMode(params)
	if err != nil {
		return nil, err
	}

	limit, err := resolveLimit(p.config, params)
	if err != nil {
		return nil, err
	}

	sorting, err := p.resolveSort(params)
	if err != nil {
		return nil, err
	}

	req := &PaginationRequest{
		Mode:    mode,
		Filters: p.resolveFilters(params),
		Sorting: sorting,
		Limit:   limit,
	}

	switch mode {
	case ModeOffset:
		req.Page, err = resolvePage(params)
		if err != nil {
			return nil, err
		}
		req.Offset = (req.Page - 1) * req.Limit
	case ModeCursor:
		if err = p.resolveCursor(req, params); err != nil {
			return nil, err
		}
	}

	p.logger.WithFields(logrus.Fields{
		"mode":    req.Mode,
		"limit":   req.Limit,
		"page":    req.Page,
		"filters": len(req.Filters),
		"sort":    req.Orderings().ToSQL(),
		"cursor":  !req.Cursor.IsEmpty(),
	}).Debug("pagination request parsed")

	return req, nil
}

func (p *Parser) resolveMode(params url.Values) (Mode, error) {
	hasPage := hasParam(params, ParamPage)
	hasCursor := hasParam(params, ParamCursor)

	switch p.config.Mode {
	case ModeOffset:
		if hasCursor {
			return "", newRequestError(ErrModeNotAllowed, ParamCursor, "cursor pagination is not supported, use '%s'", ParamPage)
		}
		return ModeOffset, nil
	case ModeCursor:
		if hasPage {
			return "", newRequestError(ErrModeNotAllowed, ParamPage, "offset pagination is not supported, use '%s'", ParamCursor)
		}
		return ModeCursor, nil
	default:
		if hasPage && hasCursor {
			return "", newRequestError(
				ErrModeNotAllowed,
				ParamCursor,
				"'%s' and '%s' are mutually exclusive",
				ParamPage,
				ParamCursor,
			)
		}

		return lo.Ternary(hasPage, ModeOffset, ModeCursor), nil
	}
}

// resolveFilters collects one instruction per filter descriptor with a value. Descriptors are
// independent: several filters on the same field all apply.
func (p *Parser) resolveFilters(params url.Values) []FilterInstruction {
	var ret []FilterInstruction

	for _, field := range p.registry.Fields() {
		for _, descriptor := range field.Filters {
			value, ok := filterValue(params, descriptor)
			if !ok {
				continue
			}

			ret = append(ret, FilterInstruction{
				FieldName: field.Name,
				Param:     descriptor.Alias,
				Column:    field.Column,
				Operator:  descriptor.Operator,
				Value:     value,
			})
		}
	}

	return ret
}

func filterValue(params url.Values, descriptor FilterDescriptor) (any, bool) {
	if raw := params.Get(descriptor.Alias); raw != "" {
		return raw, true
	}

	switch v := descriptor.Default.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	default:
		return v, true
	}
}

func (p *Parser) resolveSort(params url.Values) ([]SortInstruction, error) {
	aliases := splitList(params[ParamSortBy])
	if !p.config.AllowCustomSort || len(aliases) == 0 {
		return p.defaultSort(), nil
	}

	if !p.config.AllowMultipleSort && len(aliases) > 1 {
		return nil, newRequestError(
			ErrMultipleSortFields,
			ParamSortBy,
			"only one sort field is allowed, got %d: %s",
			len(aliases),
			strings.Join(aliases, ", "),
		)
	}

	sortable := sortableFields(p.registry)
	validAliases := lo.Keys(sortable)
	slices.Sort(validAliases)

	orders := splitOrders(params[ParamSortOrder])

	var ret []SortInstruction
	for i, alias := range aliases {
		field, ok := sortable[alias]
		if !ok {
			return nil, newRequestError(
				ErrUnknownSortField,
				ParamSortBy,
				"unknown sort field '%s', closest: '%s', valid: %s",
				alias,
				closestAlias(alias, validAliases),
				strings.Join(validAliases, ", "),
			)
		}

		order := DirectionASC
		if i < len(orders) && orders[i] != "" {
			var valid bool
			order, valid = ParseDirection(orders[i])
			if !valid {
				return nil, newRequestError(ErrInvalidSortOrder, ParamSortOrder, "'%s' must be ASC or DESC", orders[i])
			}
		}

		ret = appendSort(ret, sortInstruction(field, order))
	}

	return ret, nil
}

// defaultSort resolves PaginationConfig.DefaultSort. The config was validated by NewParser.
func (p *Parser) defaultSort() []SortInstruction {
	var ret []SortInstruction
	for _, spec := range p.config.DefaultSort {
		field, ok := p.registry.Lookup(spec.Field)
		if !ok {
			continue
		}

		order := DirectionASC
		if spec.Order != "" {
			order, _ = ParseDirection(spec.Order)
		}

		ret = appendSort(ret, sortInstruction(field, order))
	}

	return ret
}

func (p *Parser) resolveCursor(req *PaginationRequest, params url.Values) error {
	idField, ok := p.registry.Lookup(p.config.CursorIDField)
	if !ok {
		return newConfigError(ErrMissingIDField, p.config.CursorIDField, "cursor id field is not registered")
	}

	req.TieBreak = sortInstruction(idField, DirectionASC)
	req.Sorting = withTieBreak(req.Sorting, req.TieBreak)

	cursor, err := DecodeCursor(strings.TrimSpace(params.Get(ParamCursor)))
	if err != nil {
		return err
	}
	req.Cursor = cursor

	// Fail fast on tokens issued for another sort configuration.
	if _, err = buildKeysetDNF(req.Sorting, req.Cursor, req.TieBreak); err != nil {
		return err
	}

	return nil
}

func sortInstruction(field Field, order Direction) SortInstruction {
	ret := SortInstruction{
		FieldName: field.Name,
		Column:    field.Column,
		Order:     order,
	}
	if field.Sort != nil {
		ret.Value = field.Sort.Value
	}

	return ret
}

// hasParam reports whether params carries a non-blank value for name.
func hasParam(params url.Values, name string) bool {
	return strings.TrimSpace(params.Get(name)) != ""
}

// splitOrders flattens sortOrder values like splitList but keeps blank positions, so
// "sortOrder=,desc" pairs ASC with the first sortBy field and DESC with the second.
func splitOrders(values []string) []string {
	var ret []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			ret = append(ret, strings.TrimSpace(item))
		}
	}

	return ret
}

// splitList flattens repeated and comma-separated values: ["a,b", "c"] becomes [a b c].
func splitList(values []string) []string {
	var ret []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				ret = append(ret, item)
			}
		}
	}

	return ret
}
