package service

import (
	"github.com/flixlens/flixlens/internal/domain"
	domainerrors "github.com/flixlens/flixlens/internal/errors"
	"github.com/flixlens/flixlens/internal/validation"
)

// FilterParser validates and canonicalises filters received from clients.
type FilterParser struct {
	validator *validation.Validator
}

// NewFilterParser creates a filter parser.
func NewFilterParser(v *validation.Validator) *FilterParser {
	if v == nil {
		v = validation.New()
	}
	return &FilterParser{validator: v}
}

// Parse validates f and returns its normalized form.
func (p *FilterParser) Parse(f domain.Filter) (domain.Filter, error) {
	if err := p.validator.Validate(f); err != nil {
		return domain.Filter{}, err
	}
	out, err := f.Normalize()
	if err != nil {
		return domain.Filter{}, domainerrors.ValidationWithDetails(
			"validation failed",
			map[string]string{"type": err.Error()},
		)
	}
	return out, nil
}
