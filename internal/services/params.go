package services

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

var validate = validator.New()

// Pagination defaults for paper queries.
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// FilterParams are the validated query parameters of a paper search.
type FilterParams struct {
	YearFrom    int      `json:"year_from" validate:"omitempty,gte=1000,lte=9999"`
	YearTo      int      `json:"year_to" validate:"omitempty,gte=1000,lte=9999"`
	Journals    []string `json:"journals" validate:"max=50,dive,max=300"`
	HasAbstract *bool    `json:"has_abstract"`
	Query       string   `json:"q" validate:"max=200"`
	Limit       int      `json:"limit" validate:"gte=0,lte=1000"`
	Offset      int      `json:"offset" validate:"gte=0"`
}

// Validate checks ranges and the year ordering.
func (p FilterParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFilter, err)
	}
	if p.YearFrom != 0 && p.YearTo != 0 && p.YearTo < p.YearFrom {
		return fmt.Errorf("%w: year_to %d precedes year_from %d", ErrInvalidFilter, p.YearTo, p.YearFrom)
	}
	return nil
}

// Filter converts the parameters into a table filter.
func (p FilterParams) Filter() metadata.Filter {
	return metadata.Filter{
		YearFrom:    p.YearFrom,
		YearTo:      p.YearTo,
		Journals:    p.Journals,
		HasAbstract: p.HasAbstract,
		TitleQuery:  p.Query,
	}
}

// page clamps the pagination window to the defaults.
func (p FilterParams) page() (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset = p.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
