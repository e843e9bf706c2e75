package api

import (
	"gamestats/internal/models"
	"math"
	"strconv"
	"strings"
)

// FilterParams are the raw filter query parameters. Years stay strings so a
// malformed value can be carried into the filter set instead of rejected.
type FilterParams struct {
	Year      string `query:"year"`
	YearFrom  string `query:"year_from"`
	YearTo    string `query:"year_to"`
	Platform  string `query:"platform"`
	Genre     string `query:"genre"`
	Publisher string `query:"publisher"`
	Rating    string `query:"rating"`
}

type rankingsRequest struct {
	FilterParams
	Metric string `query:"metric" validate:"required,oneof=global_sales na_sales eu_sales jp_sales critic_score user_score"`
	Limit  int    `query:"limit" validate:"min=1,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

type aggregateRequest struct {
	FilterParams
	Metric       string `query:"metric" validate:"required,oneof=global_sales na_sales eu_sales jp_sales critic_score user_score"`
	NameContains string `query:"name_contains"`
}

type suggestRequest struct {
	Query string `query:"q" validate:"required"`
	Limit int    `query:"limit" validate:"min=1,max=100"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Question  string                   `json:"question"`
	Mode      models.Mode              `json:"mode"`
	Parsed    models.Intent            `json:"parsed"`
	Aggregate *models.AggregateSummary `json:"aggregate,omitempty"`
	Total     *int                     `json:"total,omitempty"`
	Items     []models.Game            `json:"items"`
}

// toFilters converts the raw parameters. A year that is not a number marks
// the whole set Invalid, which makes it match no rows.
func (p FilterParams) toFilters() models.Filters {
	var f models.Filters
	var ok bool

	if f.Year, ok = yearParam(p.Year); !ok {
		f.Invalid = true
	}
	if f.YearFrom, ok = yearParam(p.YearFrom); !ok {
		f.Invalid = true
	}
	if f.YearTo, ok = yearParam(p.YearTo); !ok {
		f.Invalid = true
	}

	f.Platform = stringParam(p.Platform)
	f.Genre = stringParam(p.Genre)
	f.Publisher = stringParam(p.Publisher)
	f.Rating = stringParam(p.Rating)
	return f
}

// yearParam returns nil for an absent value and false for a malformed one.
// Years are whole numbers: "2009.0" is accepted, "2009.4" is malformed.
func yearParam(s string) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || v != math.Trunc(v) {
		return nil, false
	}
	y := int(v)
	return &y, true
}

func stringParam(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
