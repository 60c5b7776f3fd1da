package jobsearch

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
	// MaxPage keeps (page-1)*limit within a 32-bit int.
	MaxPage = math.MaxInt32 / MaxLimit
)

// RawParams are the search parameters as they arrive on the query string.
type RawParams struct {
	Search    string `form:"search"`
	Location  string `form:"location"`
	MinSalary string `form:"minSalary"`
	MaxSalary string `form:"maxSalary"`
	Page      string `form:"page"`
	Limit     string `form:"limit"`
}

// Filter is the normalized, request-scoped search filter.
// Empty strings and nil bounds mean "not filtered".
type Filter struct {
	Keyword   string
	Location  string
	MinSalary *int64
	MaxSalary *int64
	Page      int
	Limit     int
}

// ParseParams normalizes raw parameters. Blank text filters are dropped,
// non-numeric salary bounds are ignored, and page/limit are clamped.
func ParseParams(p RawParams) Filter {
	return Filter{
		Keyword:   strings.TrimSpace(p.Search),
		Location:  strings.TrimSpace(p.Location),
		MinSalary: parseBound(p.MinSalary),
		MaxSalary: parseBound(p.MaxSalary),
		Page:      clampPage(parseInt(p.Page, DefaultPage)),
		Limit:     clampLimit(parseInt(p.Limit, DefaultLimit)),
	}
}

func parseBound(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	// accept decimal input such as "50000.00"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f || f > 9e18 || f < -9e18 {
		return nil
	}
	n := int64(f)
	return &n
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
