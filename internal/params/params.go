package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Pagination holds pagination info and computed metadata.
//
// URL: /campsites/7/reviews?page=2&limit=20
// → ParsePagination() → Pagination{Limit:20, Page:2, Offset:20}
// → SQL: SELECT ... LIMIT 20 OFFSET 20
// → DB returns data + total count
// → ComputeMeta(total) → fills TotalPages, HasNext, etc.
type Pagination struct {
	Limit      int  `json:"limit"`       // items per page
	Offset     int  `json:"offset"`      // SQL OFFSET value
	Page       int  `json:"page"`        // current page number
	Total      int  `json:"total"`       // total items in database
	TotalPages int  `json:"total_pages"` // total pages available
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination parses ?limit=...&page=... safely. Keys are case sensitive.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: 15, // default
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = 15
			case limit > 50:
				p.Limit = 50
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// ParseSort returns q["sort"] if it is one of allowed, otherwise def.
func ParseSort(q url.Values, def string, allowed ...string) string {
	s := strings.TrimSpace(q.Get("sort"))
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}
