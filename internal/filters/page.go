package filters

import (
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 1000000
)

// Page is a 1-based page window over a reverse-chronological list.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads page/limit query parameters with bounded defaults.
func ParsePage(values url.Values) (Page, error) {
	errs := FieldErrors{}

	page := 1
	if raw := values.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		switch {
		case err != nil || parsed < 1:
			errs["page"] = "must be a positive integer"
		case parsed > maxPage:
			// Keeps the computed offset far from integer overflow.
			errs["page"] = "must be at most 1000000"
		default:
			page = parsed
		}
	}

	limit := defaultPageSize
	if raw := values.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errs["limit"] = "must be a positive integer"
		} else {
			limit = parsed
			if limit > maxPageSize {
				limit = maxPageSize
			}
		}
	}

	if len(errs) > 0 {
		return Page{}, errs
	}
	return Page{Limit: limit, Offset: (page - 1) * limit}, nil
}
