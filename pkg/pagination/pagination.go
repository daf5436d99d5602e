package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from controllers or services.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta is the pagination block the supply platform returns alongside lists.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Normalize clamps page and limit into their allowed ranges.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Apply writes the normalized params into an upstream query string.
func (p Params) Apply(query url.Values) {
	normalized := Normalize(p)
	query.Set("page", strconv.Itoa(normalized.Page))
	query.Set("limit", strconv.Itoa(normalized.Limit))
}
