package models

import "math"

// Pagination bounds. MaxPage keeps Offset within 32 bits.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPage          = math.MaxInt32 / MaxPageLimit
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to valid bounds
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the number of rows to skip
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the paginated response envelope
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds the envelope for one page of data out of total rows
func NewPage[T any](data []T, total int, req PageRequest) Page[T] {
	if data == nil {
		data = []T{}
	}

	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}

	return Page[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		TotalPages: totalPages,
	}
}
