package common

import (
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100 // prevent abuse
)

// ParsePage normalizes a "page" query parameter to a 1-based page number.
func ParsePage(raw string) int {
	page, _ := strconv.Atoi(raw)
	if page <= 0 {
		return 1
	}
	return page
}

// ParseLimit normalizes a "limit" query parameter, clamping to MaxPageSize.
func ParseLimit(raw string) int {
	limit, _ := strconv.Atoi(raw)
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
