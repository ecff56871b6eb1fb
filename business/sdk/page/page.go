// Package page provides support for query paging.
package page

import (
	"fmt"
	"strconv"
)

// MaxLimit is the hard ceiling on the number of documents a single query may
// return, regardless of what the client asked for.
const MaxLimit = 500

// Page represents the requested offset and limit.
type Page struct {
	offset int
	limit  int
}

// Parse creates a page value from the raw query string values. An absent
// offset means 0 and an absent limit means the ceiling. A requested limit
// above the ceiling is clamped, not rejected.
func Parse(offset string, limit string) (Page, error) {
	o := 0
	if offset != "" {
		var err error
		o, err = strconv.Atoi(offset)
		if err != nil {
			return Page{}, fmt.Errorf("offset conversion: %w", err)
		}
	}

	l := MaxLimit
	if limit != "" {
		var err error
		l, err = strconv.Atoi(limit)
		if err != nil {
			return Page{}, fmt.Errorf("limit conversion: %w", err)
		}
	}

	if o < 0 {
		return Page{}, fmt.Errorf("offset value too small, must be 0 or larger")
	}

	if l <= 0 {
		return Page{}, fmt.Errorf("limit value too small, must be larger than 0")
	}

	if l > MaxLimit {
		l = MaxLimit
	}

	return Page{
		offset: o,
		limit:  l,
	}, nil
}

// MustParse creates a page value from the raw values and panics on failure.
// Use only in tests.
func MustParse(offset string, limit string) Page {
	pg, err := Parse(offset, limit)
	if err != nil {
		panic(err)
	}

	return pg
}

// String implements the Stringer interface.
func (p Page) String() string {
	return fmt.Sprintf("offset: %d limit: %d", p.offset, p.limit)
}

// Offset returns the offset value.
func (p Page) Offset() int {
	return p.offset
}

// Limit returns the limit value.
func (p Page) Limit() int {
	return p.limit
}
