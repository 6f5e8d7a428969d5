package domain

import "time"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// MaxPageNumber keeps Offset well inside int range.
	MaxPageNumber = 1_000_000
)

// Page selects a slice of a newest-first listing. Number is 1-based.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps the page into range.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// EventFilter narrows a security event listing. Zero values match all.
type EventFilter struct {
	Severity Severity
	Since    time.Time
	Until    time.Time
}

// Listing is a page of results plus the total count across all pages.
type Listing[T any] struct {
	Items   []T
	Total   int
	Page    int
	PerPage int
}

// Pages is the number of pages needed for Total items.
func (l Listing[T]) Pages() int {
	if l.PerPage == 0 {
		return 0
	}
	return (l.Total + l.PerPage - 1) / l.PerPage
}
