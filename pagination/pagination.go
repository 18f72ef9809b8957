// Package pagination implements the page/per-page contract shared by the
// list endpoints and the API client: a fixed envelope
// {data, currentPage, totalData, totalPage}, a numbered-page window of at
// most three buttons, and the last-page per-page remainder rule.
package pagination

import "strconv"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100

	// windowSize is the maximum count of numbered page buttons.
	windowSize = 3
)

// Params are the parsed page/per-page query parameters.
type Params struct {
	Page    int
	PerPage int
}

// ParseParams reads 1-based page and per-page strings, falling back to
// defaults on missing or non-numeric values and clamping per-page.
func ParseParams(page, perPage string) Params {
	p := Params{Page: DefaultPage, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(perPage); err == nil && n >= 1 {
		p.PerPage = n
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the row offset for the current page.
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// Page is the list envelope every collection endpoint returns.
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"currentPage"`
	TotalData   int64 `json:"totalData"`
	TotalPage   int   `json:"totalPage"`
}

// NewPage wraps one fetched page. TotalPage rounds up; an empty result
// yields TotalPage 0.
func NewPage[T any](data []T, params Params, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPage := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))
	return Page[T]{
		Data:        data,
		CurrentPage: params.Page,
		TotalData:   total,
		TotalPage:   totalPage,
	}
}

// Window returns the visible page numbers: at most three, centered on
// current and clamped to [1, totalPage]. Empty when totalPage is zero.
func Window(current, totalPage int) []int {
	if totalPage <= 0 {
		return nil
	}
	start := current - windowSize/2
	if start < 1 {
		start = 1
	}
	end := start + windowSize - 1
	if end > totalPage {
		end = totalPage
		start = end - windowSize + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, windowSize)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// PerPageFor computes the per-page value written alongside a page number:
// the full page size everywhere except the last page, where it becomes the
// remainder of totalData, falling back to perPage when the remainder is zero.
func PerPageFor(page, totalPage int, totalData int64, perPage int) int {
	if page != totalPage || perPage <= 0 {
		return perPage
	}
	if r := int(totalData % int64(perPage)); r != 0 {
		return r
	}
	return perPage
}
