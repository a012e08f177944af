package utils

import (
	"errors"
	"strconv"
	"strings"
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"number"`
	NumPages int   `json:"num_pages"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
}

// Paginator resolves a requested page number against a total count.
type Paginator struct {
	Total   int64
	PerPage int
}

func NewPaginator(total int64, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	return Paginator{Total: total, PerPage: perPage}
}

// NumPages is never less than 1: an empty result still has an empty first page.
func (p Paginator) NumPages() int {
	if p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Number parses a raw ?page= value. Missing or non-numeric values mean the
// first page; numbers outside [1, NumPages] clamp to the last page.
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return p.NumPages()
	}
	if err != nil {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}
	return n
}

func (p Paginator) Offset(number int) int {
	return (number - 1) * p.PerPage
}

// Len is the number of items that page number holds.
func (p Paginator) Len(number int) int {
	rest := p.Total - int64(p.Offset(number))
	if rest <= 0 {
		return 0
	}
	if rest > int64(p.PerPage) {
		return p.PerPage
	}
	return int(rest)
}

// NewPage builds a page around items already fetched for number.
func NewPage[T any](p Paginator, number int, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:    items,
		Number:   number,
		NumPages: p.NumPages(),
		PerPage:  p.PerPage,
		Total:    p.Total,
	}
}

func (pg *Page[T]) HasNext() bool     { return pg.Number < pg.NumPages }
func (pg *Page[T]) HasPrevious() bool { return pg.Number > 1 }
func (pg *Page[T]) NextNumber() int   { return pg.Number + 1 }
func (pg *Page[T]) PreviousNumber() int {
	return pg.Number - 1
}

// StartIndex is the 1-based position of the first item on the page.
func (pg *Page[T]) StartIndex() int {
	if pg.Total == 0 {
		return 0
	}
	return (pg.Number-1)*pg.PerPage + 1
}

// Numbers lists every page number, for rendering page links.
func (pg *Page[T]) Numbers() []int {
	out := make([]int, pg.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
