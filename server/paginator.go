// Splitting post listings into pages.

package main

import (
	"strconv"
)

// Paginator splits a listing of count items into pages of perPage items.
type Paginator struct {
	count   int
	perPage int
}

func newPaginator(count, perPage int) *Paginator {
	if perPage <= 0 {
		perPage = defaultPostsPerPage
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{count: count, perPage: perPage}
}

// NumPages is the total number of pages. An empty listing still has one page.
func (p *Paginator) NumPages() int {
	if p.count == 0 {
		return 1
	}
	return (p.count + p.perPage - 1) / p.perPage
}

// Number resolves the page number from the 'page' query parameter: a value which is
// not an integer gives the first page, an integer out of range gives the last page.
func (p *Paginator) Number(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > p.NumPages() {
		return p.NumPages()
	}
	return n
}

// Window returns limit and offset of the given page in the listing.
func (p *Paginator) Window(number int) (limit, offset int) {
	return p.perPage, (number - 1) * p.perPage
}

// Page wraps items of the given page.
func (p *Paginator) Page(number int, items []*postView) *Page {
	return &Page{
		Items:    items,
		Number:   number,
		NumPages: p.NumPages(),
		Count:    p.count,
		perPage:  p.perPage,
	}
}

// Page is a single page of a listing.
type Page struct {
	// Posts on this page.
	Items []*postView
	// 1-based number of this page.
	Number int
	// Total number of pages.
	NumPages int
	// Total number of items in the listing.
	Count int

	perPage int
}

func (pg *Page) HasNext() bool {
	return pg.Number < pg.NumPages
}

func (pg *Page) HasPrevious() bool {
	return pg.Number > 1
}

func (pg *Page) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg *Page) NextPageNumber() int {
	return pg.Number + 1
}

func (pg *Page) PreviousPageNumber() int {
	return pg.Number - 1
}

// PageRange lists numbers of all pages.
func (pg *Page) PageRange() []int {
	rng := make([]int, pg.NumPages)
	for i := range rng {
		rng[i] = i + 1
	}
	return rng
}

// StartIndex is the 1-based index of the first item on the page, 0 if the listing is empty.
func (pg *Page) StartIndex() int {
	if pg.Count == 0 {
		return 0
	}
	return (pg.Number-1)*pg.perPage + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (pg *Page) EndIndex() int {
	if pg.Number == pg.NumPages {
		return pg.Count
	}
	return pg.Number * pg.perPage
}

// Len is the number of items on the page.
func (pg *Page) Len() int {
	return len(pg.Items)
}
