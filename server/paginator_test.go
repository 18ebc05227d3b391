package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPaginatorNumPages(t *testing.T) {
	cases := []struct {
		count, perPage, pages int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{13, 10, 2},
		{25, 10, 3},
		{25, 0, 3},
		{7, 3, 3},
	}
	for _, tc := range cases {
		if got := newPaginator(tc.count, tc.perPage).NumPages(); got != tc.pages {
			t.Errorf("NumPages(%d, %d): expected %d, got %d", tc.count, tc.perPage, tc.pages, got)
		}
	}
}

func TestPaginatorNumber(t *testing.T) {
	pgr := newPaginator(25, 10)
	cases := map[string]int{
		"":     1,
		"1":    1,
		"2":    2,
		"3":    3,
		"4":    3,
		"0":    3,
		"-5":   3,
		"abc":  1,
		"2.5":  1,
		" 2":   1,
		"last": 1,
	}
	for raw, want := range cases {
		if got := pgr.Number(raw); got != want {
			t.Errorf("Number('%s'): expected %d, got %d", raw, want, got)
		}
	}
}

func TestPaginatorWindow(t *testing.T) {
	pgr := newPaginator(25, 10)
	for number, want := range map[int][2]int{1: {10, 0}, 2: {10, 10}, 3: {10, 20}} {
		limit, offset := pgr.Window(number)
		if limit != want[0] || offset != want[1] {
			t.Errorf("Window(%d): expected %v, got [%d %d]", number, want, limit, offset)
		}
	}
}

func TestPage(t *testing.T) {
	pgr := newPaginator(25, 10)

	first := pgr.Page(1, make([]*postView, 10))
	if first.HasPrevious() || !first.HasNext() || !first.HasOtherPages() {
		t.Error("First page: must have next and no previous")
	}
	if first.NextPageNumber() != 2 || first.StartIndex() != 1 || first.EndIndex() != 10 {
		t.Errorf("First page: next %d, start %d, end %d", first.NextPageNumber(), first.StartIndex(), first.EndIndex())
	}

	last := pgr.Page(3, make([]*postView, 5))
	if !last.HasPrevious() || last.HasNext() {
		t.Error("Last page: must have previous and no next")
	}
	if last.PreviousPageNumber() != 2 || last.StartIndex() != 21 || last.EndIndex() != 25 || last.Len() != 5 {
		t.Errorf("Last page: previous %d, start %d, end %d, len %d",
			last.PreviousPageNumber(), last.StartIndex(), last.EndIndex(), last.Len())
	}

	if diff := cmp.Diff([]int{1, 2, 3}, last.PageRange()); diff != "" {
		t.Errorf("PageRange mismatch (-want +got):\n%s", diff)
	}

	empty := newPaginator(0, 10).Page(1, nil)
	if empty.HasOtherPages() || empty.StartIndex() != 0 || empty.EndIndex() != 0 {
		t.Errorf("Empty page: start %d, end %d", empty.StartIndex(), empty.EndIndex())
	}
}
