package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func decodeNumber(raw json.RawMessage) (int, error) {
	var n int
	err := json.Unmarshal(raw, &n)
	return n, err
}

// pagesFetcher serves pages[i] for page i+1; page 0 is the first page.
func pagesFetcher(pages []string, fetched *[]int) PageFetcher {
	return func(page int) (map[string]json.RawMessage, error) {
		*fetched = append(*fetched, page)
		i := max(page, 1) - 1
		if i >= len(pages) {
			return nil, fmt.Errorf("page %d does not exist", page)
		}
		var data map[string]json.RawMessage
		if err := json.Unmarshal([]byte(pages[i]), &data); err != nil {
			return nil, err
		}
		return data, nil
	}
}

func collect(t *testing.T, seq func(func(int, error) bool)) ([]int, error) {
	t.Helper()
	var got []int
	for v, err := range seq {
		if err != nil {
			return got, err
		}
		got = append(got, v)
	}
	return got, nil
}

func page(current, count int, items string) string {
	return `{"paging":{"items_per_page":2,"current_page":` + strconv.Itoa(current) +
		`,"count_pages":` + strconv.Itoa(count) + `,"count_items":5},"items":[` + items + `]}`
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		pages       []string
		want        []int
		wantFetched []int
	}{
		{
			name:        "three pages",
			pages:       []string{page(1, 3, "1,2"), page(2, 3, "3,4"), page(3, 3, "5")},
			want:        []int{1, 2, 3, 4, 5},
			wantFetched: []int{0, 2, 3},
		},
		{
			name:        "no paging block",
			pages:       []string{`{"items":[1,2,3]}`},
			want:        []int{1, 2, 3},
			wantFetched: []int{0},
		},
		{
			name:        "zero page count means one page",
			pages:       []string{page(1, 0, "1")},
			want:        []int{1},
			wantFetched: []int{0},
		},
		{
			name:        "empty listing",
			pages:       []string{page(1, 1, "")},
			want:        nil,
			wantFetched: []int{0},
		},
		{
			name:        "count from first response only",
			pages:       []string{page(1, 2, "1"), page(2, 9, "2")},
			want:        []int{1, 2},
			wantFetched: []int{0, 2},
		},
		{
			name:        "server repeats current page",
			pages:       []string{page(1, 3, "1"), page(1, 3, "2"), page(1, 3, "3")},
			want:        []int{1, 2, 3},
			wantFetched: []int{0, 2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fetched []int
			got, err := collect(t, Paginate(pagesFetcher(tt.pages, &fetched), "items", decodeNumber))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
			if fmt.Sprint(fetched) != fmt.Sprint(tt.wantFetched) {
				t.Errorf("fetched pages = %v, want %v", fetched, tt.wantFetched)
			}
		})
	}
}

func TestPaginateIsLazy(t *testing.T) {
	var fetched []int
	pages := []string{page(1, 3, "1,2"), page(2, 3, "3,4"), page(3, 3, "5")}
	for v, err := range Paginate(pagesFetcher(pages, &fetched), "items", decodeNumber) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v == 1 {
			break
		}
	}
	if len(fetched) != 1 {
		t.Errorf("fetched %v after taking one item, want only the first page", fetched)
	}
}

func TestPaginateStopsOnError(t *testing.T) {
	var fetched []int
	pages := []string{page(1, 3, "1,2")}
	got, err := collect(t, Paginate(pagesFetcher(pages, &fetched), "items", decodeNumber))
	if err == nil {
		t.Fatal("expected error from missing page 2")
	}
	if fmt.Sprint(got) != "[1 2]" {
		t.Errorf("items before error = %v", got)
	}

	errs := 0
	for _, err := range Paginate(pagesFetcher(pages, &fetched), "items", decodeNumber) {
		if err != nil {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("error yielded %d times, want 1", errs)
	}
}

func TestPaginateMissingKey(t *testing.T) {
	var fetched []int
	_, err := collect(t, Paginate(pagesFetcher([]string{`{"other":[]}`}, &fetched), "items", decodeNumber))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if decErr.Field != "items" {
		t.Errorf("Field = %q, want %q", decErr.Field, "items")
	}
}

func TestIterCustomersPages(t *testing.T) {
	f := newFakeCaller()
	f.routes["GET /v2/customers"] = func(p Params) string {
		if p["page"] == 2 {
			return `{"paging":{"items_per_page":1,"current_page":2,"count_pages":2,"count_items":2},"customers":[` + globexJSON + `]}`
		}
		return `{"paging":{"items_per_page":1,"current_page":1,"count_pages":2,"count_items":2},"customers":[` + acmeJSON + `]}`
	}
	c := New(f)

	var names []string
	for cu, err := range c.IterCustomers(CustomerFilter{Active: Some(true)}) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names = append(names, cu.Name)
	}
	if fmt.Sprint(names) != "[Acme Globex]" {
		t.Errorf("names = %v", names)
	}
	if p := f.calls[0].params; p["filter[active]"] != "1" {
		t.Errorf("first request params = %v", p)
	}
	if _, ok := f.calls[0].params["page"]; ok {
		t.Error("first request should not name a page")
	}
}

func TestListCustomersPage(t *testing.T) {
	f := newFakeCaller()
	f.on("GET", "/v2/customers", `{"paging":{"items_per_page":50,"current_page":2,"count_pages":4,"count_items":170},"customers":[`+acmeJSON+`]}`)
	c := New(f)

	p, err := c.ListCustomers(CustomerFilter{}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Items) != 1 || p.Items[0].ID != 7 {
		t.Errorf("items = %v", p.Items)
	}
	if p.Paging == nil || p.Paging.CountPages != 4 || p.Paging.CurrentPage != 2 {
		t.Errorf("paging = %+v", p.Paging)
	}
	if f.calls[0].params["page"] != 2 {
		t.Errorf("page param = %v", f.calls[0].params["page"])
	}
}
