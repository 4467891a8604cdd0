package api

import (
	"encoding/json"
	"iter"
	"net/http"
)

// Paging is the paging block a list endpoint may include in its response.
type Paging struct {
	ItemsPerPage int `json:"items_per_page"`
	CurrentPage  int `json:"current_page"`
	CountPages   int `json:"count_pages"`
	CountItems   int `json:"count_items"`
}

// Page is one page of a listing. Paging is nil for endpoints that return
// everything at once.
type Page[T any] struct {
	Items  []T
	Paging *Paging
}

// PageFetcher fetches one page of a listing. Page 0 asks for the server's
// default first page.
type PageFetcher func(page int) (map[string]json.RawMessage, error)

// Paginate walks every page of a listing lazily. The next page is fetched
// only once the consumer has taken every item of the current one, so
// breaking out of the loop early stops fetching.
//
// The page count is read from the first response only. A count of 0 is
// treated as 1. A response without a paging block is a complete, single
// page. The first error (transport or decode) is yielded once and ends the
// sequence.
func Paginate[T any](fetch PageFetcher, key string, decode func(json.RawMessage) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		data, err := fetch(0)
		if err != nil {
			yield(zero, err)
			return
		}
		items, paging, err := extractPage(data, key)
		if err != nil {
			yield(zero, err)
			return
		}

		current, total := 1, 1
		if paging != nil {
			current = max(paging.CurrentPage, 1)
			total = max(paging.CountPages, 1)
		}

		for {
			for _, raw := range items {
				v, err := decode(raw)
				if err != nil {
					yield(zero, err)
					return
				}
				if !yield(v, nil) {
					return
				}
			}
			if paging == nil || current >= total {
				return
			}

			next := current + 1
			data, err = fetch(next)
			if err != nil {
				yield(zero, err)
				return
			}
			items, paging, err = extractPage(data, key)
			if err != nil {
				yield(zero, err)
				return
			}
			// Always advance, whatever the server claims the page is.
			current = next
			if paging != nil && paging.CurrentPage > next {
				current = paging.CurrentPage
			}
		}
	}
}

// extractPage returns the raw items under key and the paging block, if any.
func extractPage(data map[string]json.RawMessage, key string) ([]json.RawMessage, *Paging, error) {
	itemsRaw, ok := data[key]
	if !ok {
		return nil, nil, &DecodeError{Entity: "page", Field: key, Err: errMissing}
	}
	var items []json.RawMessage
	if !isNull(itemsRaw) {
		if err := json.Unmarshal(itemsRaw, &items); err != nil {
			return nil, nil, &DecodeError{Entity: "page", Field: key, Err: err}
		}
	}

	pagingRaw, ok := data["paging"]
	if !ok || isNull(pagingRaw) {
		return items, nil, nil
	}
	var p Paging
	if err := json.Unmarshal(pagingRaw, &p); err != nil {
		return nil, nil, &DecodeError{Entity: "page", Field: "paging", Err: err}
	}
	return items, &p, nil
}

// collectPage decodes one fetched page.
func collectPage[T any](data map[string]json.RawMessage, key string, decode func(json.RawMessage) (T, error)) (*Page[T], error) {
	items, paging, err := extractPage(data, key)
	if err != nil {
		return nil, err
	}
	page := &Page[T]{Items: make([]T, 0, len(items)), Paging: paging}
	for _, raw := range items {
		v, err := decode(raw)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, v)
	}
	return page, nil
}

// lister returns a PageFetcher for a GET list endpoint whose query depends
// on the page number.
func (c *Client) lister(path string, params func(page int) (Params, error)) PageFetcher {
	return func(page int) (map[string]json.RawMessage, error) {
		p, err := params(page)
		if err != nil {
			return nil, err
		}
		var raw map[string]json.RawMessage
		if err := c.http.Call(http.MethodGet, path, p, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
}

// listPage fetches and decodes a single page.
func listPage[T any](fetch PageFetcher, page int, key string, decode func(json.RawMessage) (T, error)) (*Page[T], error) {
	data, err := fetch(page)
	if err != nil {
		return nil, err
	}
	return collectPage(data, key, decode)
}
