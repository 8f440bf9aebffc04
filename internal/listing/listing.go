// Package listing holds the generic sort and pagination helpers shared by
// every list endpoint. They operate on in-memory slices; search filtering
// happens in the repositories (ILIKE) where the data lives.
package listing

import (
	"sort"
)

// Paginate returns the limit-sized window of items starting at offset.
// Out-of-range windows yield an empty slice; an empty page is never an
// error. A non-positive limit means "no limit".
func Paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// SortBy stably sorts items with the given less function, reversed when
// descending is set.
func SortBy[T any](items []T, less func(a, b T) bool, descending bool) {
	if descending {
		sort.SliceStable(items, func(i, j int) bool { return less(items[j], items[i]) })
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// ParseOrder interprets the sort query parameter. Only "asc" and "desc"
// request a sort; anything else leaves stored order untouched.
func ParseOrder(sortParam string) (descending, ok bool) {
	switch sortParam {
	case "asc":
		return false, true
	case "desc":
		return true, true
	default:
		return false, false
	}
}

// Order names a requested sort attribute and direction. Repositories map
// By onto a whitelisted column and fall back to their default when it
// names anything else.
type Order struct {
	By   string
	Desc bool
}

// ParseSort combines the sort and sort_by query parameters into an Order.
// ok is false when the caller requested no explicit order.
func ParseSort(sortParam, sortByParam string) (Order, bool) {
	desc, ok := ParseOrder(sortParam)
	if !ok {
		return Order{}, false
	}
	return Order{By: sortByParam, Desc: desc}, true
}
