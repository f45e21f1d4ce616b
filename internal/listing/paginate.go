package listing

import "errors"

// ErrPageOutOfRange is returned by Slice for a page outside [1, TotalPages]
var ErrPageOutOfRange = errors.New("page out of range")

// TotalPages is ceil(n/size) with a floor of 1
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp moves page into [1, totalPages]
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice returns items [(page-1)*size, page*size). The caller clamps first.
func Slice[T any](items []T, page, size int) ([]T, error) {
	if size <= 0 {
		return nil, errors.New("page size must be positive")
	}
	if page < 1 || page > TotalPages(len(items), size) {
		return nil, ErrPageOutOfRange
	}
	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end], nil
}

// Page is one rendered window of a filtered collection
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalPages int
	// Filtered is the number of records matching the filters
	Filtered int
}

// HasNext reports whether a later page exists
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// FirstIndex is the 1-based position of the first item, or 0 when empty
func (p Page[T]) FirstIndex() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// LastIndex is the 1-based position of the last item, or 0 when empty
func (p Page[T]) LastIndex() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.FirstIndex() + len(p.Items) - 1
}
