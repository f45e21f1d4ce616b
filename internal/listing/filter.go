// Package listing implements the client-side list pattern shared by every
// admin table: fetch, filter, paginate, mutate and resync.
package listing

import "strings"

// Case is the normalization a categorical field uses before comparison
type Case int

const (
	// Upper compares uppercased values; the no-constraint sentinel is "ALL"
	Upper Case = iota
	// Lower compares lowercased values; the no-constraint sentinel is "all"
	Lower
)

func (c Case) normalize(s string) string {
	s = strings.TrimSpace(s)
	if c == Lower {
		return strings.ToLower(s)
	}
	return strings.ToUpper(s)
}

// All returns the sentinel selecting every value
func (c Case) All() string {
	if c == Lower {
		return "all"
	}
	return "ALL"
}

// Category is one enum-valued field that can be filtered on
type Category[T any] struct {
	Name   string
	Value  func(T) string
	Case   Case
	Values []string
}

// Schema describes how a resource is searched and filtered
type Schema[T any] struct {
	// Search returns the strings a free-text query is matched against
	Search     func(T) []string
	Categories []Category[T]
}

// FilterState is the current query and categorical selections
type FilterState struct {
	Query    string
	Selected map[string]string
}

// active returns the normalized selection for cat when it constrains the result
func (s Schema[T]) active(cat Category[T], st FilterState) (string, bool) {
	value, ok := st.Selected[cat.Name]
	if !ok {
		return "", false
	}
	value = cat.Case.normalize(value)
	if value == "" || value == cat.Case.All() {
		return "", false
	}
	return value, true
}

// Category returns the named category
func (s Schema[T]) Category(name string) (Category[T], bool) {
	for _, cat := range s.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category[T]{}, false
}

// Apply returns the records matching every active filter, in their
// original order. records is never modified.
func (s Schema[T]) Apply(records []T, st FilterState) []T {
	query := strings.ToLower(strings.TrimSpace(st.Query))

	type constraint struct {
		cat   Category[T]
		value string
	}
	var constraints []constraint
	for _, cat := range s.Categories {
		if value, ok := s.active(cat, st); ok {
			constraints = append(constraints, constraint{cat: cat, value: value})
		}
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		matched := true
		for _, c := range constraints {
			if c.cat.Case.normalize(c.cat.Value(r)) != c.value {
				matched = false
				break
			}
		}
		if matched && query != "" {
			matched = s.matchesQuery(r, query)
		}
		if matched {
			out = append(out, r)
		}
	}
	return out
}

func (s Schema[T]) matchesQuery(r T, query string) bool {
	if s.Search == nil {
		return false
	}
	for _, candidate := range s.Search(r) {
		if strings.Contains(strings.ToLower(candidate), query) {
			return true
		}
	}
	return false
}
