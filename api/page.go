// ABOUTME: Paginated-or-bare list result returned by collection endpoints
// ABOUTME: The pagination field is the explicit discriminator between the two shapes
package api

import "github.com/harperreed/rolodex/models"

// Page holds a list result. Pagination is nil when the server returned the
// full, unpaginated set.
type Page[T any] struct {
	Items      []T                `json:"items"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// Paginated reports whether the page carries pagination metadata.
func (p Page[T]) Paginated() bool {
	return p.Pagination != nil
}

// HasMore reports whether another page follows this one.
func (p Page[T]) HasMore() bool {
	return p.Pagination != nil && p.Pagination.HasMore
}

func listPage[T any](items []T, meta *models.Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: meta}
}
