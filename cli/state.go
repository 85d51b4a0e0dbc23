// ABOUTME: Builds a query state from --location plus individual filter flags
// ABOUTME: Flags the user actually set override whatever the location said
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/rolodex/query"
)

// viewFlags are the flags every collection list command shares.
type viewFlags struct {
	location string
	search   string
	sortBy   string
	order    string
	page     int
	pageSize int
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.location, "location", "", `Start from a saved location, e.g. "?company=Acme&sortBy=email"`)
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Free-text search (2+ characters; replaces filters)")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort field")
	cmd.Flags().StringVar(&f.order, "order", "", "Sort order: asc or desc")
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number (enables pagination)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Page size (defaults to the configured page size)")
}

// base decodes --location, or returns the entity's default state.
func (f *viewFlags) base(e query.Entity) query.State {
	return query.ParseLocation(e, f.location)
}

// apply layers the common flags over s. Call it after the command's own filter
// flags so an explicit --page survives the page reset filters cause.
func (f *viewFlags) apply(cmd *cobra.Command, s query.State, defaultPageSize int) (query.State, error) {
	e := s.Entity
	changed := cmd.Flags().Changed

	if changed("sort") || changed("order") {
		field, order := s.Sort.Field, s.Sort.Order
		if changed("sort") {
			if !query.ValidSortField(e, f.sortBy) {
				return s, fmt.Errorf("cannot sort %s by %q (choose from %s)", e, f.sortBy, strings.Join(query.SortFields(e), ", "))
			}
			field = f.sortBy
		}
		if changed("order") {
			order = query.Order(strings.ToLower(f.order))
			if order != query.Asc && order != query.Desc {
				return s, fmt.Errorf("--order must be asc or desc")
			}
		}
		s = s.WithSort(field, order)
	}
	if changed("search") {
		s = s.WithSearch(f.search)
	}
	if changed("page") || changed("page-size") {
		page, size := s.Page, s.PageSize
		if changed("page") {
			page = f.page
		}
		if changed("page-size") {
			size = f.pageSize
		}
		if page > 0 && size <= 0 {
			size = defaultPageSize
		}
		if size > 0 && page <= 0 {
			page = 1
		}
		s = s.WithPage(page, size)
	}
	return s, nil
}

func parseDay(flag, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(query.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must look like 2006-01-02: %w", flag, err)
	}
	return t, nil
}

// parseWhen accepts a calendar date or an RFC 3339 timestamp.
func parseWhen(flag, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(query.DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a date (2006-01-02) or timestamp (RFC 3339)", flag)
	}
	return t, nil
}
