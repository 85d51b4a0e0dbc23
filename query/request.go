// ABOUTME: Derives backend request parameters and cache keys from query state
// ABOUTME: Structured and search requests are mutually exclusive per state
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Backend query parameter names that differ from location keys.
const (
	ParamLimit     = "limit"
	ParamCompleted = "completed"
)

// DefaultSearchLimit caps search results when the state has no page size.
const DefaultSearchLimit = 50

// Params returns the structured-filter request parameters for the state.
// Sort is always sent; page and limit only when both are set.
func Params(s State) url.Values {
	v := url.Values{}
	f := s.Filters

	switch s.Entity {
	case EntityContacts:
		if len(f.Tags) > 0 {
			v.Set(KeyTags, strings.Join(f.Tags, ","))
		}
		setString(v, KeyCompany, f.Company)
		setDate(v, KeyCreatedAfter, f.CreatedAfter)
		setDate(v, KeyCreatedBefore, f.CreatedBefore)
		if f.HasReminders {
			v.Set(KeyHasReminders, trueValue)
		}
		if f.HasOverdueReminders {
			v.Set(KeyHasOverdueReminders, trueValue)
		}
	case EntityInteractions:
		setString(v, KeyContactID, f.ContactID)
		setString(v, KeyType, f.Type)
		setDate(v, KeyDateFrom, f.DateFrom)
		setDate(v, KeyDateTo, f.DateTo)
	case EntityReminders:
		setString(v, KeyContactID, f.ContactID)
		switch f.Status {
		case StatusPending:
			v.Set(ParamCompleted, "false")
		case StatusCompleted:
			v.Set(ParamCompleted, trueValue)
		}
	}

	sort := s.Sort
	def := DefaultSort(s.Entity)
	if !ValidSortField(s.Entity, sort.Field) {
		sort.Field = def.Field
	}
	if sort.Order != Asc && sort.Order != Desc {
		sort.Order = def.Order
	}
	v.Set(KeySortBy, sort.Field)
	v.Set(KeySortOrder, string(sort.Order))

	if s.Paginated() {
		v.Set(KeyPage, strconv.Itoa(s.Page))
		v.Set(ParamLimit, strconv.Itoa(s.PageSize))
	}
	return v
}

// SearchParams returns the search request parameters, or false when the
// state's search text is below the minimum length.
func SearchParams(s State) (url.Values, bool) {
	if !s.SearchActive() {
		return nil, false
	}
	limit := s.PageSize
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	v := url.Values{}
	v.Set(KeySearch, s.SearchTerm())
	v.Set(ParamLimit, strconv.Itoa(limit))
	return v, true
}

// SearchKeyPrefix starts every cached search result key.
const SearchKeyPrefix = "search"

// CacheKey identifies the state's result set. Structured results share the
// prefix "<entity>-list" and search results the prefix "search", so a
// mutation can invalidate every view of one entity type at once.
func CacheKey(s State) string {
	if v, ok := SearchParams(s); ok {
		return SearchKeyPrefix + "/" + string(s.Entity) + "?" + v.Encode()
	}
	return string(s.Entity) + "-list?" + Params(s).Encode()
}
