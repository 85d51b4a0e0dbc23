// ABOUTME: Location-string codec for query state
// ABOUTME: Encodes only non-default values and silently corrects bad input on decode
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/rolodex/models"
)

// Location keys.
const (
	KeyTags                = "tags"
	KeyCompany             = "company"
	KeyCreatedAfter        = "createdAfter"
	KeyCreatedBefore       = "createdBefore"
	KeyHasReminders        = "hasReminders"
	KeyHasOverdueReminders = "hasOverdueReminders"
	KeyContactID           = "contactId"
	KeyType                = "type"
	KeyDateFrom            = "dateFrom"
	KeyDateTo              = "dateTo"
	KeyStatus              = "status"
	KeySortBy              = "sortBy"
	KeySortOrder           = "sortOrder"
	KeySearch              = "q"
	KeyPage                = "page"
	KeyPageSize            = "pageSize"
)

// DateLayout is the calendar-date form used in locations and request parameters.
const DateLayout = "2006-01-02"

const trueValue = "true"

// Encode flattens a state into location parameters. Unset filters and the
// entity's default sort field and order are left out.
func Encode(s State) url.Values {
	v := url.Values{}
	f := s.Filters

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
	setString(v, KeyContactID, f.ContactID)
	setString(v, KeyType, f.Type)
	setDate(v, KeyDateFrom, f.DateFrom)
	setDate(v, KeyDateTo, f.DateTo)
	setString(v, KeyStatus, string(f.Status))

	def := DefaultSort(s.Entity)
	if s.Sort.Field != "" && s.Sort.Field != def.Field {
		v.Set(KeySortBy, s.Sort.Field)
	}
	if s.Sort.Order != "" && s.Sort.Order != def.Order {
		v.Set(KeySortOrder, string(s.Sort.Order))
	}

	if strings.TrimSpace(s.Search) != "" {
		v.Set(KeySearch, s.Search)
	}
	if s.Page > 0 {
		v.Set(KeyPage, strconv.Itoa(s.Page))
	}
	if s.PageSize > 0 {
		v.Set(KeyPageSize, strconv.Itoa(s.PageSize))
	}
	return v
}

// Decode rebuilds a state from location parameters. Values outside an allowed
// set fall back to defaults instead of failing.
func Decode(e Entity, v url.Values) State {
	s := New(e)
	f := &s.Filters

	if raw := v.Get(KeyTags); raw != "" {
		f.Tags = cleanList(strings.Split(raw, ","))
	}
	f.Company = strings.TrimSpace(v.Get(KeyCompany))
	f.CreatedAfter = parseDate(v.Get(KeyCreatedAfter))
	f.CreatedBefore = parseDate(v.Get(KeyCreatedBefore))
	f.HasReminders = parseFlag(v.Get(KeyHasReminders))
	f.HasOverdueReminders = parseFlag(v.Get(KeyHasOverdueReminders))
	if f.HasOverdueReminders {
		f.HasReminders = false
	}
	f.ContactID = strings.TrimSpace(v.Get(KeyContactID))
	if t := v.Get(KeyType); validType(t) {
		f.Type = t
	}
	f.DateFrom = parseDate(v.Get(KeyDateFrom))
	f.DateTo = parseDate(v.Get(KeyDateTo))
	switch st := Status(v.Get(KeyStatus)); st {
	case StatusPending, StatusCompleted:
		f.Status = st
	}

	if field := v.Get(KeySortBy); ValidSortField(e, field) {
		s.Sort.Field = field
	}
	switch o := Order(strings.ToLower(v.Get(KeySortOrder))); o {
	case Asc, Desc:
		s.Sort.Order = o
	}

	if q := v.Get(KeySearch); strings.TrimSpace(q) != "" {
		s.Search = q
	}
	s.Page = parsePositive(v.Get(KeyPage))
	s.PageSize = parsePositive(v.Get(KeyPageSize))
	return s
}

// Location renders the state as a "?key=value" string, or "" for a default state.
func Location(s State) string {
	encoded := Encode(s).Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// ParseLocation decodes a location string. It accepts a bare query, a query
// with a leading "?", or a full URL. Unparseable input yields the default state.
func ParseLocation(e Entity, location string) State {
	location = strings.TrimSpace(location)
	if i := strings.Index(location, "?"); i >= 0 {
		location = location[i+1:]
	}
	v, err := url.ParseQuery(location)
	if err != nil {
		return New(e)
	}
	return Decode(e, v)
}

func setString(v url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		v.Set(key, value)
	}
}

func setDate(v url.Values, key string, t time.Time) {
	if !t.IsZero() {
		v.Set(key, t.Format(DateLayout))
	}
}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		// Accept full timestamps too; only the calendar day is kept.
		ts, tsErr := time.Parse(time.RFC3339, raw)
		if tsErr != nil {
			return time.Time{}
		}
		return truncateDay(ts)
	}
	return t
}

func parseFlag(raw string) bool {
	ok, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && ok
}

func parsePositive(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func validType(t string) bool {
	return models.IsInteractionType(t)
}
