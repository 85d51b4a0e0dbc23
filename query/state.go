// ABOUTME: Query state for collection views (contacts, interactions, reminders)
// ABOUTME: Immutable filter, sort, search, and pagination description of what to fetch
package query

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Entity names a collection view.
type Entity string

const (
	EntityContacts     Entity = "contacts"
	EntityInteractions Entity = "interactions"
	EntityReminders    Entity = "reminders"
)

// ParseEntity accepts plural or singular names.
func ParseEntity(s string) (Entity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contacts", "contact":
		return EntityContacts, true
	case "interactions", "interaction", "timeline":
		return EntityInteractions, true
	case "reminders", "reminder":
		return EntityReminders, true
	}
	return "", false
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Sort field constants.
const (
	SortName      = "name"
	SortEmail     = "email"
	SortCompany   = "company"
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortDueDate   = "dueDate"
	SortDate      = "date"
)

type Sort struct {
	Field string
	Order Order
}

var sortFields = map[Entity][]string{
	EntityContacts:     {SortName, SortEmail, SortCompany, SortCreatedAt, SortUpdatedAt},
	EntityReminders:    {SortDueDate},
	EntityInteractions: {SortDate},
}

// DefaultSort returns the sort a view uses when the location says nothing.
func DefaultSort(e Entity) Sort {
	switch e {
	case EntityReminders:
		return Sort{Field: SortDueDate, Order: Asc}
	case EntityInteractions:
		return Sort{Field: SortDate, Order: Desc}
	default:
		return Sort{Field: SortName, Order: Asc}
	}
}

// SortFields returns the allowed sort fields for an entity.
func SortFields(e Entity) []string {
	return slices.Clone(sortFields[e])
}

// ValidSortField reports whether field is sortable for the entity.
func ValidSortField(e Entity, field string) bool {
	return slices.Contains(sortFields[e], field)
}

// Reminder completion filter values. The zero value means all reminders.
type Status string

const (
	StatusAll       Status = ""
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Filters holds structured predicates. Zero values mean "unset".
type Filters struct {
	// contacts
	Tags                []string
	Company             string
	CreatedAfter        time.Time
	CreatedBefore       time.Time
	HasReminders        bool
	HasOverdueReminders bool

	// interactions and reminders
	ContactID string

	// interactions
	Type     string
	DateFrom time.Time
	DateTo   time.Time

	// reminders
	Status Status
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return len(f.Tags) == 0 &&
		f.Company == "" &&
		f.CreatedAfter.IsZero() &&
		f.CreatedBefore.IsZero() &&
		!f.HasReminders &&
		!f.HasOverdueReminders &&
		f.ContactID == "" &&
		f.Type == "" &&
		f.DateFrom.IsZero() &&
		f.DateTo.IsZero() &&
		f.Status == StatusAll
}

// MinSearchLength is the trimmed rune count at which search takes over.
const MinSearchLength = 2

// State is the full description of a collection view. Treat it as a value:
// every With method returns a modified copy.
type State struct {
	Entity   Entity
	Filters  Filters
	Sort     Sort
	Search   string
	Page     int
	PageSize int
}

// New returns the default state for an entity.
func New(e Entity) State {
	return State{Entity: e, Sort: DefaultSort(e)}
}

// SearchActive reports whether the search text is long enough to replace
// structured filtering.
func (s State) SearchActive() bool {
	return utf8.RuneCountInString(strings.TrimSpace(s.Search)) >= MinSearchLength
}

// SearchTerm is the trimmed search text, or "" when search is inactive.
func (s State) SearchTerm() string {
	if !s.SearchActive() {
		return ""
	}
	return strings.TrimSpace(s.Search)
}

// Paginated reports whether both page and page size are set.
func (s State) Paginated() bool {
	return s.Page > 0 && s.PageSize > 0
}

func (s State) clone() State {
	s.Filters.Tags = slices.Clone(s.Filters.Tags)
	return s
}

// WithSearch sets the free-text search. Whitespace-only text clears it.
// Changing the search resets the page.
func (s State) WithSearch(text string) State {
	out := s.clone()
	if strings.TrimSpace(text) == "" {
		text = ""
	}
	if out.Search != text {
		out.Page = resetPage(out)
	}
	out.Search = text
	return out
}

// WithSort sets the sort. An invalid field or order falls back to the default.
func (s State) WithSort(field string, order Order) State {
	out := s.clone()
	def := DefaultSort(s.Entity)
	if !ValidSortField(s.Entity, field) {
		field = def.Field
	}
	if order != Asc && order != Desc {
		order = def.Order
	}
	out.Sort = Sort{Field: field, Order: order}
	return out
}

// WithTags replaces the tag filter, dropping blanks and duplicates.
func (s State) WithTags(ids ...string) State {
	out := s.clone()
	out.Filters.Tags = cleanList(ids)
	out.Page = resetPage(out)
	return out
}

// ToggleTag adds the tag to the filter, or removes it if already present.
func (s State) ToggleTag(id string) State {
	out := s.clone()
	if i := slices.Index(out.Filters.Tags, id); i >= 0 {
		out.Filters.Tags = slices.Delete(out.Filters.Tags, i, i+1)
	} else if strings.TrimSpace(id) != "" {
		out.Filters.Tags = append(out.Filters.Tags, strings.TrimSpace(id))
	}
	if len(out.Filters.Tags) == 0 {
		out.Filters.Tags = nil
	}
	out.Page = resetPage(out)
	return out
}

func (s State) WithCompany(company string) State {
	out := s.clone()
	out.Filters.Company = strings.TrimSpace(company)
	out.Page = resetPage(out)
	return out
}

// WithCreatedRange sets the created-at bounds. Zero times clear a bound.
func (s State) WithCreatedRange(after, before time.Time) State {
	out := s.clone()
	out.Filters.CreatedAfter = truncateDay(after)
	out.Filters.CreatedBefore = truncateDay(before)
	out.Page = resetPage(out)
	return out
}

// WithHasReminders sets the has-reminders flag; setting it clears the overdue flag.
func (s State) WithHasReminders(on bool) State {
	out := s.clone()
	out.Filters.HasReminders = on
	if on {
		out.Filters.HasOverdueReminders = false
	}
	out.Page = resetPage(out)
	return out
}

// WithHasOverdueReminders sets the overdue flag; setting it clears has-reminders.
func (s State) WithHasOverdueReminders(on bool) State {
	out := s.clone()
	out.Filters.HasOverdueReminders = on
	if on {
		out.Filters.HasReminders = false
	}
	out.Page = resetPage(out)
	return out
}

func (s State) WithContact(id string) State {
	out := s.clone()
	out.Filters.ContactID = strings.TrimSpace(id)
	out.Page = resetPage(out)
	return out
}

// WithType sets the interaction type filter. Unknown types clear it.
func (s State) WithType(t string) State {
	out := s.clone()
	if !validType(t) {
		t = ""
	}
	out.Filters.Type = t
	out.Page = resetPage(out)
	return out
}

// WithDateRange sets the interaction date bounds. Zero times clear a bound.
func (s State) WithDateRange(from, to time.Time) State {
	out := s.clone()
	out.Filters.DateFrom = truncateDay(from)
	out.Filters.DateTo = truncateDay(to)
	out.Page = resetPage(out)
	return out
}

// WithStatus sets the reminder completion filter. Unknown values mean all.
func (s State) WithStatus(st Status) State {
	out := s.clone()
	if st != StatusPending && st != StatusCompleted {
		st = StatusAll
	}
	out.Filters.Status = st
	out.Page = resetPage(out)
	return out
}

// WithPage sets pagination. Non-positive values unset the field.
func (s State) WithPage(page, pageSize int) State {
	out := s.clone()
	out.Page = max(page, 0)
	out.PageSize = max(pageSize, 0)
	return out
}

// ClearFilters drops every structured filter, keeping sort, search, and page size.
func (s State) ClearFilters() State {
	out := s.clone()
	out.Filters = Filters{}
	out.Page = resetPage(out)
	return out
}

// Equal compares two states field by field.
func (s State) Equal(o State) bool {
	a, b := s.Filters, o.Filters
	return s.Entity == o.Entity &&
		s.Sort == o.Sort &&
		s.Search == o.Search &&
		s.Page == o.Page &&
		s.PageSize == o.PageSize &&
		slices.Equal(a.Tags, b.Tags) &&
		a.Company == b.Company &&
		a.CreatedAfter.Equal(b.CreatedAfter) &&
		a.CreatedBefore.Equal(b.CreatedBefore) &&
		a.HasReminders == b.HasReminders &&
		a.HasOverdueReminders == b.HasOverdueReminders &&
		a.ContactID == b.ContactID &&
		a.Type == b.Type &&
		a.DateFrom.Equal(b.DateFrom) &&
		a.DateTo.Equal(b.DateTo) &&
		a.Status == b.Status
}

// Filter changes send a paginated view back to its first page.
func resetPage(s State) int {
	if s.Page > 0 {
		return 1
	}
	return 0
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
