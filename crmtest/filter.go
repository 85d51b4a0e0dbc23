// ABOUTME: Filtering, sorting, pagination, and search for the fake backend
// ABOUTME: Mirrors the backend's query parameter semantics closely enough for client tests
package crmtest

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/rolodex/models"
)

const dateLayout = "2006-01-02"

func parseDay(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, raw)
	return t, err == nil
}

// inRange checks t against [from, to] where to covers its whole day.
func inRange(t time.Time, fromRaw, toRaw string) bool {
	if from, ok := parseDay(fromRaw); ok && t.Before(from) {
		return false
	}
	if to, ok := parseDay(toRaw); ok && !t.Before(to.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func descending(q url.Values) bool {
	return strings.EqualFold(q.Get("sortOrder"), "desc")
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

// filterContacts expects s.mu to be held.
func (s *Server) filterContacts(q url.Values) []models.Contact {
	var tagFilter []string
	for _, id := range strings.Split(q.Get("tags"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			tagFilter = append(tagFilter, id)
		}
	}
	company := q.Get("company")
	now := s.now()

	var out []models.Contact
	for _, c := range s.contacts {
		if len(tagFilter) > 0 && !slices.ContainsFunc(tagFilter, func(id string) bool {
			return slices.Contains(s.contactTags[c.ID], id)
		}) {
			continue
		}
		if company != "" && c.Company != company {
			continue
		}
		if !inRange(c.CreatedAt, q.Get("createdAfter"), q.Get("createdBefore")) {
			continue
		}
		if q.Get("hasReminders") == "true" && !s.hasOpenReminder(c.ID, time.Time{}) {
			continue
		}
		if q.Get("hasOverdueReminders") == "true" && !s.hasOpenReminder(c.ID, now) {
			continue
		}
		out = append(out, c)
	}

	var cmp func(a, b models.Contact) int
	switch q.Get("sortBy") {
	case "email":
		cmp = func(a, b models.Contact) int { return compareFold(a.Email, b.Email) }
	case "company":
		cmp = func(a, b models.Contact) int { return compareFold(a.Company, b.Company) }
	case "createdAt":
		cmp = func(a, b models.Contact) int { return compareTime(a.CreatedAt, b.CreatedAt) }
	case "updatedAt":
		cmp = func(a, b models.Contact) int { return compareTime(a.UpdatedAt, b.UpdatedAt) }
	default:
		cmp = func(a, b models.Contact) int { return compareFold(a.Name, b.Name) }
	}
	sortStable(out, cmp, descending(q))
	return out
}

// hasOpenReminder reports an incomplete reminder, due before dueBefore when set.
func (s *Server) hasOpenReminder(contactID string, dueBefore time.Time) bool {
	for _, r := range s.reminders {
		if r.ContactID != contactID || r.Completed {
			continue
		}
		if dueBefore.IsZero() || r.DueDate.Before(dueBefore) {
			return true
		}
	}
	return false
}

func (s *Server) filterInteractions(q url.Values) []models.Interaction {
	var out []models.Interaction
	for _, i := range s.interactions {
		if id := q.Get("contactId"); id != "" && i.ContactID != id {
			continue
		}
		if t := q.Get("type"); t != "" && i.Type != t {
			continue
		}
		if !inRange(i.Date, q.Get("dateFrom"), q.Get("dateTo")) {
			continue
		}
		i.Contact = s.contactRef(i.ContactID)
		out = append(out, i)
	}
	sortStable(out, func(a, b models.Interaction) int { return compareTime(a.Date, b.Date) }, descending(q))
	return out
}

func (s *Server) filterReminders(q url.Values) []models.Reminder {
	var out []models.Reminder
	for _, r := range s.reminders {
		if id := q.Get("contactId"); id != "" && r.ContactID != id {
			continue
		}
		if c := q.Get("completed"); c != "" && strconv.FormatBool(r.Completed) != c {
			continue
		}
		r.Contact = s.contactRef(r.ContactID)
		out = append(out, r)
	}
	sortStable(out, func(a, b models.Reminder) int { return compareTime(a.DueDate, b.DueDate) }, descending(q))
	return out
}

func sortStable[T any](items []T, cmp func(a, b T) int, desc bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
}

// paginate slices items when both page and limit are present.
func paginate[T any](items []T, q url.Values) ([]T, *models.Pagination) {
	page, perr := strconv.Atoi(q.Get("page"))
	limit, lerr := strconv.Atoi(q.Get("limit"))
	if perr != nil || lerr != nil || page < 1 || limit < 1 {
		return items, nil
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	return items[start:end], &models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// searchAll expects s.mu to be held.
func (s *Server) searchAll(term string, limit int) []models.SearchResult {
	term = strings.ToLower(strings.TrimSpace(term))
	match := func(fields ...string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				return true
			}
		}
		return false
	}

	var results []models.SearchResult
	for _, c := range s.contacts {
		if !match(c.Name, c.Email, c.Company) {
			continue
		}
		score := 0.5
		if match(c.Name) {
			score = 1
		}
		results = append(results, models.SearchResult{
			ID: c.ID, EntityType: models.SearchEntityContact, Title: c.Name, Preview: c.Email,
			RelevanceScore: score, ContactID: c.ID, ContactName: c.Name, CreatedAt: c.CreatedAt,
		})
	}
	for _, i := range s.interactions {
		if !match(i.Summary, i.Notes) {
			continue
		}
		ref := s.contactRef(i.ContactID)
		results = append(results, models.SearchResult{
			ID: i.ID, EntityType: models.SearchEntityInteraction, Title: i.Summary, Preview: i.Notes,
			RelevanceScore: 0.7, ContactID: i.ContactID, ContactName: refName(ref), CreatedAt: i.CreatedAt,
		})
	}
	for _, r := range s.reminders {
		if !match(r.Title, r.Description) {
			continue
		}
		ref := s.contactRef(r.ContactID)
		results = append(results, models.SearchResult{
			ID: r.ID, EntityType: models.SearchEntityReminder, Title: r.Title, Preview: r.Description,
			RelevanceScore: 0.6, ContactID: r.ContactID, ContactName: refName(ref), CreatedAt: r.CreatedAt,
		})
	}
	for _, n := range s.notes {
		if !match(n.Content) {
			continue
		}
		ref := s.contactRef(n.ContactID)
		results = append(results, models.SearchResult{
			ID: n.ID, EntityType: models.SearchEntityNote, Title: "Note", Preview: n.Content,
			RelevanceScore: 0.4, ContactID: n.ContactID, ContactName: refName(ref), CreatedAt: n.CreatedAt,
		})
	}

	slices.SortStableFunc(results, func(a, b models.SearchResult) int {
		switch {
		case a.RelevanceScore > b.RelevanceScore:
			return -1
		case a.RelevanceScore < b.RelevanceScore:
			return 1
		}
		return 0
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func refName(ref *models.ContactRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}
