// ABOUTME: HTTP handlers for the fake backend's /api routes
// ABOUTME: Each handler locks the server, mutates or reads its slices, and writes an envelope
package crmtest

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/harperreed/rolodex/models"
)

const codeValidation = "VALIDATION_ERROR"

type validator interface {
	Validate() error
}

// decodeInput reads a JSON body into dst and validates it, writing a 400 on failure.
func decodeInput(w http.ResponseWriter, r *http.Request, dst validator) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		fail(w, http.StatusBadRequest, codeValidation, "malformed body: "+err.Error())
		return false
	}
	if err := dst.Validate(); err != nil {
		fail(w, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

func notFound(w http.ResponseWriter, what string) {
	fail(w, http.StatusNotFound, "NOT_FOUND", what+" not found")
}

// Contacts

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	items, meta := paginate(s.filterContacts(q), q)
	out := make([]joinedContact, 0, len(items))
	for _, c := range items {
		out = append(out, s.joinedView(c))
	}
	okPage(w, out, meta)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.contactIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "contact")
		return
	}
	view := s.contactView(s.contacts[i])
	for _, in := range s.interactions {
		if in.ContactID == view.ID && (view.LastInteractionAt == nil || in.Date.After(*view.LastInteractionAt)) {
			d := in.Date
			view.LastInteractionAt = &d
		}
	}
	ok(w, http.StatusOK, view)
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := models.Contact{ID: newID(), CreatedAt: now, UpdatedAt: now}
	applyContact(&c, in)
	s.contacts = append(s.contacts, c)
	ok(w, http.StatusCreated, s.contactView(c))
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	var in models.ContactInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.contactIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "contact")
		return
	}
	applyContact(&s.contacts[i], in)
	s.contacts[i].UpdatedAt = s.now()
	ok(w, http.StatusOK, s.contactView(s.contacts[i]))
}

func applyContact(c *models.Contact, in models.ContactInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = in.Email
	c.Phone = in.Phone
	c.Company = in.Company
	c.JobTitle = in.JobTitle
	c.Location = in.Location
	c.Notes = in.Notes
}

// deleteContact removes the contact with its interactions, reminders, notes, and tag links.
func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	i := s.contactIndex(id)
	if i < 0 {
		notFound(w, "contact")
		return
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	s.interactions = slices.DeleteFunc(s.interactions, func(x models.Interaction) bool { return x.ContactID == id })
	s.reminders = slices.DeleteFunc(s.reminders, func(x models.Reminder) bool { return x.ContactID == id })
	s.notes = slices.DeleteFunc(s.notes, func(x models.Note) bool { return x.ContactID == id })
	delete(s.contactTags, id)
	w.WriteHeader(http.StatusNoContent)
}

type tagBody struct {
	TagID string `json:"tagId"`
}

func (s *Server) addContactTag(w http.ResponseWriter, r *http.Request) {
	var body tagBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TagID == "" {
		fail(w, http.StatusBadRequest, codeValidation, "tagId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if s.contactIndex(id) < 0 {
		notFound(w, "contact")
		return
	}
	if _, found := s.tagByID(body.TagID); !found {
		notFound(w, "tag")
		return
	}
	s.linkTag(id, body.TagID)
	ok(w, http.StatusCreated, s.tagLinks(id))
}

func (s *Server) removeContactTag(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if s.contactIndex(id) < 0 {
		notFound(w, "contact")
		return
	}
	tagID := chi.URLParam(r, "tagID")
	s.contactTags[id] = slices.DeleteFunc(s.contactTags[id], func(t string) bool { return t == tagID })
	ok(w, http.StatusOK, s.tagLinks(id))
}

// tagLinks returns the contact's tags as join records, the shape the tag endpoints use.
func (s *Server) tagLinks(contactID string) []models.TagLink {
	links := []models.TagLink{}
	for _, t := range s.contactTagList(contactID) {
		links = append(links, models.TagLink{ContactID: contactID, TagID: t.ID, Tag: t})
	}
	return links
}

// Interactions

func (s *Server) listInteractions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	items, meta := paginate(s.filterInteractions(q), q)
	okPage(w, nonNil(items), meta)
}

func (s *Server) createInteraction(w http.ResponseWriter, r *http.Request) {
	var in models.InteractionInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contactIndex(in.ContactID) < 0 {
		notFound(w, "contact")
		return
	}
	now := s.now()
	i := models.Interaction{ID: newID(), CreatedAt: now, UpdatedAt: now}
	applyInteraction(&i, in)
	s.interactions = append(s.interactions, i)
	i.Contact = s.contactRef(i.ContactID)
	ok(w, http.StatusCreated, i)
}

func (s *Server) updateInteraction(w http.ResponseWriter, r *http.Request) {
	var in models.InteractionInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	i := slices.IndexFunc(s.interactions, func(x models.Interaction) bool { return x.ID == id })
	if i < 0 {
		notFound(w, "interaction")
		return
	}
	applyInteraction(&s.interactions[i], in)
	s.interactions[i].UpdatedAt = s.now()
	out := s.interactions[i]
	out.Contact = s.contactRef(out.ContactID)
	ok(w, http.StatusOK, out)
}

func applyInteraction(i *models.Interaction, in models.InteractionInput) {
	i.ContactID = in.ContactID
	i.Type = in.Type
	i.Date = in.Date
	i.Duration = in.Duration
	i.Summary = in.Summary
	i.Notes = in.Notes
}

func (s *Server) deleteInteraction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	before := len(s.interactions)
	s.interactions = slices.DeleteFunc(s.interactions, func(x models.Interaction) bool { return x.ID == id })
	if len(s.interactions) == before {
		notFound(w, "interaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reminders

func (s *Server) listReminders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	items, meta := paginate(s.filterReminders(q), q)
	okPage(w, nonNil(items), meta)
}

func (s *Server) createReminder(w http.ResponseWriter, r *http.Request) {
	var in models.ReminderInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contactIndex(in.ContactID) < 0 {
		notFound(w, "contact")
		return
	}
	now := s.now()
	rem := models.Reminder{
		ID:          newID(),
		ContactID:   in.ContactID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.reminders = append(s.reminders, rem)
	rem.Contact = s.contactRef(rem.ContactID)
	ok(w, http.StatusCreated, rem)
}

func (s *Server) updateReminder(w http.ResponseWriter, r *http.Request) {
	var in models.ReminderInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "reminder")
		return
	}
	rem := &s.reminders[i]
	rem.ContactID = in.ContactID
	rem.Title = in.Title
	rem.Description = in.Description
	rem.DueDate = in.DueDate
	rem.UpdatedAt = s.now()

	out := *rem
	out.Contact = s.contactRef(out.ContactID)
	ok(w, http.StatusOK, out)
}

type completeBody struct {
	Completed bool `json:"completed"`
}

func (s *Server) completeReminder(w http.ResponseWriter, r *http.Request) {
	var body completeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, codeValidation, "malformed body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "reminder")
		return
	}
	now := s.now()
	rem := &s.reminders[i]
	rem.Completed = body.Completed
	rem.CompletedAt = nil
	if body.Completed {
		rem.CompletedAt = &now
	}
	rem.UpdatedAt = now

	out := *rem
	out.Contact = s.contactRef(out.ContactID)
	ok(w, http.StatusOK, out)
}

func (s *Server) deleteReminder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.reminderIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "reminder")
		return
	}
	s.reminders = slices.Delete(s.reminders, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reminderIndex(id string) int {
	return slices.IndexFunc(s.reminders, func(x models.Reminder) bool { return x.ID == id })
}

// Notes

// listNotes returns pinned notes first, newest first within each group.
func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contactID := r.URL.Query().Get("contactId")
	out := []models.Note{}
	for _, n := range s.notes {
		if contactID == "" || n.ContactID == contactID {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	ok(w, http.StatusOK, out)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contactIndex(in.ContactID) < 0 {
		notFound(w, "contact")
		return
	}
	now := s.now()
	n := models.Note{
		ID:        newID(),
		ContactID: in.ContactID,
		Content:   in.Content,
		Pinned:    in.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.notes = append(s.notes, n)
	ok(w, http.StatusCreated, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "note")
		return
	}
	s.notes[i].Content = in.Content
	s.notes[i].Pinned = in.Pinned
	s.notes[i].UpdatedAt = s.now()
	ok(w, http.StatusOK, s.notes[i])
}

type pinBody struct {
	Pinned bool `json:"pinned"`
}

func (s *Server) pinNote(w http.ResponseWriter, r *http.Request) {
	var body pinBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, codeValidation, "malformed body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "note")
		return
	}
	s.notes[i].Pinned = body.Pinned
	s.notes[i].UpdatedAt = s.now()
	ok(w, http.StatusOK, s.notes[i])
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(chi.URLParam(r, "id"))
	if i < 0 {
		notFound(w, "note")
		return
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) noteIndex(id string) int {
	return slices.IndexFunc(s.notes, func(x models.Note) bool { return x.ID == id })
}

// Tags

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		t.ContactCount = 0
		for _, ids := range s.contactTags {
			if slices.Contains(ids, t.ID) {
				t.ContactCount++
			}
		}
		out = append(out, t)
	}
	slices.SortStableFunc(out, func(a, b models.Tag) int { return compareFold(a.Name, b.Name) })
	ok(w, http.StatusOK, out)
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tagNameTaken(in.Name, "") {
		fail(w, http.StatusBadRequest, codeValidation, "a tag named "+strconv.Quote(in.Name)+" already exists")
		return
	}
	t := models.Tag{ID: newID(), Name: in.Name, Color: in.Color}
	if t.Color == "" {
		t.Color = models.DefaultTagColor
	}
	s.tags = append(s.tags, t)
	ok(w, http.StatusCreated, t)
}

func (s *Server) updateTag(w http.ResponseWriter, r *http.Request) {
	var in models.TagInput
	if !decodeInput(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	i := slices.IndexFunc(s.tags, func(t models.Tag) bool { return t.ID == id })
	if i < 0 {
		notFound(w, "tag")
		return
	}
	if s.tagNameTaken(in.Name, id) {
		fail(w, http.StatusBadRequest, codeValidation, "a tag named "+strconv.Quote(in.Name)+" already exists")
		return
	}
	s.tags[i].Name = in.Name
	if in.Color != "" {
		s.tags[i].Color = in.Color
	}
	ok(w, http.StatusOK, s.tags[i])
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	i := slices.IndexFunc(s.tags, func(t models.Tag) bool { return t.ID == id })
	if i < 0 {
		notFound(w, "tag")
		return
	}
	s.tags = slices.Delete(s.tags, i, i+1)
	for contactID, ids := range s.contactTags {
		s.contactTags[contactID] = slices.DeleteFunc(ids, func(t string) bool { return t == id })
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) tagNameTaken(name, exceptID string) bool {
	for _, t := range s.tags {
		if t.ID != exceptID && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// Search

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		fail(w, http.StatusBadRequest, codeValidation, "q is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.searchAll(term, limit)
	if results == nil {
		results = []models.SearchResult{}
	}
	ok(w, http.StatusOK, models.SearchResponse{
		Query:        term,
		TotalResults: len(results),
		Results:      results,
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
