// ABOUTME: Seeding helpers for the fake backend
// ABOUTME: Tests call these directly instead of going through HTTP
package crmtest

import (
	"slices"

	"github.com/harperreed/rolodex/models"
)

// AddContact stores c, assigning an id and timestamps when missing.
func (s *Server) AddContact(c models.Contact) models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	for _, t := range c.Tags {
		s.linkTag(c.ID, t.ID)
	}
	c.Tags = nil
	s.contacts = append(s.contacts, c)
	return s.contactView(c)
}

func (s *Server) AddTag(t models.Tag) models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	t.ContactCount = 0
	s.tags = append(s.tags, t)
	return t
}

// TagContact links an existing tag to an existing contact.
func (s *Server) TagContact(contactID, tagID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.linkTag(contactID, tagID)
}

func (s *Server) AddInteraction(i models.Interaction) models.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == "" {
		i.ID = newID()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = s.now()
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = i.CreatedAt
	}
	s.interactions = append(s.interactions, i)
	return i
}

func (s *Server) AddReminder(r models.Reminder) models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	s.reminders = append(s.reminders, r)
	return r
}

func (s *Server) AddNote(n models.Note) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	s.notes = append(s.notes, n)
	return n
}

// Contact returns the stored contact with flat tags, or false.
func (s *Server) Contact(id string) (models.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.contactIndex(id)
	if i < 0 {
		return models.Contact{}, false
	}
	return s.contactView(s.contacts[i]), true
}

// Reminder returns the stored reminder, or false.
func (s *Server) Reminder(id string) (models.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reminders {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reminder{}, false
}

// Counts reports how many of each entity the fake holds.
func (s *Server) Counts() (contacts, interactions, reminders, notes, tags int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts), len(s.interactions), len(s.reminders), len(s.notes), len(s.tags)
}

// The helpers below expect s.mu to be held.

func (s *Server) linkTag(contactID, tagID string) {
	if tagID == "" || slices.Contains(s.contactTags[contactID], tagID) {
		return
	}
	s.contactTags[contactID] = append(s.contactTags[contactID], tagID)
}

func (s *Server) contactIndex(id string) int {
	return slices.IndexFunc(s.contacts, func(c models.Contact) bool { return c.ID == id })
}

func (s *Server) tagByID(id string) (models.Tag, bool) {
	for _, t := range s.tags {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tag{}, false
}

func (s *Server) contactTagList(contactID string) models.TagList {
	tags := models.TagList{}
	for _, id := range s.contactTags[contactID] {
		if t, ok := s.tagByID(id); ok {
			t.ContactCount = 0
			tags = append(tags, t)
		}
	}
	return tags
}

// contactView returns c with flat tags and derived reminder count.
func (s *Server) contactView(c models.Contact) models.Contact {
	c.Tags = s.contactTagList(c.ID)
	c.ReminderCount = 0
	for _, r := range s.reminders {
		if r.ContactID == c.ID && !r.Completed {
			c.ReminderCount++
		}
	}
	return c
}

// joinedContact is the list-endpoint contact shape with join-record tags.
type joinedContact struct {
	models.Contact
	Tags []models.TagLink `json:"tags"`
}

func (s *Server) joinedView(c models.Contact) joinedContact {
	view := s.contactView(c)
	links := make([]models.TagLink, 0, len(view.Tags))
	for _, t := range view.Tags {
		links = append(links, models.TagLink{ContactID: c.ID, TagID: t.ID, Tag: t})
	}
	view.Tags = nil
	return joinedContact{Contact: view, Tags: links}
}

func (s *Server) contactRef(id string) *models.ContactRef {
	if i := s.contactIndex(id); i >= 0 {
		return &models.ContactRef{ID: id, Name: s.contacts[i].Name}
	}
	return nil
}
