// ABOUTME: Data models for CRM entities as the REST backend returns them
// ABOUTME: Defines Contact, Interaction, Reminder, Note, Tag, and pagination/search shapes
package models

import (
	"time"
)

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      TagList   `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Derived by the server; only present on some endpoints.
	LastInteractionAt *time.Time `json:"lastInteractionAt,omitempty"`
	ReminderCount     int        `json:"reminderCount,omitempty"`
}

type Interaction struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contactId"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Duration  *int      `json:"duration,omitempty"` // minutes
	Summary   string    `json:"summary,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Contact *ContactRef `json:"contact,omitempty"`
}

type Reminder struct {
	ID          string     `json:"id"`
	ContactID   string     `json:"contactId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Contact *ContactRef `json:"contact,omitempty"`
}

type Note struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contactId"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Tag struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	ContactCount int    `json:"contactCount,omitempty"`
}

// TagLink is the join record some endpoints return instead of a flat tag.
type TagLink struct {
	ContactID string `json:"contactId"`
	TagID     string `json:"tagId"`
	Tag       Tag    `json:"tag"`
}

// ContactRef is the abbreviated contact embedded in interactions and reminders.
type ContactRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InteractionType constants.
const (
	InteractionCall    = "call"
	InteractionEmail   = "email"
	InteractionMeeting = "meeting"
	InteractionMessage = "message"
	InteractionEvent   = "event"
	InteractionOther   = "other"
)

// InteractionTypes lists every interaction type the backend accepts.
var InteractionTypes = []string{
	InteractionCall,
	InteractionEmail,
	InteractionMeeting,
	InteractionMessage,
	InteractionEvent,
	InteractionOther,
}

// IsInteractionType reports whether t is a known interaction type.
func IsInteractionType(t string) bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultTagColor is used when a tag has no color of its own.
const DefaultTagColor = "#6b7280"

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// SearchResult is one hit from the free-text search endpoint.
type SearchResult struct {
	ID             string    `json:"id"`
	EntityType     string    `json:"entityType"`
	Title          string    `json:"title"`
	Preview        string    `json:"preview"`
	RelevanceScore float64   `json:"relevanceScore"`
	ContactID      string    `json:"contactId,omitempty"`
	ContactName    string    `json:"contactName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Query        string         `json:"query"`
	TotalResults int            `json:"totalResults"`
	Results      []SearchResult `json:"results"`
}

// Search entity type constants as reported in SearchResult.EntityType.
const (
	SearchEntityContact     = "contact"
	SearchEntityInteraction = "interaction"
	SearchEntityReminder    = "reminder"
	SearchEntityNote        = "note"
)
