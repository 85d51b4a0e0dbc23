// ABOUTME: Client-side input validation for create and update payloads
// ABOUTME: Rejects bad input before any request leaves the process
package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CodeValidation is the error code carried by every ValidationError.
const CodeValidation = "VALIDATION_ERROR"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Code returns CodeValidation so validation errors share the shape of API errors.
func (e *ValidationError) Code() string {
	return CodeValidation
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

type ContactInput struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func (in ContactInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	return nil
}

type InteractionInput struct {
	ContactID string    `json:"contactId"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Duration  *int      `json:"duration,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

func (in InteractionInput) Validate() error {
	if err := required("contactId", in.ContactID); err != nil {
		return err
	}
	if !IsInteractionType(in.Type) {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("must be one of %s", strings.Join(InteractionTypes, ", "))}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	if in.Duration != nil && *in.Duration < 0 {
		return &ValidationError{Field: "duration", Message: "must not be negative"}
	}
	return nil
}

type ReminderInput struct {
	ContactID   string    `json:"contactId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"dueDate"`
}

func (in ReminderInput) Validate() error {
	if err := required("contactId", in.ContactID); err != nil {
		return err
	}
	if err := required("title", in.Title); err != nil {
		return err
	}
	if in.DueDate.IsZero() {
		return &ValidationError{Field: "dueDate", Message: "is required"}
	}
	return nil
}

type NoteInput struct {
	ContactID string `json:"contactId"`
	Content   string `json:"content"`
	Pinned    bool   `json:"pinned,omitempty"`
}

func (in NoteInput) Validate() error {
	if err := required("contactId", in.ContactID); err != nil {
		return err
	}
	return required("content", in.Content)
}

type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

func (in TagInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		return &ValidationError{Field: "color", Message: "must be a hex color like #3b82f6"}
	}
	return nil
}
