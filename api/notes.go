// ABOUTME: Note endpoints of the REST client
// ABOUTME: CRUD plus the PATCH pin toggle
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/rolodex/models"
)

// ListNotes returns a contact's notes, or every note when contactID is empty.
func (c *Client) ListNotes(ctx context.Context, contactID string) ([]models.Note, error) {
	params := url.Values{}
	if contactID != "" {
		params.Set("contactId", contactID)
	}
	notes, _, err := get[[]models.Note](ctx, c, "/notes", params)
	if notes == nil && err == nil {
		notes = []models.Note{}
	}
	return notes, err
}

func (c *Client) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Note](ctx, c, http.MethodPost, "/notes", in)
}

func (c *Client) UpdateNote(ctx context.Context, id string, in models.NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Note](ctx, c, http.MethodPut, "/notes/"+escape(id), in)
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := send[struct{}](ctx, c, http.MethodDelete, "/notes/"+escape(id), nil)
	return err
}

type pinBody struct {
	Pinned bool `json:"pinned"`
}

func (c *Client) SetNotePinned(ctx context.Context, id string, pinned bool) (*models.Note, error) {
	return send[*models.Note](ctx, c, http.MethodPatch, "/notes/"+escape(id)+"/pin", pinBody{Pinned: pinned})
}
