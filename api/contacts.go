// ABOUTME: Contact endpoints of the REST client
// ABOUTME: CRUD plus tag association; tag payloads are normalized while decoding
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/rolodex/models"
)

// ListContacts fetches contacts with structured query parameters (see query.Params).
func (c *Client) ListContacts(ctx context.Context, params url.Values) (Page[models.Contact], error) {
	items, meta, err := get[[]models.Contact](ctx, c, "/contacts", params)
	if err != nil {
		return Page[models.Contact]{}, err
	}
	return listPage(items, meta), nil
}

func (c *Client) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	contact, _, err := get[*models.Contact](ctx, c, "/contacts/"+escape(id), nil)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, &Error{Code: CodeNotFound, Message: "contact not found", Status: http.StatusNotFound}
	}
	return contact, nil
}

func (c *Client) CreateContact(ctx context.Context, in models.ContactInput) (*models.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Contact](ctx, c, http.MethodPost, "/contacts", in)
}

func (c *Client) UpdateContact(ctx context.Context, id string, in models.ContactInput) (*models.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Contact](ctx, c, http.MethodPut, "/contacts/"+escape(id), in)
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	_, err := send[struct{}](ctx, c, http.MethodDelete, "/contacts/"+escape(id), nil)
	return err
}

type addTagBody struct {
	TagID string `json:"tagId"`
}

// AddContactTag attaches a tag and returns the contact's tags afterwards.
func (c *Client) AddContactTag(ctx context.Context, contactID, tagID string) (models.TagList, error) {
	if tagID == "" {
		return nil, &models.ValidationError{Field: "tagId", Message: "is required"}
	}
	return send[models.TagList](ctx, c, http.MethodPost, "/contacts/"+escape(contactID)+"/tags", addTagBody{TagID: tagID})
}

// RemoveContactTag detaches a tag and returns the contact's tags afterwards.
func (c *Client) RemoveContactTag(ctx context.Context, contactID, tagID string) (models.TagList, error) {
	return send[models.TagList](ctx, c, http.MethodDelete, "/contacts/"+escape(contactID)+"/tags/"+escape(tagID), nil)
}
