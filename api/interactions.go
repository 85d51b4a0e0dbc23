// ABOUTME: Interaction endpoints of the REST client
// ABOUTME: Lists, creates, updates, and deletes logged calls, meetings, and messages
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/rolodex/models"
)

func (c *Client) ListInteractions(ctx context.Context, params url.Values) (Page[models.Interaction], error) {
	items, meta, err := get[[]models.Interaction](ctx, c, "/interactions", params)
	if err != nil {
		return Page[models.Interaction]{}, err
	}
	return listPage(items, meta), nil
}

func (c *Client) CreateInteraction(ctx context.Context, in models.InteractionInput) (*models.Interaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Interaction](ctx, c, http.MethodPost, "/interactions", in)
}

func (c *Client) UpdateInteraction(ctx context.Context, id string, in models.InteractionInput) (*models.Interaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Interaction](ctx, c, http.MethodPut, "/interactions/"+escape(id), in)
}

func (c *Client) DeleteInteraction(ctx context.Context, id string) error {
	_, err := send[struct{}](ctx, c, http.MethodDelete, "/interactions/"+escape(id), nil)
	return err
}
