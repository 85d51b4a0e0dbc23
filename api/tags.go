// ABOUTME: Tag endpoints of the REST client
// ABOUTME: Tags carry server-derived contact counts, so any contact change can stale them
package api

import (
	"context"
	"net/http"

	"github.com/harperreed/rolodex/models"
)

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, _, err := get[models.TagList](ctx, c, "/tags", nil)
	if tags == nil && err == nil {
		tags = models.TagList{}
	}
	return tags, err
}

func (c *Client) CreateTag(ctx context.Context, in models.TagInput) (*models.Tag, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Tag](ctx, c, http.MethodPost, "/tags", in)
}

func (c *Client) UpdateTag(ctx context.Context, id string, in models.TagInput) (*models.Tag, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Tag](ctx, c, http.MethodPut, "/tags/"+escape(id), in)
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	_, err := send[struct{}](ctx, c, http.MethodDelete, "/tags/"+escape(id), nil)
	return err
}
