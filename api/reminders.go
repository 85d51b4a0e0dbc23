// ABOUTME: Reminder endpoints of the REST client
// ABOUTME: CRUD plus the PATCH completion toggle
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/rolodex/models"
)

func (c *Client) ListReminders(ctx context.Context, params url.Values) (Page[models.Reminder], error) {
	items, meta, err := get[[]models.Reminder](ctx, c, "/reminders", params)
	if err != nil {
		return Page[models.Reminder]{}, err
	}
	return listPage(items, meta), nil
}

func (c *Client) CreateReminder(ctx context.Context, in models.ReminderInput) (*models.Reminder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Reminder](ctx, c, http.MethodPost, "/reminders", in)
}

func (c *Client) UpdateReminder(ctx context.Context, id string, in models.ReminderInput) (*models.Reminder, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return send[*models.Reminder](ctx, c, http.MethodPut, "/reminders/"+escape(id), in)
}

func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	_, err := send[struct{}](ctx, c, http.MethodDelete, "/reminders/"+escape(id), nil)
	return err
}

type completeBody struct {
	Completed bool `json:"completed"`
}

// SetReminderCompleted marks a reminder done or not done.
func (c *Client) SetReminderCompleted(ctx context.Context, id string, completed bool) (*models.Reminder, error) {
	return send[*models.Reminder](ctx, c, http.MethodPatch, "/reminders/"+escape(id)+"/complete", completeBody{Completed: completed})
}
