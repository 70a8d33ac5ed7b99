package client

import (
	"context"

	"github.com/foxzi/lure/internal/models"
)

func (c *Client) Users(ctx context.Context) *Future[[]models.User] {
	return call[[]models.User](ctx, c, UsersList, nil, nil)
}

func (c *Client) User(ctx context.Context, id int64) *Future[models.User] {
	return call[models.User](ctx, c, UserGet, id, nil)
}

// SaveUser creates u when it has no id and updates it otherwise
func (c *Client) SaveUser(ctx context.Context, u models.User) *Future[models.User] {
	if u.ID == 0 {
		return call[models.User](ctx, c, UsersCreate, nil, u)
	}
	return call[models.User](ctx, c, UserUpdate, u.ID, u)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, UserDelete, id, nil)
}

func (c *Client) Webhooks(ctx context.Context) *Future[[]models.Webhook] {
	return call[[]models.Webhook](ctx, c, WebhooksList, nil, nil)
}

func (c *Client) Webhook(ctx context.Context, id int64) *Future[models.Webhook] {
	return call[models.Webhook](ctx, c, WebhookGet, id, nil)
}

// SaveWebhook creates w when it has no id and updates it otherwise
func (c *Client) SaveWebhook(ctx context.Context, w models.Webhook) *Future[models.Webhook] {
	if w.ID == 0 {
		return call[models.Webhook](ctx, c, WebhooksCreate, nil, w)
	}
	return call[models.Webhook](ctx, c, WebhookUpdate, w.ID, w)
}

func (c *Client) DeleteWebhook(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, WebhookDelete, id, nil)
}

// PingWebhook makes the server send a test event to the webhook
func (c *Client) PingWebhook(ctx context.Context, id int64) *Future[models.Webhook] {
	return call[models.Webhook](ctx, c, WebhookPing, id, nil)
}

// ResetAPIKey issues a new API key for the current user. The session keeps
// the old key; callers must store the returned one themselves.
func (c *Client) ResetAPIKey(ctx context.Context) *Future[models.Response] {
	return call[models.Response](ctx, c, ResetAPIKey, nil, nil)
}
