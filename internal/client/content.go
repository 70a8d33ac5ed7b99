package client

import (
	"context"

	"github.com/foxzi/lure/internal/models"
)

func (c *Client) Templates(ctx context.Context) *Future[[]models.Template] {
	return call[[]models.Template](ctx, c, TemplatesList, nil, nil)
}

func (c *Client) Template(ctx context.Context, id int64) *Future[models.Template] {
	return call[models.Template](ctx, c, TemplateGet, id, nil)
}

// SaveTemplate creates t when it has no id and updates it otherwise
func (c *Client) SaveTemplate(ctx context.Context, t models.Template) *Future[models.Template] {
	if t.ID == 0 {
		return call[models.Template](ctx, c, TemplatesCreate, nil, t)
	}
	return call[models.Template](ctx, c, TemplateUpdate, t.ID, t)
}

func (c *Client) DeleteTemplate(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, TemplateDelete, id, nil)
}

func (c *Client) Pages(ctx context.Context) *Future[[]models.Page] {
	return call[[]models.Page](ctx, c, PagesList, nil, nil)
}

func (c *Client) Page(ctx context.Context, id int64) *Future[models.Page] {
	return call[models.Page](ctx, c, PageGet, id, nil)
}

// SavePage creates p when it has no id and updates it otherwise
func (c *Client) SavePage(ctx context.Context, p models.Page) *Future[models.Page] {
	if p.ID == 0 {
		return call[models.Page](ctx, c, PagesCreate, nil, p)
	}
	return call[models.Page](ctx, c, PageUpdate, p.ID, p)
}

func (c *Client) DeletePage(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, PageDelete, id, nil)
}
