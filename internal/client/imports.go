package client

import (
	"context"

	"github.com/foxzi/lure/internal/models"
)

// ImportEmail converts a raw RFC 822 message into template fields
func (c *Client) ImportEmail(ctx context.Context, req models.ImportEmailRequest) *Future[models.ImportEmailResponse] {
	return call[models.ImportEmailResponse](ctx, c, ImportEmail, nil, req)
}

// ImportSite clones a remote page for use as a landing page
func (c *Client) ImportSite(ctx context.Context, req models.CloneSiteRequest) *Future[models.CloneSiteResponse] {
	return call[models.CloneSiteResponse](ctx, c, ImportSite, nil, req)
}
