package client

import (
	"context"
	"io"

	"github.com/foxzi/lure/internal/models"
)

// Groups returns every group with its targets
func (c *Client) Groups(ctx context.Context) *Future[[]models.Group] {
	return call[[]models.Group](ctx, c, GroupsList, nil, nil)
}

// GroupSummaries returns groups without targets
func (c *Client) GroupSummaries(ctx context.Context) *Future[models.GroupSummaries] {
	return call[models.GroupSummaries](ctx, c, GroupsSummary, nil, nil)
}

// Group returns one group
func (c *Client) Group(ctx context.Context, id models.GroupID) *Future[models.Group] {
	return call[models.Group](ctx, c, GroupGet, int64(id), nil)
}

// SaveGroup creates g when its id is the new sentinel and replaces it otherwise
func (c *Client) SaveGroup(ctx context.Context, g models.Group) *Future[models.Group] {
	if g.ID.IsNew() {
		g.ID = 0
		return call[models.Group](ctx, c, GroupsCreate, nil, g)
	}
	return call[models.Group](ctx, c, GroupUpdate, int64(g.ID), g)
}

// DeleteGroup removes a group
func (c *Client) DeleteGroup(ctx context.Context, id models.GroupID) *Future[models.Response] {
	return call[models.Response](ctx, c, GroupDelete, int64(id), nil)
}

// ImportGroup uploads a CSV file and returns the targets the server parsed
func (c *Client) ImportGroup(ctx context.Context, filename string, r io.Reader) *Future[[]models.Target] {
	return upload[[]models.Target](ctx, c, ImportGroup, "file", filename, r)
}
