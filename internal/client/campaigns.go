package client

import (
	"context"

	"github.com/foxzi/lure/internal/models"
)

// Campaigns returns every campaign
func (c *Client) Campaigns(ctx context.Context) *Future[[]models.Campaign] {
	return call[[]models.Campaign](ctx, c, CampaignsList, nil, nil)
}

// CampaignSummaries returns campaigns with their stats
func (c *Client) CampaignSummaries(ctx context.Context) *Future[models.CampaignSummaries] {
	return call[models.CampaignSummaries](ctx, c, CampaignsSummary, nil, nil)
}

// CreateCampaign schedules a new campaign
func (c *Client) CreateCampaign(ctx context.Context, camp models.Campaign) *Future[models.Campaign] {
	return call[models.Campaign](ctx, c, CampaignsCreate, nil, camp)
}

// Campaign returns one campaign
func (c *Client) Campaign(ctx context.Context, id int64) *Future[models.Campaign] {
	return call[models.Campaign](ctx, c, CampaignGet, id, nil)
}

// CampaignSummary returns the stats of one campaign
func (c *Client) CampaignSummary(ctx context.Context, id int64) *Future[models.CampaignSummary] {
	return call[models.CampaignSummary](ctx, c, CampaignSummary, id, nil)
}

// CampaignResults returns per-target results and the timeline
func (c *Client) CampaignResults(ctx context.Context, id int64) *Future[models.CampaignResults] {
	return call[models.CampaignResults](ctx, c, CampaignResults, id, nil)
}

// CompleteCampaign stops a running campaign
func (c *Client) CompleteCampaign(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, CampaignComplete, id, nil)
}

// DeleteCampaign removes a campaign with its results
func (c *Client) DeleteCampaign(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, CampaignDelete, id, nil)
}
