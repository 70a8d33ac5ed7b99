package client

import (
	"context"
	"fmt"

	"github.com/foxzi/lure/internal/models"
)

func (c *Client) SendingProfiles(ctx context.Context) *Future[[]models.SMTP] {
	return call[[]models.SMTP](ctx, c, SMTPList, nil, nil)
}

func (c *Client) SendingProfile(ctx context.Context, id int64) *Future[models.SMTP] {
	return call[models.SMTP](ctx, c, SMTPGet, id, nil)
}

// SaveSendingProfile creates s when it has no id and updates it otherwise
func (c *Client) SaveSendingProfile(ctx context.Context, s models.SMTP) *Future[models.SMTP] {
	if s.ID == 0 {
		return call[models.SMTP](ctx, c, SMTPCreate, nil, s)
	}
	return call[models.SMTP](ctx, c, SMTPUpdate, s.ID, s)
}

func (c *Client) DeleteSendingProfile(ctx context.Context, id int64) *Future[models.Response] {
	return call[models.Response](ctx, c, SMTPDelete, id, nil)
}

// SendTestEmail asks the server to deliver one message through the profile in req
func (c *Client) SendTestEmail(ctx context.Context, req models.SendTestEmailRequest) *Future[models.Response] {
	return successful(call[models.Response](ctx, c, SendTestEmail, nil, req), SendTestEmail)
}

// IMAP returns the reporting mailbox settings, one entry per mailbox
func (c *Client) IMAP(ctx context.Context) *Future[[]models.IMAP] {
	return call[[]models.IMAP](ctx, c, IMAPGet, nil, nil)
}

func (c *Client) SaveIMAP(ctx context.Context, s models.IMAP) *Future[models.Response] {
	return call[models.Response](ctx, c, IMAPSave, nil, s)
}

// ValidateIMAP makes the server log into the mailbox described by s
func (c *Client) ValidateIMAP(ctx context.Context, s models.IMAP) *Future[models.Response] {
	return successful(call[models.Response](ctx, c, IMAPValidate, nil, s), IMAPValidate)
}

// NonCampaignReports lists reports, optionally only those of one mailbox
func (c *Client) NonCampaignReports(ctx context.Context, imapID int64) *Future[models.NonCampaignReports] {
	return callPath[models.NonCampaignReports](ctx, c, ReportsList, reportsPath(imapID), nil)
}

// ClearNonCampaignReports deletes reports, optionally only those of one mailbox
func (c *Client) ClearNonCampaignReports(ctx context.Context, imapID int64) *Future[models.Response] {
	return callPath[models.Response](ctx, c, ReportsClear, reportsPath(imapID), nil)
}

func reportsPath(imapID int64) string {
	if imapID > 0 {
		return fmt.Sprintf("%s?imap_id=%d", ReportsList.Path, imapID)
	}
	return ReportsList.Path
}
