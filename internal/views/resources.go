package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
)

// Surface is where views write
type Surface struct {
	Out      io.Writer
	Status   io.Writer
	Notifier notify.Notifier
}

func newList[T any](s Surface, resource, empty string, fetch func(context.Context) *client.Future[[]T], cols ...Column[T]) *ListView[T] {
	return &ListView[T]{
		Resource: resource,
		Fetch:    fetch,
		Columns:  cols,
		Empty:    empty,
		Out:      s.Out,
		Status:   s.Status,
		Notifier: s.Notifier,
	}
}

func id64(id int64) string {
	return strconv.FormatInt(id, 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Groups lists group summaries
func Groups(c *client.Client, s Surface) *ListView[models.GroupSummary] {
	return newList(s, "groups", "No groups created yet. Let's create one!",
		func(ctx context.Context) *client.Future[[]models.GroupSummary] {
			return client.Map(c.GroupSummaries(ctx), func(r models.GroupSummaries) ([]models.GroupSummary, error) {
				return r.Groups, nil
			})
		},
		Column[models.GroupSummary]{"ID", func(g models.GroupSummary) string { return g.ID.String() }},
		Column[models.GroupSummary]{"NAME", func(g models.GroupSummary) string { return g.Name }},
		Column[models.GroupSummary]{"MEMBERS", func(g models.GroupSummary) string { return strconv.FormatInt(g.NumTargets, 10) }},
		Column[models.GroupSummary]{"MODIFIED", func(g models.GroupSummary) string { return FormatTime(g.ModifiedDate) }},
	)
}

var campaignColumns = []Column[models.CampaignSummary]{
	{"ID", func(c models.CampaignSummary) string { return id64(c.ID) }},
	{"NAME", func(c models.CampaignSummary) string { return c.Name }},
	{"STATUS", func(c models.CampaignSummary) string { return c.Status }},
	{"CREATED", func(c models.CampaignSummary) string { return FormatTime(c.CreatedDate) }},
	{"SENT", func(c models.CampaignSummary) string { return strconv.FormatInt(c.Stats.EmailsSent, 10) }},
	{"OPENED", func(c models.CampaignSummary) string { return strconv.FormatInt(c.Stats.OpenedEmail, 10) }},
	{"CLICKED", func(c models.CampaignSummary) string { return strconv.FormatInt(c.Stats.ClickedLink, 10) }},
	{"SUBMITTED", func(c models.CampaignSummary) string { return strconv.FormatInt(c.Stats.SubmittedData, 10) }},
	{"REPORTED", func(c models.CampaignSummary) string { return strconv.FormatInt(c.Stats.EmailReported, 10) }},
}

// Campaigns lists campaign summaries with their stats
func Campaigns(c *client.Client, s Surface) *ListView[models.CampaignSummary] {
	return newList(s, "campaigns", "No campaigns created yet. Let's create one!",
		func(ctx context.Context) *client.Future[[]models.CampaignSummary] {
			return client.Map(c.CampaignSummaries(ctx), func(r models.CampaignSummaries) ([]models.CampaignSummary, error) {
				return r.Campaigns, nil
			})
		},
		campaignColumns...,
	)
}

// ActiveCampaigns lists campaigns that are still in progress
func ActiveCampaigns(c *client.Client, s Surface) *ListView[models.CampaignSummary] {
	return newList(s, "active campaigns", "No active campaigns.",
		func(ctx context.Context) *client.Future[[]models.CampaignSummary] {
			return client.Map(c.CampaignSummaries(ctx), func(r models.CampaignSummaries) ([]models.CampaignSummary, error) {
				active := []models.CampaignSummary{}
				for _, camp := range r.Campaigns {
					if camp.Status == models.CampaignInProgress {
						active = append(active, camp)
					}
				}
				return active, nil
			})
		},
		campaignColumns...,
	)
}

// CampaignResults lists the per-target results of one campaign
func CampaignResults(c *client.Client, s Surface, id int64) *ListView[models.Result] {
	return newList(s, "results", "No results yet.",
		func(ctx context.Context) *client.Future[[]models.Result] {
			return client.Map(c.CampaignResults(ctx, id), func(r models.CampaignResults) ([]models.Result, error) {
				return r.Results, nil
			})
		},
		Column[models.Result]{"FIRST NAME", func(r models.Result) string { return r.FirstName }},
		Column[models.Result]{"LAST NAME", func(r models.Result) string { return r.LastName }},
		Column[models.Result]{"EMAIL", func(r models.Result) string { return r.Email }},
		Column[models.Result]{"POSITION", func(r models.Result) string { return r.Position }},
		Column[models.Result]{"STATUS", func(r models.Result) string { return r.Status }},
		Column[models.Result]{"REPORTED", func(r models.Result) string { return yesNo(r.Reported) }},
	)
}

func Templates(c *client.Client, s Surface) *ListView[models.Template] {
	return newList(s, "templates", "No templates created yet. Let's create one!",
		c.Templates,
		Column[models.Template]{"ID", func(t models.Template) string { return id64(t.ID) }},
		Column[models.Template]{"NAME", func(t models.Template) string { return t.Name }},
		Column[models.Template]{"SUBJECT", func(t models.Template) string { return t.Subject }},
		Column[models.Template]{"ATTACHMENTS", func(t models.Template) string { return strconv.Itoa(len(t.Attachments)) }},
		Column[models.Template]{"MODIFIED", func(t models.Template) string { return FormatTime(t.ModifiedDate) }},
	)
}

func Pages(c *client.Client, s Surface) *ListView[models.Page] {
	return newList(s, "pages", "No pages created yet. Let's create one!",
		c.Pages,
		Column[models.Page]{"ID", func(p models.Page) string { return id64(p.ID) }},
		Column[models.Page]{"NAME", func(p models.Page) string { return p.Name }},
		Column[models.Page]{"CAPTURE", func(p models.Page) string { return yesNo(p.CaptureCredentials) }},
		Column[models.Page]{"REDIRECT", func(p models.Page) string { return p.RedirectURL }},
		Column[models.Page]{"MODIFIED", func(p models.Page) string { return FormatTime(p.ModifiedDate) }},
	)
}

// SendingProfiles lists SMTP sending profiles
func SendingProfiles(c *client.Client, s Surface) *ListView[models.SMTP] {
	return newList(s, "sending profiles", "No sending profiles created yet. Let's create one!",
		c.SendingProfiles,
		Column[models.SMTP]{"ID", func(p models.SMTP) string { return id64(p.ID) }},
		Column[models.SMTP]{"NAME", func(p models.SMTP) string { return p.Name }},
		Column[models.SMTP]{"INTERFACE", func(p models.SMTP) string { return p.Interface }},
		Column[models.SMTP]{"HOST", func(p models.SMTP) string { return p.Host }},
		Column[models.SMTP]{"FROM", func(p models.SMTP) string { return p.FromAddress }},
		Column[models.SMTP]{"MODIFIED", func(p models.SMTP) string { return FormatTime(p.ModifiedDate) }},
	)
}

func Users(c *client.Client, s Surface) *ListView[models.User] {
	return newList(s, "users", "No users found.",
		c.Users,
		Column[models.User]{"ID", func(u models.User) string { return id64(u.ID) }},
		Column[models.User]{"USERNAME", func(u models.User) string { return u.Username }},
		Column[models.User]{"ROLE", func(u models.User) string { return u.Role.Name }},
		Column[models.User]{"LOCKED", func(u models.User) string { return yesNo(u.AccountLocked) }},
		Column[models.User]{"LAST LOGIN", func(u models.User) string { return FormatTime(u.LastLogin) }},
	)
}

func Webhooks(c *client.Client, s Surface) *ListView[models.Webhook] {
	return newList(s, "webhooks", "No webhooks created yet. Let's create one!",
		c.Webhooks,
		Column[models.Webhook]{"ID", func(w models.Webhook) string { return id64(w.ID) }},
		Column[models.Webhook]{"NAME", func(w models.Webhook) string { return w.Name }},
		Column[models.Webhook]{"URL", func(w models.Webhook) string { return w.URL }},
		Column[models.Webhook]{"ACTIVE", func(w models.Webhook) string { return yesNo(w.IsActive) }},
	)
}

// QRCodes lists stored QR codes
func QRCodes(c *client.Client, s Surface) *ListView[models.QRCode] {
	return newList(s, "QR codes", "No QR codes generated yet.",
		func(ctx context.Context) *client.Future[[]models.QRCode] {
			return client.Map(c.QRCodes(ctx), func(r models.QRCodes) ([]models.QRCode, error) {
				return r.QRCodes, nil
			})
		},
		Column[models.QRCode]{"ID", func(q models.QRCode) string { return id64(q.ID) }},
		Column[models.QRCode]{"URL", func(q models.QRCode) string { return q.URL }},
		Column[models.QRCode]{"SIZE", func(q models.QRCode) string { return q.Size }},
		Column[models.QRCode]{"CREATED", func(q models.QRCode) string { return FormatTime(q.CreatedAt) }},
	)
}

// Reports lists non-campaign reports with the reporting stats as a header.
// imapID restricts the list to one mailbox when positive.
func Reports(c *client.Client, s Surface, imapID int64) *ListView[models.NonCampaignReport] {
	var stats models.NonCampaignStats

	v := newList(s, "non-campaign reports", "No non-campaign reports found.",
		func(ctx context.Context) *client.Future[[]models.NonCampaignReport] {
			return client.Map(c.NonCampaignReports(ctx, imapID), func(r models.NonCampaignReports) ([]models.NonCampaignReport, error) {
				stats = r.Stats
				return r.Reports, nil
			})
		},
		Column[models.NonCampaignReport]{"ID", func(r models.NonCampaignReport) string { return id64(r.ID) }},
		Column[models.NonCampaignReport]{"REPORTER", func(r models.NonCampaignReport) string { return r.ReporterEmail }},
		Column[models.NonCampaignReport]{"SUBJECT", func(r models.NonCampaignReport) string { return r.Subject }},
		Column[models.NonCampaignReport]{"REPORTED", func(r models.NonCampaignReport) string { return FormatTime(r.ReportedAt) }},
	)

	v.Summary = func() string {
		return fmt.Sprintf("Reports: %d  Last reported: %s", stats.ReportCount, FormatTime(stats.LastReportedAt))
	}
	return v
}
