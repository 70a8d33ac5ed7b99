package client

import (
	"fmt"
	"net/http"
	"strings"
)

// Mode tells whether a call blocks the caller until the response arrives
type Mode int

const (
	// Sync calls perform the request before returning a resolved future
	Sync Mode = iota
	// Async calls return immediately and resolve the future later
	Async
)

func (m Mode) String() string {
	if m == Async {
		return "async"
	}
	return "sync"
}

// Endpoint is one entry of the API catalog
type Endpoint struct {
	Name   string
	Method string
	Path   string
	Mode   Mode
}

// URL expands the {id} placeholder of the path
func (e Endpoint) URL(id any) string {
	if id == nil {
		return e.Path
	}
	return strings.Replace(e.Path, "{id}", fmt.Sprint(id), 1)
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s %s (%s)", e.Name, e.Method, e.Path, e.Mode)
}

// Campaigns
var (
	CampaignsList    = Endpoint{"campaigns.list", http.MethodGet, "/campaigns/", Sync}
	CampaignsCreate  = Endpoint{"campaigns.create", http.MethodPost, "/campaigns/", Sync}
	CampaignsSummary = Endpoint{"campaigns.summary", http.MethodGet, "/campaigns/summary", Sync}
	CampaignGet      = Endpoint{"campaign.get", http.MethodGet, "/campaigns/{id}", Async}
	CampaignDelete   = Endpoint{"campaign.delete", http.MethodDelete, "/campaigns/{id}", Sync}
	CampaignResults  = Endpoint{"campaign.results", http.MethodGet, "/campaigns/{id}/results", Async}
	CampaignComplete = Endpoint{"campaign.complete", http.MethodGet, "/campaigns/{id}/complete", Async}
	CampaignSummary  = Endpoint{"campaign.summary", http.MethodGet, "/campaigns/{id}/summary", Async}
)

// Groups
var (
	GroupsList    = Endpoint{"groups.list", http.MethodGet, "/groups/", Sync}
	GroupsCreate  = Endpoint{"groups.create", http.MethodPost, "/groups/", Sync}
	GroupsSummary = Endpoint{"groups.summary", http.MethodGet, "/groups/summary", Async}
	GroupGet      = Endpoint{"group.get", http.MethodGet, "/groups/{id}", Sync}
	GroupUpdate   = Endpoint{"group.update", http.MethodPut, "/groups/{id}", Sync}
	GroupDelete   = Endpoint{"group.delete", http.MethodDelete, "/groups/{id}", Sync}
	ImportGroup   = Endpoint{"import.group", http.MethodPost, "/import/group", Async}
)

// Templates and landing pages
var (
	TemplatesList   = Endpoint{"templates.list", http.MethodGet, "/templates/", Sync}
	TemplatesCreate = Endpoint{"templates.create", http.MethodPost, "/templates/", Sync}
	TemplateGet     = Endpoint{"template.get", http.MethodGet, "/templates/{id}", Sync}
	TemplateUpdate  = Endpoint{"template.update", http.MethodPut, "/templates/{id}", Sync}
	TemplateDelete  = Endpoint{"template.delete", http.MethodDelete, "/templates/{id}", Sync}

	PagesList   = Endpoint{"pages.list", http.MethodGet, "/pages/", Sync}
	PagesCreate = Endpoint{"pages.create", http.MethodPost, "/pages/", Sync}
	PageGet     = Endpoint{"page.get", http.MethodGet, "/pages/{id}", Sync}
	PageUpdate  = Endpoint{"page.update", http.MethodPut, "/pages/{id}", Sync}
	PageDelete  = Endpoint{"page.delete", http.MethodDelete, "/pages/{id}", Sync}
)

// Sending profiles and the reporting mailbox
var (
	SMTPList   = Endpoint{"smtp.list", http.MethodGet, "/smtp/", Sync}
	SMTPCreate = Endpoint{"smtp.create", http.MethodPost, "/smtp/", Sync}
	SMTPGet    = Endpoint{"smtp.get", http.MethodGet, "/smtp/{id}", Sync}
	SMTPUpdate = Endpoint{"smtp.update", http.MethodPut, "/smtp/{id}", Sync}
	SMTPDelete = Endpoint{"smtp.delete", http.MethodDelete, "/smtp/{id}", Sync}

	IMAPGet      = Endpoint{"imap.get", http.MethodGet, "/imap/", Sync}
	IMAPSave     = Endpoint{"imap.save", http.MethodPost, "/imap/", Sync}
	IMAPValidate = Endpoint{"imap.validate", http.MethodPost, "/imap/validate", Async}

	ReportsList  = Endpoint{"reports.list", http.MethodGet, "/imap/non_campaign_reports", Async}
	ReportsClear = Endpoint{"reports.clear", http.MethodDelete, "/imap/non_campaign_reports", Async}
)

// Users and webhooks
var (
	UsersList   = Endpoint{"users.list", http.MethodGet, "/users/", Async}
	UsersCreate = Endpoint{"users.create", http.MethodPost, "/users/", Async}
	UserGet     = Endpoint{"user.get", http.MethodGet, "/users/{id}", Async}
	UserUpdate  = Endpoint{"user.update", http.MethodPut, "/users/{id}", Async}
	UserDelete  = Endpoint{"user.delete", http.MethodDelete, "/users/{id}", Async}

	WebhooksList   = Endpoint{"webhooks.list", http.MethodGet, "/webhooks/", Sync}
	WebhooksCreate = Endpoint{"webhooks.create", http.MethodPost, "/webhooks/", Sync}
	WebhookGet     = Endpoint{"webhook.get", http.MethodGet, "/webhooks/{id}", Sync}
	WebhookUpdate  = Endpoint{"webhook.update", http.MethodPut, "/webhooks/{id}", Async}
	WebhookDelete  = Endpoint{"webhook.delete", http.MethodDelete, "/webhooks/{id}", Sync}
	WebhookPing    = Endpoint{"webhook.ping", http.MethodPost, "/webhooks/{id}/validate", Async}
)

// QR codes
var (
	QRCodesList    = Endpoint{"qrcodes.list", http.MethodGet, "/qr_code/", Async}
	QRCodesCreate  = Endpoint{"qrcodes.create", http.MethodPost, "/qr_code/", Async}
	QRCodeDelete   = Endpoint{"qrcode.delete", http.MethodDelete, "/qr_code/{id}", Sync}
	QRCodeDownload = Endpoint{"qrcode.download", http.MethodGet, "/qr_code/{id}/download", Sync}
)

// Utilities
var (
	ImportEmail   = Endpoint{"import.email", http.MethodPost, "/import/email", Sync}
	ImportSite    = Endpoint{"import.site", http.MethodPost, "/import/site", Sync}
	SendTestEmail = Endpoint{"util.send_test_email", http.MethodPost, "/util/send_test_email", Async}
	ResetAPIKey   = Endpoint{"reset", http.MethodPost, "/reset", Async}
)

// Catalog returns every endpoint the client knows about
func Catalog() []Endpoint {
	return []Endpoint{
		CampaignsList, CampaignsCreate, CampaignsSummary,
		CampaignGet, CampaignDelete, CampaignResults, CampaignComplete, CampaignSummary,
		GroupsList, GroupsCreate, GroupsSummary, GroupGet, GroupUpdate, GroupDelete, ImportGroup,
		TemplatesList, TemplatesCreate, TemplateGet, TemplateUpdate, TemplateDelete,
		PagesList, PagesCreate, PageGet, PageUpdate, PageDelete,
		SMTPList, SMTPCreate, SMTPGet, SMTPUpdate, SMTPDelete,
		IMAPGet, IMAPSave, IMAPValidate,
		ReportsList, ReportsClear,
		UsersList, UsersCreate, UserGet, UserUpdate, UserDelete,
		WebhooksList, WebhooksCreate, WebhookGet, WebhookUpdate, WebhookDelete, WebhookPing,
		QRCodesList, QRCodesCreate, QRCodeDelete, QRCodeDownload,
		ImportEmail, ImportSite, SendTestEmail, ResetAPIKey,
	}
}
