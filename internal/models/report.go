package models

import "time"

// NonCampaignReport is a reported email that did not belong to any campaign
type NonCampaignReport struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	IMAPID        int64     `json:"imap_id"`
	ReporterEmail string    `json:"reporter_email"`
	Subject       string    `json:"subject"`
	ReportedAt    time.Time `json:"reported_at"`
}

// NonCampaignStats aggregates non-campaign reports of a user
type NonCampaignStats struct {
	UserID         int64     `json:"user_id"`
	ReportCount    int       `json:"report_count"`
	LastReportedAt time.Time `json:"last_reported_at"`
}

// NonCampaignReports is the response of /imap/non_campaign_reports
type NonCampaignReports struct {
	Stats   NonCampaignStats    `json:"stats"`
	Reports []NonCampaignReport `json:"reports"`
}
