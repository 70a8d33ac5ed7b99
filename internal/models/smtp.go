package models

import "time"

// Header is an extra header added to outgoing mail
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SMTP represents a sending profile
type SMTP struct {
	ID               int64     `json:"id,omitempty"`
	Interface        string    `json:"interface_type"`
	Name             string    `json:"name"`
	Host             string    `json:"host"`
	Username         string    `json:"username,omitempty"`
	Password         string    `json:"password,omitempty"`
	FromAddress      string    `json:"from_address"`
	IgnoreCertErrors bool      `json:"ignore_cert_errors"`
	Headers          []Header  `json:"headers"`
	ModifiedDate     time.Time `json:"modified_date"`
}

// IMAP represents the mailbox monitored for reported emails
type IMAP struct {
	UserID                      int64     `json:"user_id,omitempty"`
	Enabled                     bool      `json:"enabled"`
	Host                        string    `json:"host"`
	Port                        uint16    `json:"port,string"`
	Username                    string    `json:"username"`
	Password                    string    `json:"password,omitempty"`
	TLS                         bool      `json:"tls"`
	IgnoreCertErrors            bool      `json:"ignore_cert_errors"`
	Folder                      string    `json:"folder"`
	RestrictDomain              string    `json:"restrict_domain"`
	DeleteReportedCampaignEmail bool      `json:"delete_reported_campaign_email"`
	LastLogin                   time.Time `json:"last_login,omitempty"`
	ModifiedDate                time.Time `json:"modified_date"`
	IMAPFreq                    uint32    `json:"imap_freq,string"`
}

// SendTestEmailRequest asks the server to send one email through a profile
type SendTestEmailRequest struct {
	Template  Template `json:"template"`
	Page      Page     `json:"page"`
	SMTP      SMTP     `json:"smtp"`
	URL       string   `json:"url"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Position  string   `json:"position"`
}
