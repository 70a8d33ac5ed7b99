package models

import "time"

// Attachment is a file sent along with a template
type Attachment struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"` // base64
}

// Template represents an email template
type Template struct {
	ID             int64        `json:"id,omitempty"`
	Name           string       `json:"name"`
	EnvelopeSender string       `json:"envelope_sender,omitempty"`
	Subject        string       `json:"subject"`
	Text           string       `json:"text"`
	HTML           string       `json:"html"`
	Attachments    []Attachment `json:"attachments"`
	ModifiedDate   time.Time    `json:"modified_date"`
}

// Page represents a landing page
type Page struct {
	ID                 int64     `json:"id,omitempty"`
	Name               string    `json:"name"`
	HTML               string    `json:"html"`
	CaptureCredentials bool      `json:"capture_credentials"`
	CapturePasswords   bool      `json:"capture_passwords"`
	RedirectURL        string    `json:"redirect_url"`
	ModifiedDate       time.Time `json:"modified_date"`
}
