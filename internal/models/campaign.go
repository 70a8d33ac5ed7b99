package models

import "time"

// Campaign statuses reported by the server
const (
	CampaignCreated    = "Created"
	CampaignQueued     = "Queued"
	CampaignInProgress = "In progress"
	CampaignEmailsSent = "Emails Sent"
	CampaignComplete   = "Completed"
)

// Campaign represents a phishing simulation campaign
type Campaign struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CreatedDate   time.Time `json:"created_date"`
	LaunchDate    time.Time `json:"launch_date"`
	SendByDate    time.Time `json:"send_by_date"`
	CompletedDate time.Time `json:"completed_date"`
	Template      Template  `json:"template"`
	Page          Page      `json:"page"`
	Status        string    `json:"status"`
	Results       []Result  `json:"results,omitempty"`
	Groups        []Group   `json:"groups"`
	Events        []Event   `json:"timeline,omitempty"`
	SMTP          SMTP      `json:"smtp"`
	URL           string    `json:"url"`
}

// Result is the per-target state of a campaign
type Result struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Position     string    `json:"position"`
	Status       string    `json:"status"`
	IP           string    `json:"ip"`
	Reported     bool      `json:"reported"`
	SendDate     time.Time `json:"send_date"`
	ModifiedDate time.Time `json:"modified_date"`
}

// Event is one entry of a campaign timeline
type Event struct {
	Email   string    `json:"email"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Details string    `json:"details"`
}

// CampaignResults is the response of /campaigns/{id}/results
type CampaignResults struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Results []Result `json:"results"`
	Events  []Event  `json:"timeline"`
}

// CampaignStats holds aggregated counters of a campaign
type CampaignStats struct {
	Total         int64 `json:"total"`
	EmailsSent    int64 `json:"sent"`
	OpenedEmail   int64 `json:"opened"`
	ClickedLink   int64 `json:"clicked"`
	SubmittedData int64 `json:"submitted_data"`
	EmailReported int64 `json:"email_reported"`
	Error         int64 `json:"error"`
}

// CampaignSummary is a campaign without results and timeline
type CampaignSummary struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	CreatedDate   time.Time     `json:"created_date"`
	LaunchDate    time.Time     `json:"launch_date"`
	SendByDate    time.Time     `json:"send_by_date"`
	CompletedDate time.Time     `json:"completed_date"`
	Status        string        `json:"status"`
	Stats         CampaignStats `json:"stats"`
}

// CampaignSummaries is the response of /campaigns/summary
type CampaignSummaries struct {
	Total     int64             `json:"total"`
	Campaigns []CampaignSummary `json:"campaigns"`
}
