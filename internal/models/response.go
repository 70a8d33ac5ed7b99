package models

// Response is the generic envelope returned by mutating endpoints
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ImportEmailRequest converts a raw email into a template
type ImportEmailRequest struct {
	Content      string `json:"content"`
	ConvertLinks bool   `json:"convert_links"`
}

// ImportEmailResponse is the parsed email
type ImportEmailResponse struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// CloneSiteRequest fetches a remote page for use as a landing page
type CloneSiteRequest struct {
	URL              string `json:"url"`
	IncludeResources bool   `json:"include_resources"`
}

// CloneSiteResponse holds the cloned HTML
type CloneSiteResponse struct {
	HTML string `json:"html"`
}
