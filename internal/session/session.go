// Package session holds the credentials every API call is made with and
// the on-disk profiles they are loaded from.
package session

import (
	"errors"
	"strings"

	"github.com/foxzi/lure/internal/models"
)

// Session is the read-only context injected into the API client at startup
type Session struct {
	BaseURL string
	APIKey  string
	User    *models.User
}

// New creates a session for the given server and API key
func New(baseURL, apiKey string) *Session {
	return &Session{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

// Validate checks that the session can authenticate requests
func (s *Session) Validate() error {
	if s == nil {
		return errors.New("no session")
	}
	if s.BaseURL == "" {
		return errors.New("server URL is required")
	}
	if s.APIKey == "" {
		return errors.New("API key is required")
	}
	return nil
}

// Username returns the resolved user's name or an empty string
func (s *Session) Username() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Username
}
