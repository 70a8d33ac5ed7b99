package models

import "time"

// Role is the permission set of a user
type Role struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User represents an account on the platform
type User struct {
	ID            int64     `json:"id,omitempty"`
	Username      string    `json:"username"`
	Password      string    `json:"password,omitempty"`
	Role          Role      `json:"role"`
	APIKey        string    `json:"api_key,omitempty"`
	LastLogin     time.Time `json:"last_login"`
	AccountLocked bool      `json:"account_locked"`
	ModifiedDate  time.Time `json:"modified_date,omitempty"`
}

// Webhook receives campaign events
type Webhook struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Secret   string `json:"secret"`
	IsActive bool   `json:"is_active"`
}
