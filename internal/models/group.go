package models

import (
	"strconv"
	"time"
)

// GroupID identifies a group on the server
type GroupID int64

// NewGroupID marks a group that has not been persisted yet
const NewGroupID GroupID = -1

// IsNew reports whether the id is the unsaved-group sentinel
func (id GroupID) IsNew() bool {
	return id <= 0
}

func (id GroupID) String() string {
	if id.IsNew() {
		return "new"
	}
	return strconv.FormatInt(int64(id), 10)
}

// ParseGroupID parses a CLI argument; "new" and "-1" map to NewGroupID
func ParseGroupID(s string) (GroupID, error) {
	if s == "new" || s == "" {
		return NewGroupID, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return NewGroupID, nil
	}
	return GroupID(n), nil
}

// Target represents one contact inside a group
type Target struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Position  string `json:"position"`
	Custom    string `json:"custom"`
}

// Group represents a named collection of targets
type Group struct {
	ID           GroupID   `json:"id,omitempty"`
	Name         string    `json:"name"`
	Targets      []Target  `json:"targets"`
	ModifiedDate time.Time `json:"modified_date"`
}

// GroupSummary is a group without its targets
type GroupSummary struct {
	ID           GroupID   `json:"id"`
	Name         string    `json:"name"`
	NumTargets   int64     `json:"num_targets"`
	ModifiedDate time.Time `json:"modified_date"`
}

// GroupSummaries is the response of /groups/summary
type GroupSummaries struct {
	Total  int64          `json:"total"`
	Groups []GroupSummary `json:"groups"`
}
