package editor

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/foxzi/lure/internal/models"
)

// ValidationError is a problem found before any request is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTarget checks a target entered by hand before it is added
func ValidateTarget(t models.Target) error {
	email := strings.TrimSpace(t.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Message: fmt.Sprintf("invalid email address %q", t.Email)}
	}
	return nil
}

// ParseTarget reads a target from "first,last,email,position,custom".
// Missing trailing fields are left empty.
func ParseTarget(s string) (models.Target, error) {
	parts := strings.SplitN(s, ",", 5)
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	t := models.Target{
		FirstName: parts[0],
		LastName:  parts[1],
		Email:     parts[2],
		Position:  parts[3],
		Custom:    parts[4],
	}
	if err := ValidateTarget(t); err != nil {
		return models.Target{}, err
	}
	return t, nil
}
