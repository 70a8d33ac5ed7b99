package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrDeclined is returned when the user answers no to a confirmation
var ErrDeclined = errors.New("action cancelled")

// Prompt is a confirmation question. Affirmative labels the approving
// button and defaults to "Yes".
type Prompt struct {
	Title       string
	Description string
	Affirmative string
}

// Button returns the label of the approving button
func (p Prompt) Button() string {
	if p.Affirmative == "" {
		return "Yes"
	}
	return p.Affirmative
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// HuhConfirmer prompts on the terminal
type HuhConfirmer struct{}

func (HuhConfirmer) Confirm(ctx context.Context, p Prompt) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(p.Title).
				Description(p.Description).
				Affirmative(p.Button()).
				Negative("Cancel").
				Value(&ok),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}

	return ok, nil
}

// StaticConfirmer answers every confirmation the same way and remembers
// what it was asked
type StaticConfirmer struct {
	Answer bool
	Asked  []Prompt
}

func (s *StaticConfirmer) Confirm(_ context.Context, p Prompt) (bool, error) {
	s.Asked = append(s.Asked, p)
	return s.Answer, nil
}

// PromptSecret reads a value without echoing it
func PromptSecret(ctx context.Context, title string) (string, error) {
	var value string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("value is required")
					}
					return nil
				}).
				Value(&value),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return value, nil
}
