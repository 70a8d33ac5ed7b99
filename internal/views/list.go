// Package views renders server collections as terminal tables. Every list
// follows the same shape: loading line, fetch, then a grid or an
// empty-state message.
package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/notify"
)

// Column projects one field of a row
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// ListView is a table bound to a collection fetch
type ListView[T any] struct {
	// Resource names the collection in messages, e.g. "groups"
	Resource string
	Fetch    func(ctx context.Context) *client.Future[[]T]
	Columns  []Column[T]
	// Empty is shown instead of the grid when the collection is empty
	Empty string
	// Summary, when set, is printed above the grid after a successful fetch
	Summary func() string

	Out      io.Writer
	Status   io.Writer
	Notifier notify.Notifier

	mu   sync.Mutex
	rows []T
}

// Load fetches the collection and renders it
func (v *ListView[T]) Load(ctx context.Context) error {
	if v.Status != nil {
		fmt.Fprintf(v.Status, "Loading %s...\n", v.Resource)
	}

	rows, err := v.Fetch(ctx).Await(ctx)
	if err != nil {
		v.Notifier.Error(client.Message(err, "Error fetching "+v.Resource))
		return fmt.Errorf("failed to load %s: %w", v.Resource, err)
	}

	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()

	return v.Render()
}

// Render writes the last fetched rows
func (v *ListView[T]) Render() error {
	v.mu.Lock()
	rows := v.rows
	v.mu.Unlock()

	if v.Summary != nil {
		if s := v.Summary(); s != "" {
			fmt.Fprintln(v.Out, Sanitize(s))
		}
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(v.Out, v.Empty)
		return err
	}

	w := tabwriter.NewWriter(v.Out, 0, 0, 2, ' ', 0)

	headers := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		headers[i] = c.Header
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	cells := make([]string, len(v.Columns))
	for _, row := range rows {
		for i, c := range v.Columns {
			cells[i] = Sanitize(c.Value(row))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	return w.Flush()
}

// Rows returns the last fetched rows
func (v *ListView[T]) Rows() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.rows))
	copy(out, v.rows)
	return out
}

// Sanitize makes server text safe to print in a table cell. Tabs and
// newlines become spaces; other control characters are dropped.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// FormatTime renders a timestamp for a table cell
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Loader reloads a view
type Loader interface {
	Load(ctx context.Context) error
}

// Action is a row action bound to an API call
type Action struct {
	// Confirm is the confirmation title; empty for actions that need none
	Confirm string
	Detail  string
	// Button labels the approving button of the confirmation
	Button  string
	Success string
	Failure string
	Run     func(ctx context.Context) error
}

// RunAction asks for confirmation when the action needs it, runs it,
// reports the outcome and refreshes view. A declined confirmation returns
// notify.ErrDeclined without running the action.
func RunAction(ctx context.Context, view Loader, confirm notify.Confirmer, n notify.Notifier, a Action) error {
	if a.Confirm != "" {
		ok, err := confirm.Confirm(ctx, notify.Prompt{
			Title:       a.Confirm,
			Description: a.Detail,
			Affirmative: a.Button,
		})
		if err != nil {
			return err
		}
		if !ok {
			return notify.ErrDeclined
		}
	}

	if err := a.Run(ctx); err != nil {
		n.Error(client.Message(err, a.Failure))
		return err
	}

	if a.Success != "" {
		n.Success(a.Success)
	}
	if view != nil {
		return view.Load(ctx)
	}
	return nil
}
