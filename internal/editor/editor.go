// Package editor implements the group editing workflow: an edit session
// holding a deduplicated working set of targets, CSV import and export,
// and the save and delete calls that reconcile it with the server.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
)

// ErrClosed is returned by session operations when no group is open
var ErrClosed = errors.New("no group is open for editing")

// ErrSuperseded is returned by Open when another session was opened or
// dismissed while the group was being fetched
var ErrSuperseded = errors.New("edit session superseded")

// State is the state of the edit session
type State int

const (
	Closed State = iota
	OpenNew
	OpenExisting
)

func (s State) String() string {
	switch s {
	case OpenNew:
		return "open(new)"
	case OpenExisting:
		return "open(existing)"
	default:
		return "closed"
	}
}

// IsOpen reports whether a session is in progress
func (s State) IsOpen() bool {
	return s != Closed
}

// GroupAPI is the part of the API client the editor uses
type GroupAPI interface {
	Group(ctx context.Context, id models.GroupID) *client.Future[models.Group]
	SaveGroup(ctx context.Context, g models.Group) *client.Future[models.Group]
	DeleteGroup(ctx context.Context, id models.GroupID) *client.Future[models.Response]
	ImportGroup(ctx context.Context, filename string, r io.Reader) *client.Future[[]models.Target]
}

// Reloader refreshes the list of groups
type Reloader interface {
	Load(ctx context.Context) error
}

// CSVFile is an exported group
type CSVFile struct {
	Filename string
	Data     []byte
}

// Editor edits one group at a time
type Editor struct {
	api      GroupAPI
	notifier notify.Notifier
	reloader Reloader
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	id    models.GroupID
	name  string
	ws    *WorkingSet
	// gen changes whenever a session is opened or dismissed
	gen uint64
}

// New creates an editor. reloader may be nil.
func New(api GroupAPI, n notify.Notifier, reloader Reloader, logger *slog.Logger) *Editor {
	return &Editor{
		api:      api,
		notifier: n,
		reloader: reloader,
		logger:   logger,
		ws:       NewWorkingSet(),
	}
}

// Open starts an edit session. A new id gives an empty session; any other
// id loads the group from the server. When the fetch fails the editor
// stays closed and the working set stays empty.
func (e *Editor) Open(ctx context.Context, id models.GroupID) error {
	e.notifier.ClearModal()

	if id.IsNew() {
		e.mu.Lock()
		e.gen++
		e.state = OpenNew
		e.id = models.NewGroupID
		e.name = ""
		e.ws.Reset()
		e.mu.Unlock()
		return nil
	}

	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.state = Closed
	e.ws.Reset()
	e.mu.Unlock()

	g, err := e.api.Group(ctx, id).Await(ctx)
	if err != nil {
		e.notifier.Error(client.Message(err, "Error fetching group"))
		return fmt.Errorf("failed to open group %s: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return fmt.Errorf("group %s: %w", id, ErrSuperseded)
	}

	e.state = OpenExisting
	e.id = id
	e.name = g.Name
	for _, t := range g.Targets {
		e.ws.AddOrUpdate(t)
	}

	e.logger.Debug("group opened", "id", id, "targets", e.ws.Len())
	return nil
}

// SetName changes the group name of the open session
func (e *Editor) SetName(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.IsOpen() {
		return false
	}
	e.name = name
	return true
}

// AddOrUpdateTarget adds t to the working set or replaces the row with the
// same email. It reports false when no session is open.
func (e *Editor) AddOrUpdateTarget(t models.Target) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.IsOpen() {
		return false
	}
	e.ws.AddOrUpdate(t)
	return true
}

// RemoveTarget removes the row at position i
func (e *Editor) RemoveTarget(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.IsOpen() || i < 0 || i >= e.ws.Len() {
		return false
	}
	e.ws.Remove(i)
	return true
}

// RemoveEmail removes the row with the given email
func (e *Editor) RemoveEmail(email string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.IsOpen() {
		return false
	}
	return e.ws.RemoveEmail(email)
}

// ImportCSV uploads a target file to the server for parsing and merges the
// returned targets into the working set. Files that are not .csv or .txt
// are rejected without a request.
func (e *Editor) ImportCSV(ctx context.Context, filename string, r io.Reader) (int, error) {
	if !e.State().IsOpen() {
		return 0, ErrClosed
	}

	if !AcceptedImportFile(filename) {
		err := &ValidationError{Field: "file", Message: "Unsupported file extension (use .csv or .txt)"}
		e.notifier.ModalError(err.Error())
		return 0, err
	}

	targets, err := e.api.ImportGroup(ctx, filename, r).Await(ctx)
	if err != nil {
		e.notifier.ModalError(client.Message(err, "Error importing targets"))
		return 0, fmt.Errorf("failed to import %s: %w", filename, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.IsOpen() {
		return 0, ErrClosed
	}
	for _, t := range targets {
		e.ws.AddOrUpdate(t)
	}

	e.logger.Debug("targets imported", "file", filename, "count", len(targets))
	return len(targets), nil
}

// Save sends the name and the whole working set to the server, creating
// the group when it is new and replacing it otherwise. On success the list
// is reloaded and the session closed. On failure the session stays open
// with the working set untouched. Local edits are not blocked while the
// request is in flight and concurrent saves are not deduplicated.
//
// A save only closes or reports into the session it was started from. If
// that session was dismissed or replaced in the meantime, the outcome is
// reported as a page notification and the current session is left alone.
func (e *Editor) Save(ctx context.Context) (models.Group, error) {
	e.mu.Lock()
	if !e.state.IsOpen() {
		e.mu.Unlock()
		return models.Group{}, ErrClosed
	}
	isNew := e.state == OpenNew
	gen := e.gen
	g := models.Group{
		ID:           e.id,
		Name:         e.name,
		Targets:      e.ws.Targets(),
		ModifiedDate: time.Now().UTC(),
	}
	e.mu.Unlock()

	saved, err := e.api.SaveGroup(ctx, g).Await(ctx)
	if err != nil {
		msg := client.Message(err, "Error saving group")
		if e.current(gen) {
			e.notifier.ModalError(msg)
		} else {
			e.logger.Debug("save of a closed session failed", "name", g.Name, "error", err)
			e.notifier.Error(msg)
		}
		return models.Group{}, fmt.Errorf("failed to save group: %w", err)
	}

	if isNew {
		e.notifier.Success("Group added successfully!")
	} else {
		e.notifier.Success("Group updated successfully!")
	}
	e.reload(ctx)
	e.dismissIf(gen)

	e.logger.Debug("group saved", "id", saved.ID, "targets", len(g.Targets))
	return saved, nil
}

// Dismiss closes the session and discards the working set
func (e *Editor) Dismiss() {
	e.mu.Lock()
	e.close()
	e.mu.Unlock()

	e.notifier.ClearModal()
}

// dismissIf closes the session only if it is still generation gen
func (e *Editor) dismissIf(gen uint64) {
	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return
	}
	e.close()
	e.mu.Unlock()

	e.notifier.ClearModal()
}

func (e *Editor) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen
}

// close must be called with mu held
func (e *Editor) close() {
	e.gen++
	e.state = Closed
	e.id = 0
	e.name = ""
	e.ws.Reset()
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ID returns the id of the open group
func (e *Editor) ID() models.GroupID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Editor) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Targets returns a copy of the working set
func (e *Editor) Targets() []models.Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ws.Targets()
}

// Export fetches a group and renders it as CSV in server order
func (e *Editor) Export(ctx context.Context, id models.GroupID) (*CSVFile, error) {
	g, err := e.api.Group(ctx, id).Await(ctx)
	if err != nil {
		e.notifier.Error(client.Message(err, "Error fetching group"))
		return nil, fmt.Errorf("failed to export group %s: %w", id, err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, g.Targets); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	return &CSVFile{
		Filename: ExportFilename(g.Name),
		Data:     buf.Bytes(),
	}, nil
}

// DeleteGroup deletes a group after confirm approves it. A declined
// confirmation returns notify.ErrDeclined without any request.
func (e *Editor) DeleteGroup(ctx context.Context, id models.GroupID, confirm notify.Confirmer) error {
	ok, err := confirm.Confirm(ctx, notify.Prompt{
		Title:       "Are you sure?",
		Description: "This will delete the group. This can't be undone!",
		Affirmative: "Delete",
	})
	if err != nil {
		return err
	}
	if !ok {
		return notify.ErrDeclined
	}

	if _, err := e.api.DeleteGroup(ctx, id).Await(ctx); err != nil {
		e.notifier.Error(client.Message(err, "Error deleting group"))
		return fmt.Errorf("failed to delete group %s: %w", id, err)
	}

	e.notifier.Success("Group deleted successfully!")
	e.reload(ctx)
	return nil
}

func (e *Editor) reload(ctx context.Context) {
	if e.reloader == nil {
		return
	}
	if err := e.reloader.Load(ctx); err != nil {
		e.logger.Debug("group list reload failed", "error", err)
	}
}
