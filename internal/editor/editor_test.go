package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foxzi/lure/internal/apitest"
	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
	"github.com/foxzi/lure/internal/session"
)

type countingReloader struct {
	mu sync.Mutex
	n  int
}

func (r *countingReloader) Load(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	return nil
}

func (r *countingReloader) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

type fixture struct {
	editor   *Editor
	fake     *apitest.Server
	notes    *notify.Recorder
	reloader *countingReloader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fake := apitest.New("key", logger)
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	c, err := client.New(session.New(ts.URL, "key"), client.WithLogger(logger))
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	f := &fixture{
		fake:     fake,
		notes:    notify.NewRecorder(nil),
		reloader: &countingReloader{},
	}
	f.editor = New(c, f.notes, f.reloader, logger)
	return f
}

func TestNewGroupSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.editor.Open(ctx, models.NewGroupID); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if f.editor.State() != OpenNew {
		t.Fatalf("State() = %s, want open(new)", f.editor.State())
	}

	f.editor.SetName("Engineering")
	f.editor.AddOrUpdateTarget(models.Target{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "JANE@EXAMPLE.com",
		Position:  "Eng",
	})

	if _, err := f.editor.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	creates := f.fake.RequestsTo(http.MethodPost, "/groups/")
	if len(creates) != 1 {
		t.Fatalf("expected 1 create request, got %d", len(creates))
	}

	var sent models.Group
	if err := creates[0].Decode(&sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sent.Targets) != 1 || sent.Targets[0].Email != "jane@example.com" {
		t.Errorf("sent targets = %+v", sent.Targets)
	}
	if sent.Name != "Engineering" {
		t.Errorf("sent name = %q", sent.Name)
	}

	if f.editor.State() != Closed {
		t.Errorf("State() = %s, want closed", f.editor.State())
	}
	if len(f.editor.Targets()) != 0 {
		t.Error("working set not discarded after save")
	}
	if f.reloader.count() != 1 {
		t.Errorf("reloads = %d, want 1", f.reloader.count())
	}
	if fl := f.notes.Flash(); fl == nil || fl.Kind != notify.KindSuccess {
		t.Errorf("flash = %+v", fl)
	}
}

func TestExistingGroupUpdateInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.AddGroup(models.Group{
		ID:      7,
		Name:    "Sales",
		Targets: []models.Target{{FirstName: "A", LastName: "Old", Email: "a@x.com"}},
	})

	if err := f.editor.Open(ctx, 7); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if f.editor.State() != OpenExisting || f.editor.Name() != "Sales" {
		t.Fatalf("state = %s, name = %q", f.editor.State(), f.editor.Name())
	}

	f.editor.AddOrUpdateTarget(models.Target{FirstName: "A", LastName: "New", Email: "A@X.com"})

	targets := f.editor.Targets()
	if len(targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(targets))
	}
	if targets[0].LastName != "New" || targets[0].Email != "a@x.com" {
		t.Errorf("target = %+v", targets[0])
	}

	if _, err := f.editor.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := len(f.fake.RequestsTo(http.MethodPut, "/groups/7")); got != 1 {
		t.Errorf("expected 1 update request, got %d", got)
	}
	if got := len(f.fake.RequestsTo(http.MethodPost, "/groups/")); got != 0 {
		t.Errorf("expected no create request, got %d", got)
	}

	stored, _ := f.fake.Group(7)
	if len(stored.Targets) != 1 || stored.Targets[0].LastName != "New" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestSaveFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.Fail(http.MethodPost, "/groups/", http.StatusConflict, "name already exists")

	f.editor.Open(ctx, models.NewGroupID)
	f.editor.SetName("Duplicate")
	f.editor.AddOrUpdateTarget(models.Target{Email: "a@x.com"})
	f.editor.AddOrUpdateTarget(models.Target{Email: "b@x.com"})
	before := f.editor.Targets()

	_, err := f.editor.Save(ctx)
	if err == nil {
		t.Fatal("expected Save() to fail")
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected *client.APIError in chain, got %v", err)
	}
	if f.editor.State() != OpenNew {
		t.Errorf("State() = %s, want open(new)", f.editor.State())
	}
	after := f.editor.Targets()
	if len(after) != len(before) || after[0] != before[0] || after[1] != before[1] {
		t.Errorf("working set changed: %+v -> %+v", before, after)
	}
	if f.notes.Modal() != "name already exists" {
		t.Errorf("modal error = %q", f.notes.Modal())
	}
	if f.reloader.count() != 0 {
		t.Errorf("reloads = %d, want 0", f.reloader.count())
	}

	// retry without re-entering data
	f.fake.Recover()
	if _, err := f.editor.Save(ctx); err != nil {
		t.Fatalf("retry Save() error = %v", err)
	}
	if f.editor.State() != Closed {
		t.Errorf("State() = %s after retry", f.editor.State())
	}
}

func TestOpenFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.editor.Open(ctx, 42); err == nil {
		t.Fatal("expected Open() of a missing group to fail")
	}
	if f.editor.State() != Closed {
		t.Errorf("State() = %s, want closed", f.editor.State())
	}
	if len(f.editor.Targets()) != 0 {
		t.Error("expected empty working set")
	}
	if fl := f.notes.Flash(); fl == nil || fl.Kind != notify.KindError || fl.Message != "Group not found" {
		t.Errorf("flash = %+v", fl)
	}
}

func TestMutationsRequireOpenSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.editor.AddOrUpdateTarget(models.Target{Email: "a@x.com"}) {
		t.Error("AddOrUpdateTarget() on a closed editor = true")
	}
	if f.editor.SetName("x") {
		t.Error("SetName() on a closed editor = true")
	}
	if _, err := f.editor.Save(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Save() error = %v, want ErrClosed", err)
	}
	if _, err := f.editor.ImportCSV(ctx, "a.csv", strings.NewReader("")); !errors.Is(err, ErrClosed) {
		t.Errorf("ImportCSV() error = %v, want ErrClosed", err)
	}
	if len(f.fake.Requests()) != 0 {
		t.Error("closed editor issued requests")
	}
}

func TestDismissDiscards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.editor.Open(ctx, models.NewGroupID)
	f.editor.AddOrUpdateTarget(models.Target{Email: "a@x.com"})
	f.editor.Dismiss()

	if f.editor.State() != Closed || len(f.editor.Targets()) != 0 {
		t.Errorf("state = %s, targets = %d", f.editor.State(), len(f.editor.Targets()))
	}
	if len(f.fake.Requests()) != 0 {
		t.Error("dismiss issued requests")
	}
}

func TestRemoveTarget(t *testing.T) {
	f := newFixture(t)
	f.editor.Open(context.Background(), models.NewGroupID)
	f.editor.AddOrUpdateTarget(models.Target{Email: "a@x.com"})
	f.editor.AddOrUpdateTarget(models.Target{Email: "b@x.com"})

	if !f.editor.RemoveTarget(0) {
		t.Fatal("RemoveTarget(0) = false")
	}
	if f.editor.RemoveTarget(5) {
		t.Error("RemoveTarget(5) = true")
	}
	if !f.editor.RemoveEmail("B@x.com") {
		t.Error("RemoveEmail() = false")
	}
	if len(f.editor.Targets()) != 0 {
		t.Errorf("targets = %+v", f.editor.Targets())
	}
}

func TestImportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.editor.Open(ctx, models.NewGroupID)
	f.editor.AddOrUpdateTarget(models.Target{FirstName: "Old", Email: "jane@example.com"})

	data := "First_Name,Last_Name,Email,Position,Custom\n" +
		"Jane,Doe,JANE@example.com,Eng,\n" +
		"John,Roe,john@example.com,Ops,\n" +
		"John,Again,JOHN@EXAMPLE.COM,Ops,\n"

	n, err := f.editor.ImportCSV(ctx, "targets.csv", strings.NewReader(data))
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	if n != 3 {
		t.Errorf("imported %d rows, want 3", n)
	}

	targets := f.editor.Targets()
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets after dedup, got %+v", targets)
	}
	if targets[0].FirstName != "Jane" || targets[0].Email != "jane@example.com" {
		t.Errorf("targets[0] = %+v", targets[0])
	}
	if targets[1].LastName != "Again" {
		t.Errorf("targets[1] = %+v", targets[1])
	}
}

func TestImportCSVRejectsExtension(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.editor.Open(ctx, models.NewGroupID)

	_, err := f.editor.ImportCSV(ctx, "targets.xlsx", strings.NewReader("x"))

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(f.fake.RequestsTo(http.MethodPost, "/import/group")) != 0 {
		t.Error("rejected file was uploaded")
	}
	if f.notes.Modal() == "" {
		t.Error("expected a session error")
	}
}

func TestImportCSVServerError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.editor.Open(ctx, models.NewGroupID)
	f.editor.AddOrUpdateTarget(models.Target{Email: "a@x.com"})
	f.fake.Fail(http.MethodPost, "/import/group", http.StatusBadRequest, "Invalid CSV")

	if _, err := f.editor.ImportCSV(ctx, "t.csv", strings.NewReader("x")); err == nil {
		t.Fatal("expected error")
	}
	if f.notes.Modal() != "Invalid CSV" {
		t.Errorf("modal = %q", f.notes.Modal())
	}
	if len(f.editor.Targets()) != 1 {
		t.Error("working set changed on failed import")
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.fake.AddGroup(models.Group{
		Name: "Q1 Targets / 2024!",
		Targets: []models.Target{
			{FirstName: "B", Email: "b@x.com"},
			{FirstName: "A, Jr", Email: "a@x.com"},
		},
	})

	file, err := f.editor.Export(ctx, id)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if file.Filename != "group_q1_targets___2024_.csv" {
		t.Errorf("Filename = %q", file.Filename)
	}

	want := "First_Name,Last_Name,Email,Position,Custom\n" +
		"B,,b@x.com,,\n" +
		"\"A, Jr\",,a@x.com,,\n"
	if string(file.Data) != want {
		t.Errorf("Data =\n%s", file.Data)
	}
}

func TestExportFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.editor.Export(ctx, 99); err == nil {
		t.Fatal("expected error")
	}
	if fl := f.notes.Flash(); fl == nil || fl.Kind != notify.KindError {
		t.Errorf("flash = %+v", fl)
	}
}

func TestDeleteDeclined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.fake.AddGroup(models.Group{Name: "Keep", Targets: []models.Target{{Email: "a@x.com"}}})

	confirm := &notify.StaticConfirmer{Answer: false}
	err := f.editor.DeleteGroup(ctx, id, confirm)

	if !errors.Is(err, notify.ErrDeclined) {
		t.Errorf("DeleteGroup() error = %v, want ErrDeclined", err)
	}
	if len(confirm.Asked) != 1 || confirm.Asked[0].Button() != "Delete" {
		t.Errorf("confirmations asked = %+v", confirm.Asked)
	}
	if len(f.fake.Requests()) != 0 {
		t.Errorf("declined delete issued %d requests", len(f.fake.Requests()))
	}
	if f.reloader.count() != 0 {
		t.Error("list reloaded after declined delete")
	}
	if _, ok := f.fake.Group(id); !ok {
		t.Error("group was deleted")
	}
}

func TestDeleteConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.fake.AddGroup(models.Group{Name: "Gone", Targets: []models.Target{{Email: "a@x.com"}}})

	if err := f.editor.DeleteGroup(ctx, id, &notify.StaticConfirmer{Answer: true}); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
	if _, ok := f.fake.Group(id); ok {
		t.Error("group still stored")
	}
	if f.reloader.count() != 1 {
		t.Errorf("reloads = %d, want 1", f.reloader.count())
	}
}

func TestDeleteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.Fail(http.MethodDelete, "/groups/3", http.StatusBadRequest, "Group is used by a campaign")

	err := f.editor.DeleteGroup(ctx, 3, &notify.StaticConfirmer{Answer: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if fl := f.notes.Flash(); fl == nil || fl.Message != "Group is used by a campaign" {
		t.Errorf("flash = %+v", fl)
	}
	if f.reloader.count() != 0 {
		t.Error("list reloaded after failed delete")
	}
}

func TestMutationDuringSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.fake.Hold(http.MethodPost, "/groups/")
	defer release()

	f.editor.Open(ctx, models.NewGroupID)
	f.editor.SetName("Busy")
	f.editor.AddOrUpdateTarget(models.Target{Email: "a@x.com"})

	done := make(chan error, 1)
	go func() {
		_, err := f.editor.Save(ctx)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(f.fake.RequestsTo(http.MethodPost, "/groups/")) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("save request never reached the server")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !f.editor.AddOrUpdateTarget(models.Target{Email: "b@x.com"}) {
		t.Error("mutation blocked while a save is in flight")
	}

	release()
	if err := <-done; err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var sent models.Group
	f.fake.RequestsTo(http.MethodPost, "/groups/")[0].Decode(&sent)
	if len(sent.Targets) != 1 {
		t.Errorf("payload has %d targets, want the snapshot taken at save time", len(sent.Targets))
	}
}

func waitForRequest(t *testing.T, f *fixture, method, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(f.fake.RequestsTo(method, path)) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%s %s never reached the server", method, path)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSaveCompletesAfterReopen(t *testing.T) {
	tests := []struct {
		name string
		fail bool
	}{
		{"success", false},
		{"failure", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			if tt.fail {
				f.fake.Fail(http.MethodPost, "/groups/", http.StatusConflict, "name already exists")
			}
			release := f.fake.Hold(http.MethodPost, "/groups/")
			defer release()

			f.editor.Open(ctx, models.NewGroupID)
			f.editor.SetName("First")

			done := make(chan error, 1)
			go func() {
				_, err := f.editor.Save(ctx)
				done <- err
			}()
			waitForRequest(t, f, http.MethodPost, "/groups/")

			f.editor.Dismiss()
			f.editor.Open(ctx, models.NewGroupID)
			f.editor.SetName("Second")
			f.editor.AddOrUpdateTarget(models.Target{Email: "b@x.com"})

			release()
			err := <-done
			if (err != nil) != tt.fail {
				t.Fatalf("Save() error = %v", err)
			}

			if f.editor.State() != OpenNew {
				t.Fatalf("State() = %s, want the second session still open", f.editor.State())
			}
			if f.editor.Name() != "Second" || len(f.editor.Targets()) != 1 {
				t.Errorf("session = %q with %d targets", f.editor.Name(), len(f.editor.Targets()))
			}
			if f.notes.Modal() != "" {
				t.Errorf("modal error = %q leaked into the new session", f.notes.Modal())
			}

			flash := f.notes.Flash()
			if flash == nil {
				t.Fatal("expected a page notification")
			}
			if tt.fail && flash.Message != "name already exists" {
				t.Errorf("flash = %+v", flash)
			}
		})
	}
}

func TestOpenCollapsesDuplicateEmails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fake.AddGroup(models.Group{
		ID:   3,
		Name: "Legacy",
		Targets: []models.Target{
			{FirstName: "Old", Email: "a@x.com"},
			{FirstName: "Other", Email: "b@x.com"},
			{FirstName: "New", Email: "A@X.com"},
		},
	})

	if err := f.editor.Open(ctx, 3); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	targets := f.editor.Targets()
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %+v", targets)
	}
	if targets[0].Email != "a@x.com" || targets[0].FirstName != "New" {
		t.Errorf("targets[0] = %+v, want the later row at the first position", targets[0])
	}
	if targets[1].Email != "b@x.com" {
		t.Errorf("targets[1] = %+v", targets[1])
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  models.Target
		wantErr bool
	}{
		{"valid", models.Target{Email: "jane@example.com"}, false},
		{"names optional", models.Target{Email: "a@b.co"}, false},
		{"missing email", models.Target{FirstName: "Jane"}, true},
		{"not an address", models.Target{Email: "jane"}, true},
		{"display name", models.Target{Email: "Jane <jane@example.com>"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("Jane, Doe ,jane@example.com,Eng")
	if err != nil {
		t.Fatalf("ParseTarget() error = %v", err)
	}
	want := models.Target{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Position: "Eng"}
	if got != want {
		t.Errorf("ParseTarget() = %+v, want %+v", got, want)
	}

	if _, err := ParseTarget("Jane,Doe"); err == nil {
		t.Error("expected error without an email")
	}
}
