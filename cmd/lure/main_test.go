package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/foxzi/lure/internal/apitest"
	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/config"
	"github.com/foxzi/lure/internal/editor"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
	"github.com/foxzi/lure/internal/session"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.level); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webhook.json")
	if err := os.WriteFile(path, []byte(`{"name":"SIEM","url":"https://siem.example.com/hook","is_active":true}`), 0644); err != nil {
		t.Fatal(err)
	}

	var w models.Webhook
	if err := readJSONFile(path, &w); err != nil {
		t.Fatalf("readJSONFile() error = %v", err)
	}
	if w.Name != "SIEM" || !w.IsActive {
		t.Errorf("webhook = %+v", w)
	}

	if err := readJSONFile(filepath.Join(t.TempDir(), "missing.json"), &w); err == nil {
		t.Error("readJSONFile() expected error for missing file")
	}
}

func profileConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Profiles: config.ProfilesConfig{Path: filepath.Join(t.TempDir(), "profiles.db")},
	}
}

func saveProfile(t *testing.T, cfg *config.Config, p *session.Profile, current bool) {
	t.Helper()
	store, err := session.OpenProfileStore(cfg.Profiles.Path)
	if err != nil {
		t.Fatalf("OpenProfileStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if current {
		if err := store.SetCurrent(p.Name); err != nil {
			t.Fatalf("SetCurrent() error = %v", err)
		}
	}
}

func TestResolveSessionFromConfig(t *testing.T) {
	cfg := profileConfig(t)
	cfg.Server.BaseURL = "https://phish.example.com/"
	cfg.Server.APIKey = "secret"

	sess, name, err := resolveSession(cfg, "")
	if err != nil {
		t.Fatalf("resolveSession() error = %v", err)
	}
	if sess.BaseURL != "https://phish.example.com" || sess.APIKey != "secret" {
		t.Errorf("session = %+v", sess)
	}
	if name != "" {
		t.Errorf("profile = %q, want empty", name)
	}
}

func TestResolveSessionFromProfile(t *testing.T) {
	cfg := profileConfig(t)
	saveProfile(t, cfg, &session.Profile{Name: "staging", BaseURL: "https://staging.example.com", APIKey: "k1", Username: "admin"}, true)
	saveProfile(t, cfg, &session.Profile{Name: "prod", BaseURL: "https://prod.example.com", APIKey: "k2"}, false)

	sess, name, err := resolveSession(cfg, "")
	if err != nil {
		t.Fatalf("resolveSession() error = %v", err)
	}
	if name != "staging" || sess.APIKey != "k1" || sess.Username() != "admin" {
		t.Errorf("current profile: name = %q, session = %+v", name, sess)
	}

	// An explicit profile wins over the current one and over config credentials
	cfg.Server.BaseURL = "https://other.example.com"
	cfg.Server.APIKey = "other"
	sess, name, err = resolveSession(cfg, "prod")
	if err != nil {
		t.Fatalf("resolveSession() error = %v", err)
	}
	if name != "prod" || sess.BaseURL != "https://prod.example.com" {
		t.Errorf("named profile: name = %q, session = %+v", name, sess)
	}
}

func TestResolveSessionDefaultProfile(t *testing.T) {
	cfg := profileConfig(t)
	saveProfile(t, cfg, &session.Profile{Name: "lab", BaseURL: "http://localhost:3333", APIKey: "k"}, false)
	cfg.Profiles.Default = "lab"

	_, name, err := resolveSession(cfg, "")
	if err != nil {
		t.Fatalf("resolveSession() error = %v", err)
	}
	if name != "lab" {
		t.Errorf("profile = %q, want lab", name)
	}
}

func TestResolveSessionErrors(t *testing.T) {
	cfg := profileConfig(t)

	if _, _, err := resolveSession(cfg, ""); err == nil {
		t.Error("resolveSession() expected error with nothing configured")
	}
	if _, _, err := resolveSession(cfg, "missing"); err == nil {
		t.Error("resolveSession() expected error for unknown profile")
	}
}

type groupFixture struct {
	fake   *apitest.Server
	editor *editor.Editor
	notes  *notify.Recorder
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fake := apitest.New("key", logger)
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	c, err := client.New(session.New(ts.URL, "key"), client.WithLogger(logger))
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	notes := notify.NewRecorder(nil)
	return &groupFixture{
		fake:   fake,
		editor: editor.New(c, notes, nil, logger),
		notes:  notes,
	}
}

func TestEditGroupCreate(t *testing.T) {
	f := newGroupFixture(t)
	name := "Finance"

	saved, err := editGroup(context.Background(), f.editor, f.notes, models.NewGroupID, groupEdits{
		name: &name,
		targets: []string{
			"Ada,Lovelace,ada@example.com,CFO",
			"Alan,Turing,alan@example.com",
			"Ada,King,ADA@example.com,Countess",
		},
		remove: []string{"alan@example.com"},
	})
	if err != nil {
		t.Fatalf("editGroup() error = %v", err)
	}

	g, ok := f.fake.Group(saved.ID)
	if !ok {
		t.Fatalf("group %s not stored", saved.ID)
	}
	if g.Name != "Finance" {
		t.Errorf("Name = %q", g.Name)
	}
	if len(g.Targets) != 1 || g.Targets[0].LastName != "King" {
		t.Errorf("Targets = %+v, want the replaced Ada only", g.Targets)
	}
	if flash := f.notes.Flash(); flash == nil || flash.Message != "Group added successfully!" {
		t.Errorf("Flash() = %+v", flash)
	}
	if f.editor.State() != editor.Closed {
		t.Errorf("State() = %v, want closed", f.editor.State())
	}
}

func TestEditGroupUpdateKeepsName(t *testing.T) {
	f := newGroupFixture(t)
	id := f.fake.AddGroup(models.Group{
		Name:    "Sales",
		Targets: []models.Target{{Email: "bob@example.com"}},
	})

	_, err := editGroup(context.Background(), f.editor, f.notes, id, groupEdits{
		targets: []string{",,carol@example.com"},
	})
	if err != nil {
		t.Fatalf("editGroup() error = %v", err)
	}

	g, _ := f.fake.Group(id)
	if g.Name != "Sales" || len(g.Targets) != 2 {
		t.Errorf("group = %+v", g)
	}
	if len(f.fake.RequestsTo(http.MethodPut, "/groups/"+id.String())) != 1 {
		t.Error("expected one PUT")
	}
}

func TestEditGroupInvalidTarget(t *testing.T) {
	f := newGroupFixture(t)
	name := "Ops"

	_, err := editGroup(context.Background(), f.editor, f.notes, models.NewGroupID, groupEdits{
		name:    &name,
		targets: []string{"No,Email,,Tester"},
	})

	var verr *editor.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("editGroup() error = %v, want ValidationError", err)
	}
	if len(f.fake.RequestsTo(http.MethodPost, "/groups/")) != 0 {
		t.Error("no save request expected after a validation failure")
	}
	if f.notes.Modal() == "" {
		t.Error("validation failure should be shown in the modal")
	}
	if f.editor.State() != editor.OpenNew {
		t.Errorf("State() = %v, want the session kept open", f.editor.State())
	}
}

func TestEditGroupRemoveUnknown(t *testing.T) {
	f := newGroupFixture(t)
	id := f.fake.AddGroup(models.Group{
		Name:    "Sales",
		Targets: []models.Target{{Email: "bob@example.com"}},
	})

	_, err := editGroup(context.Background(), f.editor, f.notes, id, groupEdits{
		remove: []string{"nobody@example.com"},
	})
	if err == nil {
		t.Fatal("editGroup() expected error")
	}
	if len(f.fake.RequestsTo(http.MethodPut, "/groups/"+id.String())) != 0 {
		t.Error("no save request expected")
	}
}

func TestEditGroupImport(t *testing.T) {
	f := newGroupFixture(t)
	name := "Imported"

	path := filepath.Join(t.TempDir(), "targets.csv")
	csv := "First Name,Last Name,Email,Position\nGrace,Hopper,grace@example.com,Admiral\nLinus,Torvalds,linus@example.com,Maintainer\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	saved, err := editGroup(context.Background(), f.editor, f.notes, models.NewGroupID, groupEdits{
		name:    &name,
		imports: []string{path},
		remove:  []string{"linus@example.com"},
	})
	if err != nil {
		t.Fatalf("editGroup() error = %v", err)
	}

	g, _ := f.fake.Group(saved.ID)
	if len(g.Targets) != 1 || g.Targets[0].Email != "grace@example.com" {
		t.Errorf("Targets = %+v", g.Targets)
	}
}

func TestEditGroupSaveFailure(t *testing.T) {
	f := newGroupFixture(t)
	f.fake.Fail(http.MethodPost, "/groups/", http.StatusConflict, "Group name already in use")
	name := "Dup"

	_, err := editGroup(context.Background(), f.editor, f.notes, models.NewGroupID, groupEdits{
		name:    &name,
		targets: []string{",,a@example.com"},
	})
	if err == nil {
		t.Fatal("editGroup() expected error")
	}
	if got := f.notes.Modal(); got != "Group name already in use" {
		t.Errorf("Modal() = %q", got)
	}
}

type countingLoader struct {
	mu     sync.Mutex
	n      int
	stopAt int
	cancel context.CancelFunc
	err    error
}

func (l *countingLoader) Load(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.n++
	if l.n == l.stopAt {
		l.cancel()
	}
	return l.err
}

func TestWatchReloadsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := &countingLoader{stopAt: 3, cancel: cancel, err: errors.New("server unavailable")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan error, 1)
	go func() { done <- watch(ctx, l, time.Millisecond, logger) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch() did not stop after cancel")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.n != 3 {
		t.Errorf("loads = %d, want 3", l.n)
	}
}
