package views

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foxzi/lure/internal/apitest"
	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
	"github.com/foxzi/lure/internal/session"
)

type fixture struct {
	client *client.Client
	fake   *apitest.Server
	out    *bytes.Buffer
	status *bytes.Buffer
	notes  *notify.Recorder
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

	return &fixture{
		client: c,
		fake:   fake,
		out:    &bytes.Buffer{},
		status: &bytes.Buffer{},
		notes:  notify.NewRecorder(nil),
	}
}

func (f *fixture) surface() Surface {
	return Surface{Out: f.out, Status: f.status, Notifier: f.notes}
}

func TestListViewEmpty(t *testing.T) {
	f := newFixture(t)
	v := Groups(f.client, f.surface())

	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(f.status.String(), "Loading groups...") {
		t.Errorf("status = %q", f.status.String())
	}
	if strings.TrimSpace(f.out.String()) != "No groups created yet. Let's create one!" {
		t.Errorf("out = %q", f.out.String())
	}
}

func TestListViewGrid(t *testing.T) {
	f := newFixture(t)
	f.fake.AddGroup(models.Group{Name: "Sales", Targets: []models.Target{{Email: "a@x.com"}, {Email: "b@x.com"}}})
	f.fake.AddGroup(models.Group{Name: "Ops\tTeam\x1b[31m", Targets: []models.Target{{Email: "c@x.com"}}})

	v := Groups(f.client, f.surface())
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(f.out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", f.out.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "MEMBERS") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Sales") || !strings.Contains(lines[1], "2") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if strings.Contains(lines[2], "\x1b") || !strings.Contains(lines[2], "Ops Team[31m") {
		t.Errorf("row 2 not sanitized: %q", lines[2])
	}
	if len(v.Rows()) != 2 {
		t.Errorf("Rows() = %d", len(v.Rows()))
	}
}

func TestListViewFetchError(t *testing.T) {
	f := newFixture(t)
	f.fake.Fail(http.MethodGet, "/templates/", http.StatusInternalServerError, "database is locked")

	v := Templates(f.client, f.surface())
	if err := v.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if fl := f.notes.Flash(); fl == nil || fl.Kind != notify.KindError || fl.Message != "database is locked" {
		t.Errorf("flash = %+v", fl)
	}
	if f.out.Len() != 0 {
		t.Errorf("grid rendered on failure: %q", f.out.String())
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\tb\nc", "a b c"},
		{"bell\a", "bell"},
		{"<script>", "<script>"},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunActionDeclined(t *testing.T) {
	f := newFixture(t)
	id := f.fake.AddWebhook(models.Webhook{Name: "hook", URL: "http://example.com"})
	v := Webhooks(f.client, f.surface())

	ran := false
	err := RunAction(context.Background(), v, &notify.StaticConfirmer{Answer: false}, f.notes, Action{
		Confirm: "Delete webhook?",
		Run: func(ctx context.Context) error {
			ran = true
			_, err := f.client.DeleteWebhook(ctx, id).Await(ctx)
			return err
		},
	})

	if !errors.Is(err, notify.ErrDeclined) {
		t.Errorf("RunAction() error = %v", err)
	}
	if ran {
		t.Error("declined action ran")
	}
	if len(f.fake.Requests()) != 0 {
		t.Error("declined action issued requests")
	}
	if f.out.Len() != 0 {
		t.Error("view refreshed after declined action")
	}
}

func TestRunActionRefreshes(t *testing.T) {
	f := newFixture(t)
	id := f.fake.AddWebhook(models.Webhook{Name: "hook", URL: "http://example.com"})
	f.fake.AddWebhook(models.Webhook{Name: "other", URL: "http://example.org"})
	v := Webhooks(f.client, f.surface())

	confirm := &notify.StaticConfirmer{Answer: true}
	err := RunAction(context.Background(), v, confirm, f.notes, Action{
		Confirm: "Delete webhook?",
		Button:  "Delete",
		Success: "Webhook deleted successfully!",
		Failure: "Error deleting webhook",
		Run: func(ctx context.Context) error {
			_, err := f.client.DeleteWebhook(ctx, id).Await(ctx)
			return err
		},
	})
	if err != nil {
		t.Fatalf("RunAction() error = %v", err)
	}

	if len(f.fake.RequestsTo(http.MethodGet, "/webhooks/")) != 1 {
		t.Error("expected the list to be refreshed once")
	}
	if rows := v.Rows(); len(rows) != 1 || rows[0].Name != "other" {
		t.Errorf("rows after refresh = %+v", rows)
	}
	if fl := f.notes.Flash(); fl == nil || fl.Message != "Webhook deleted successfully!" {
		t.Errorf("flash = %+v", fl)
	}
	if len(confirm.Asked) != 1 || confirm.Asked[0].Button() != "Delete" {
		t.Errorf("confirmations asked = %+v", confirm.Asked)
	}
}

func TestRunActionFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.Fail(http.MethodDelete, "/pages/4", http.StatusBadRequest, "Page is used by a campaign")
	v := Pages(f.client, f.surface())

	err := RunAction(context.Background(), v, nil, f.notes, Action{
		Failure: "Error deleting page",
		Run: func(ctx context.Context) error {
			_, err := f.client.DeletePage(ctx, 4).Await(ctx)
			return err
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if fl := f.notes.Flash(); fl == nil || fl.Message != "Page is used by a campaign" {
		t.Errorf("flash = %+v", fl)
	}
	if len(f.fake.RequestsTo(http.MethodGet, "/pages/")) != 0 {
		t.Error("list refreshed after failed action")
	}
}

func TestReportsView(t *testing.T) {
	f := newFixture(t)
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.fake.AddReport(models.NonCampaignReport{IMAPID: 1, ReporterEmail: "a@x.com", Subject: "Invoice", ReportedAt: when})
	f.fake.AddReport(models.NonCampaignReport{IMAPID: 2, ReporterEmail: "b@x.com", Subject: "Prize"})

	v := Reports(f.client, f.surface(), 1)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out := f.out.String()
	if !strings.HasPrefix(out, "Reports: 1  Last reported: ") {
		t.Errorf("missing stats header: %q", out)
	}
	if !strings.Contains(out, "Invoice") || strings.Contains(out, "Prize") {
		t.Errorf("unexpected rows: %q", out)
	}
}

func TestActiveCampaigns(t *testing.T) {
	f := newFixture(t)
	f.fake.AddCampaign(models.Campaign{Name: "running", Status: models.CampaignInProgress})
	f.fake.AddCampaign(models.Campaign{Name: "done", Status: models.CampaignComplete})

	v := ActiveCampaigns(f.client, f.surface())
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rows := v.Rows()
	if len(rows) != 1 || rows[0].Name != "running" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestCampaignsViewStats(t *testing.T) {
	f := newFixture(t)
	f.fake.AddCampaign(models.Campaign{
		Name:   "q1",
		Status: models.CampaignInProgress,
		Results: []models.Result{
			{Email: "a@x.com", Status: "Clicked Link"},
			{Email: "b@x.com", Status: "Email Sent", Reported: true},
		},
	})

	v := Campaigns(f.client, f.surface())
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	rows := v.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	st := rows[0].Stats
	if st.EmailsSent != 2 || st.ClickedLink != 1 || st.EmailReported != 1 {
		t.Errorf("stats = %+v", st)
	}
}
