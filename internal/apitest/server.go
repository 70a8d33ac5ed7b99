// Package apitest is an in-process fake of the platform REST API used by
// the client, editor and view tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foxzi/lure/internal/models"
)

// Request is one request received by the fake
type Request struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	RequestID   string
	Body        []byte
}

// Decode unmarshals the request body into v
func (r Request) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

type failure struct {
	status  int
	message string
}

// Server is the fake platform API. It implements http.Handler.
type Server struct {
	router *chi.Mux
	apiKey string
	logger *slog.Logger

	mu       sync.Mutex
	requests []Request
	failures map[string]failure
	holds    map[string]chan struct{}

	groups    *table[models.Group]
	campaigns *table[models.Campaign]
	templates *table[models.Template]
	pages     *table[models.Page]
	smtp      *table[models.SMTP]
	users     *table[models.User]
	webhooks  *table[models.Webhook]
	qrcodes   *table[models.QRCode]
	reports   *table[models.NonCampaignReport]
	imap      models.IMAP
}

// New creates a fake API accepting apiKey as bearer token
func New(apiKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		router:   chi.NewRouter(),
		apiKey:   apiKey,
		logger:   logger,
		failures: make(map[string]failure),
		holds:    make(map[string]chan struct{}),

		groups: newTable(
			func(g models.Group) int64 { return int64(g.ID) },
			func(g *models.Group, id int64) { g.ID = models.GroupID(id) },
		),
		campaigns: newTable(
			func(c models.Campaign) int64 { return c.ID },
			func(c *models.Campaign, id int64) { c.ID = id },
		),
		templates: newTable(
			func(t models.Template) int64 { return t.ID },
			func(t *models.Template, id int64) { t.ID = id },
		),
		pages: newTable(
			func(p models.Page) int64 { return p.ID },
			func(p *models.Page, id int64) { p.ID = id },
		),
		smtp: newTable(
			func(p models.SMTP) int64 { return p.ID },
			func(p *models.SMTP, id int64) { p.ID = id },
		),
		users: newTable(
			func(u models.User) int64 { return u.ID },
			func(u *models.User, id int64) { u.ID = id },
		),
		webhooks: newTable(
			func(w models.Webhook) int64 { return w.ID },
			func(w *models.Webhook, id int64) { w.ID = id },
		),
		qrcodes: newTable(
			func(q models.QRCode) int64 { return q.ID },
			func(q *models.QRCode, id int64) { q.ID = id },
		),
		reports: newTable(
			func(r models.NonCampaignReport) int64 { return r.ID },
			func(r *models.NonCampaignReport, id int64) { r.ID = id },
		),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.recordMiddleware)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.failureMiddleware)

		r.Get("/campaigns/", s.handleCampaigns)
		r.Post("/campaigns/", s.handleCreateCampaign)
		r.Get("/campaigns/summary", s.handleCampaignSummaries)
		r.Get("/campaigns/{id}", getHandler(s.campaigns, "Campaign not found"))
		r.Delete("/campaigns/{id}", deleteHandler(s.campaigns, "Campaign deleted successfully!"))
		r.Get("/campaigns/{id}/results", s.handleCampaignResults)
		r.Get("/campaigns/{id}/summary", s.handleCampaignSummary)
		r.Get("/campaigns/{id}/complete", s.handleCompleteCampaign)

		r.Get("/groups/", listHandler(s.groups))
		r.Post("/groups/", s.handleCreateGroup)
		r.Get("/groups/summary", s.handleGroupSummaries)
		r.Get("/groups/{id}", getHandler(s.groups, "Group not found"))
		r.Put("/groups/{id}", s.handleUpdateGroup)
		r.Delete("/groups/{id}", deleteHandler(s.groups, "Group deleted successfully!"))

		r.Get("/templates/", listHandler(s.templates))
		r.Post("/templates/", createHandler(s.templates))
		r.Get("/templates/{id}", getHandler(s.templates, "Template not found"))
		r.Put("/templates/{id}", updateHandler(s.templates, "Template not found"))
		r.Delete("/templates/{id}", deleteHandler(s.templates, "Template deleted successfully!"))

		r.Get("/pages/", listHandler(s.pages))
		r.Post("/pages/", createHandler(s.pages))
		r.Get("/pages/{id}", getHandler(s.pages, "Page not found"))
		r.Put("/pages/{id}", updateHandler(s.pages, "Page not found"))
		r.Delete("/pages/{id}", deleteHandler(s.pages, "Page deleted successfully!"))

		r.Get("/smtp/", listHandler(s.smtp))
		r.Post("/smtp/", createHandler(s.smtp))
		r.Get("/smtp/{id}", getHandler(s.smtp, "SMTP not found"))
		r.Put("/smtp/{id}", updateHandler(s.smtp, "SMTP not found"))
		r.Delete("/smtp/{id}", deleteHandler(s.smtp, "SMTP deleted successfully!"))

		r.Get("/imap/", s.handleIMAP)
		r.Post("/imap/", s.handleSaveIMAP)
		r.Post("/imap/validate", s.handleValidateIMAP)
		r.Get("/imap/non_campaign_reports", s.handleReports)
		r.Delete("/imap/non_campaign_reports", s.handleClearReports)

		r.Get("/users/", listHandler(s.users))
		r.Post("/users/", createHandler(s.users))
		r.Get("/users/{id}", getHandler(s.users, "User not found"))
		r.Put("/users/{id}", updateHandler(s.users, "User not found"))
		r.Delete("/users/{id}", deleteHandler(s.users, "User deleted successfully!"))

		r.Get("/webhooks/", listHandler(s.webhooks))
		r.Post("/webhooks/", createHandler(s.webhooks))
		r.Get("/webhooks/{id}", getHandler(s.webhooks, "Webhook not found"))
		r.Put("/webhooks/{id}", updateHandler(s.webhooks, "Webhook not found"))
		r.Delete("/webhooks/{id}", deleteHandler(s.webhooks, "Webhook deleted successfully!"))
		r.Post("/webhooks/{id}/validate", s.handlePingWebhook)

		r.Get("/qr_code/", s.handleQRCodes)
		r.Post("/qr_code/", s.handleCreateQRCode)
		r.Delete("/qr_code/{id}", s.handleDeleteQRCode)
		r.Get("/qr_code/{id}/download", s.handleDownloadQRCode)

		r.Post("/import/group", s.handleImportGroup)
		r.Post("/import/email", s.handleImportEmail)
		r.Post("/import/site", s.handleImportSite)
		r.Post("/util/send_test_email", s.handleSendTestEmail)
		r.Post("/reset", s.handleReset)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// recordMiddleware appends every request to the request log
func (s *Server) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        strings.TrimPrefix(r.URL.Path, "/api"),
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-ID"),
			Body:        body,
		})
		s.mu.Unlock()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("fake api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		key := s.apiKey
		s.mu.Unlock()

		auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if key != "" && auth != key {
			sendError(w, http.StatusUnauthorized, "Invalid API Key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// failureMiddleware serves injected failures and waits on held routes
func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, strings.TrimPrefix(r.URL.Path, "/api"))

		s.mu.Lock()
		f, failed := s.failures[key]
		hold := s.holds[key]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if failed {
			sendError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Fail makes every request to method and path answer with status and a
// JSON error carrying message
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, path)] = failure{status: status, message: message}
}

// Recover removes every injected failure
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// Hold blocks requests to method and path until the returned function is called
func (s *Server) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	key := routeKey(method, path)

	s.mu.Lock()
	s.holds[key] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, key)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns the request log
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns logged requests matching method and path
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ResetLog clears the request log
func (s *Server) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, models.Response{Success: false, Message: message})
}

func sendOK(w http.ResponseWriter, message string) {
	sendJSON(w, http.StatusOK, models.Response{Success: true, Message: message})
}
