package apitest

import "github.com/foxzi/lure/internal/models"

// AddGroup stores g, keeping its id when it is positive
func (s *Server) AddGroup(g models.Group) models.GroupID {
	if g.ID.IsNew() {
		g.ID = 0
	}
	return s.groups.insert(g).ID
}

// Group returns the stored group with the given id
func (s *Server) Group(id models.GroupID) (models.Group, bool) {
	return s.groups.get(int64(id))
}

// GroupCount returns the number of stored groups
func (s *Server) GroupCount() int {
	return len(s.groups.list())
}

func (s *Server) AddCampaign(c models.Campaign) int64 {
	return s.campaigns.insert(c).ID
}

func (s *Server) Campaign(id int64) (models.Campaign, bool) {
	return s.campaigns.get(id)
}

func (s *Server) AddTemplate(t models.Template) int64 {
	return s.templates.insert(t).ID
}

func (s *Server) AddPage(p models.Page) int64 {
	return s.pages.insert(p).ID
}

func (s *Server) AddSMTP(p models.SMTP) int64 {
	return s.smtp.insert(p).ID
}

func (s *Server) AddUser(u models.User) int64 {
	return s.users.insert(u).ID
}

func (s *Server) AddWebhook(w models.Webhook) int64 {
	return s.webhooks.insert(w).ID
}

func (s *Server) AddQRCode(q models.QRCode) int64 {
	return s.qrcodes.insert(q).ID
}

// QRCodeCount returns the number of stored QR codes
func (s *Server) QRCodeCount() int {
	return len(s.qrcodes.list())
}

func (s *Server) AddReport(r models.NonCampaignReport) int64 {
	return s.reports.insert(r).ID
}

// ReportCount returns the number of stored non-campaign reports
func (s *Server) ReportCount() int {
	return len(s.reports.list())
}

// APIKey returns the key currently accepted by the fake
func (s *Server) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey
}
