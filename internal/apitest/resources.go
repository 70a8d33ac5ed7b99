package apitest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foxzi/lure/internal/models"
)

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.campaigns.list())
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var c models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if c.Name == "" {
		sendError(w, http.StatusBadRequest, "Campaign name not specified")
		return
	}
	if len(c.Groups) == 0 {
		sendError(w, http.StatusBadRequest, "No groups specified")
		return
	}
	c.ID = 0
	c.Status = models.CampaignQueued
	c.CreatedDate = time.Now().UTC()
	sendJSON(w, http.StatusCreated, s.campaigns.insert(c))
}

func summarize(c models.Campaign) models.CampaignSummary {
	sum := models.CampaignSummary{
		ID:            c.ID,
		Name:          c.Name,
		CreatedDate:   c.CreatedDate,
		LaunchDate:    c.LaunchDate,
		SendByDate:    c.SendByDate,
		CompletedDate: c.CompletedDate,
		Status:        c.Status,
	}

	for _, res := range c.Results {
		sum.Stats.Total++
		switch res.Status {
		case "Email Sent":
			sum.Stats.EmailsSent++
		case "Email Opened":
			sum.Stats.EmailsSent++
			sum.Stats.OpenedEmail++
		case "Clicked Link":
			sum.Stats.EmailsSent++
			sum.Stats.OpenedEmail++
			sum.Stats.ClickedLink++
		case "Submitted Data":
			sum.Stats.EmailsSent++
			sum.Stats.OpenedEmail++
			sum.Stats.ClickedLink++
			sum.Stats.SubmittedData++
		case "Error":
			sum.Stats.Error++
		}
		if res.Reported {
			sum.Stats.EmailReported++
		}
	}
	return sum
}

func (s *Server) handleCampaignSummaries(w http.ResponseWriter, r *http.Request) {
	campaigns := s.campaigns.list()
	resp := models.CampaignSummaries{
		Total:     int64(len(campaigns)),
		Campaigns: make([]models.CampaignSummary, 0, len(campaigns)),
	}
	for _, c := range campaigns {
		resp.Campaigns = append(resp.Campaigns, summarize(c))
	}
	sendJSON(w, http.StatusOK, resp)
}

func (s *Server) campaign(w http.ResponseWriter, r *http.Request) (models.Campaign, bool) {
	id, ok := urlID(r)
	if ok {
		if c, found := s.campaigns.get(id); found {
			return c, true
		}
	}
	sendError(w, http.StatusNotFound, "Campaign not found")
	return models.Campaign{}, false
}

func (s *Server) handleCampaignSummary(w http.ResponseWriter, r *http.Request) {
	if c, ok := s.campaign(w, r); ok {
		sendJSON(w, http.StatusOK, summarize(c))
	}
}

func (s *Server) handleCampaignResults(w http.ResponseWriter, r *http.Request) {
	c, ok := s.campaign(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, models.CampaignResults{
		ID:      c.ID,
		Name:    c.Name,
		Status:  c.Status,
		Results: c.Results,
		Events:  c.Events,
	})
}

func (s *Server) handleCompleteCampaign(w http.ResponseWriter, r *http.Request) {
	c, ok := s.campaign(w, r)
	if !ok {
		return
	}
	c.Status = models.CampaignComplete
	c.CompletedDate = time.Now().UTC()
	s.campaigns.replace(c.ID, c)
	sendOK(w, "Campaign completed successfully!")
}

func (s *Server) handleIMAP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sendJSON(w, http.StatusOK, []models.IMAP{s.imap})
}

func (s *Server) handleSaveIMAP(w http.ResponseWriter, r *http.Request) {
	var im models.IMAP
	if err := json.NewDecoder(r.Body).Decode(&im); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	im.ModifiedDate = time.Now().UTC()

	s.mu.Lock()
	s.imap = im
	s.mu.Unlock()

	sendOK(w, "Successfully saved IMAP settings.")
}

func (s *Server) handleValidateIMAP(w http.ResponseWriter, r *http.Request) {
	var im models.IMAP
	if err := json.NewDecoder(r.Body).Decode(&im); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if im.Host == "" {
		sendJSON(w, http.StatusOK, models.Response{Success: false, Message: "No IMAP Host specified"})
		return
	}
	sendOK(w, "Successful login.")
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	var filter int64
	if v := r.URL.Query().Get("imap_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			sendError(w, http.StatusBadRequest, "Invalid imap_id")
			return
		}
		filter = n
	}

	resp := models.NonCampaignReports{Reports: []models.NonCampaignReport{}}
	for _, rep := range s.reports.list() {
		if filter > 0 && rep.IMAPID != filter {
			continue
		}
		resp.Reports = append(resp.Reports, rep)
		resp.Stats.UserID = rep.UserID
		resp.Stats.ReportCount++
		if rep.ReportedAt.After(resp.Stats.LastReportedAt) {
			resp.Stats.LastReportedAt = rep.ReportedAt
		}
	}
	sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearReports(w http.ResponseWriter, r *http.Request) {
	filter, _ := strconv.ParseInt(r.URL.Query().Get("imap_id"), 10, 64)
	if filter <= 0 {
		s.reports.clear()
	} else {
		for _, rep := range s.reports.list() {
			if rep.IMAPID == filter {
				s.reports.remove(rep.ID)
			}
		}
	}
	sendOK(w, "Non-campaign reports cleared successfully")
}

func (s *Server) handlePingWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		sendError(w, http.StatusNotFound, "Webhook not found")
		return
	}
	wh, ok := s.webhooks.get(id)
	if !ok {
		sendError(w, http.StatusNotFound, "Webhook not found")
		return
	}
	if !wh.IsActive {
		sendError(w, http.StatusBadRequest, "Webhook is not active")
		return
	}
	sendJSON(w, http.StatusOK, wh)
}

// QRCodePNG is the image the fake renders for url and size
func QRCodePNG(url, size string) []byte {
	return []byte("\x89PNG\r\n\x1a\n" + size + ":" + url)
}

func (s *Server) handleQRCodes(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, models.QRCodes{Success: true, QRCodes: s.qrcodes.list()})
}

func (s *Server) handleCreateQRCode(w http.ResponseWriter, r *http.Request) {
	var req models.QRCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if req.URL == "" || req.Size == "" {
		sendJSON(w, http.StatusBadRequest, models.QRCodeResponse{Success: false, Message: "Missing required fields: url and size"})
		return
	}

	resp := models.QRCodeResponse{
		Success:      true,
		Message:      "QR code generated successfully",
		QRCodeBase64: base64.StdEncoding.EncodeToString(QRCodePNG(req.URL, req.Size)),
		Filename:     fmt.Sprintf("qr_code_%d.png", time.Now().Unix()),
	}
	if req.StoreInDB {
		resp.QRCode = s.qrcodes.insert(models.QRCode{
			URL:       req.URL,
			Size:      req.Size,
			Filename:  resp.Filename,
			CreatedAt: time.Now().UTC(),
		})
	}
	sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownloadQRCode(w http.ResponseWriter, r *http.Request) {
	id, _ := urlID(r)
	q, ok := s.qrcodes.get(id)
	if !ok {
		sendJSON(w, http.StatusNotFound, models.QRCodeResponse{Success: false, Message: "QR code not found"})
		return
	}
	sendJSON(w, http.StatusOK, models.QRCodeResponse{
		Success:      true,
		QRCodeBase64: base64.StdEncoding.EncodeToString(QRCodePNG(q.URL, q.Size)),
		Filename:     q.Filename,
		QRCode:       q,
	})
}

func (s *Server) handleDeleteQRCode(w http.ResponseWriter, r *http.Request) {
	id, _ := urlID(r)
	if !s.qrcodes.remove(id) {
		sendError(w, http.StatusNotFound, "QR code not found")
		return
	}
	sendOK(w, "QR code deleted successfully")
}

func (s *Server) handleImportEmail(w http.ResponseWriter, r *http.Request) {
	var req models.ImportEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	msg, err := mail.ReadMessage(strings.NewReader(req.Content))
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	sendJSON(w, http.StatusOK, models.ImportEmailResponse{
		Subject: msg.Header.Get("Subject"),
		Text:    string(body),
	})
}

func (s *Server) handleImportSite(w http.ResponseWriter, r *http.Request) {
	var req models.CloneSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if req.URL == "" {
		sendError(w, http.StatusBadRequest, "URL is required")
		return
	}
	sendJSON(w, http.StatusOK, models.CloneSiteResponse{
		HTML: fmt.Sprintf("<html><head><base href=%q></head><body></body></html>", req.URL),
	})
}

func (s *Server) handleSendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req models.SendTestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if req.Email == "" {
		sendError(w, http.StatusBadRequest, "No email address specified")
		return
	}
	sendOK(w, "Email Sent")
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")

	s.mu.Lock()
	s.apiKey = key
	s.mu.Unlock()

	sendJSON(w, http.StatusOK, models.Response{
		Success: true,
		Message: "API Key successfully reset!",
		Data:    key,
	})
}
