package apitest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/foxzi/lure/internal/models"
)

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var g models.Group
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if status, msg := s.checkGroup(g, 0); status != 0 {
		sendError(w, status, msg)
		return
	}

	g.ID = 0
	g.ModifiedDate = time.Now().UTC()
	sendJSON(w, http.StatusCreated, s.groups.insert(g))
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		sendError(w, http.StatusNotFound, "Group not found")
		return
	}
	var g models.Group
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid JSON structure")
		return
	}
	if int64(g.ID) != id {
		sendError(w, http.StatusBadRequest, "Error: /:id and group_id mismatch")
		return
	}
	if status, msg := s.checkGroup(g, id); status != 0 {
		sendError(w, status, msg)
		return
	}

	g.ModifiedDate = time.Now().UTC()
	if !s.groups.replace(id, g) {
		sendError(w, http.StatusNotFound, "Group not found")
		return
	}
	sendJSON(w, http.StatusOK, g)
}

// checkGroup applies the server's group validation rules
func (s *Server) checkGroup(g models.Group, self int64) (int, string) {
	if g.Name == "" {
		return http.StatusBadRequest, "Group name not specified"
	}
	if len(g.Targets) == 0 {
		return http.StatusBadRequest, "No targets specified"
	}
	for _, other := range s.groups.list() {
		if int64(other.ID) != self && other.Name == g.Name {
			return http.StatusConflict, "Group name already in use"
		}
	}
	return 0, ""
}

func (s *Server) handleGroupSummaries(w http.ResponseWriter, r *http.Request) {
	groups := s.groups.list()
	resp := models.GroupSummaries{
		Total:  int64(len(groups)),
		Groups: make([]models.GroupSummary, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, models.GroupSummary{
			ID:           g.ID,
			Name:         g.Name,
			NumTargets:   int64(len(g.Targets)),
			ModifiedDate: g.ModifiedDate,
		})
	}
	sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImportGroup(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		sendError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	targets, err := ParseTargetsCSV(file)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	sendJSON(w, http.StatusOK, targets)
}

// ParseTargetsCSV parses a target CSV the way the server's import endpoint
// does: columns are matched by header name, case-insensitively, and rows
// without an email are skipped
func ParseTargetsCSV(r io.Reader) ([]models.Target, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Target{}, nil
		}
		return nil, err
	}

	col := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		col[key] = i
	}
	if _, ok := col["email"]; !ok {
		return nil, errors.New("CSV header must contain an Email column")
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	targets := []models.Target{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		email := strings.TrimSpace(field(rec, "email"))
		if email == "" {
			continue
		}
		targets = append(targets, models.Target{
			FirstName: field(rec, "first_name"),
			LastName:  field(rec, "last_name"),
			Email:     email,
			Position:  field(rec, "position"),
			Custom:    field(rec, "custom"),
		})
	}
	return targets, nil
}
