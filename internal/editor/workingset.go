package editor

import (
	"strings"

	"github.com/foxzi/lure/internal/models"
)

// NormalizeEmail returns the deduplication key of an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// WorkingSet is the ordered list of targets edited in one session. At most
// one target exists per normalized email.
type WorkingSet struct {
	targets []models.Target
	index   map[string]int
}

// NewWorkingSet creates an empty working set
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{index: make(map[string]int)}
}

// AddOrUpdate lowercases the email of t and stores it. A target with the
// same email is replaced in place; otherwise t is appended. It returns the
// position of the stored row and whether an existing row was replaced.
func (ws *WorkingSet) AddOrUpdate(t models.Target) (int, bool) {
	t.Email = NormalizeEmail(t.Email)

	if i, ok := ws.index[t.Email]; ok {
		ws.targets[i] = t
		return i, true
	}

	ws.targets = append(ws.targets, t)
	ws.index[t.Email] = len(ws.targets) - 1
	return len(ws.targets) - 1, false
}

// Remove deletes the row at position i. Out of range positions are ignored.
func (ws *WorkingSet) Remove(i int) {
	if i < 0 || i >= len(ws.targets) {
		return
	}
	ws.targets = append(ws.targets[:i], ws.targets[i+1:]...)
	ws.reindex()
}

// RemoveEmail deletes the row with the given email, if any
func (ws *WorkingSet) RemoveEmail(email string) bool {
	i, ok := ws.index[NormalizeEmail(email)]
	if !ok {
		return false
	}
	ws.Remove(i)
	return true
}

// Index returns the position of the row with the given email
func (ws *WorkingSet) Index(email string) (int, bool) {
	i, ok := ws.index[NormalizeEmail(email)]
	return i, ok
}

// Targets returns a copy of the rows in order
func (ws *WorkingSet) Targets() []models.Target {
	out := make([]models.Target, len(ws.targets))
	copy(out, ws.targets)
	return out
}

func (ws *WorkingSet) Len() int {
	return len(ws.targets)
}

// Reset empties the working set
func (ws *WorkingSet) Reset() {
	ws.targets = nil
	ws.index = make(map[string]int)
}

func (ws *WorkingSet) reindex() {
	ws.index = make(map[string]int, len(ws.targets))
	for i, t := range ws.targets {
		ws.index[t.Email] = i
	}
}
