// Package notify is the notification surface: page-level flashes,
// session-scoped errors and interactive confirmations.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier receives the outcome of every user action
type Notifier interface {
	// Success shows a page-level flash, replacing any previous one
	Success(msg string)
	// Error shows a page-level error flash, replacing any previous one
	Error(msg string)
	// ModalError shows an error inside the open edit session
	ModalError(msg string)
	// ClearModal removes the session-scoped error
	ClearModal()
}

// Console writes notifications as single styled lines
type Console struct {
	mu  sync.Mutex
	out io.Writer

	success lipgloss.Style
	failure lipgloss.Style
	modal   lipgloss.Style
}

// NewConsole creates a console notifier writing to w
func NewConsole(w io.Writer, color bool) *Console {
	c := &Console{
		out:     w,
		success: lipgloss.NewStyle(),
		failure: lipgloss.NewStyle(),
		modal:   lipgloss.NewStyle(),
	}

	if color {
		c.success = c.success.Foreground(lipgloss.Color("#04B575")).Bold(true)
		c.failure = c.failure.Foreground(lipgloss.Color("#EF4444")).Bold(true)
		c.modal = c.modal.Foreground(lipgloss.Color("#F59E0B"))
	}

	return c
}

func (c *Console) Success(msg string) {
	c.write(c.success.Render("✓ " + msg))
}

func (c *Console) Error(msg string) {
	c.write(c.failure.Render("✗ " + msg))
}

func (c *Console) ModalError(msg string) {
	c.write(c.modal.Render("! " + msg))
}

// ClearModal is a no-op; console lines cannot be taken back
func (c *Console) ClearModal() {}

func (c *Console) write(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// Kind identifies a recorded notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Flash is a page-level notification
type Flash struct {
	Kind    Kind
	Message string
}

// Recorder keeps the current flash and session error. Wrapping another
// notifier forwards every call to it.
type Recorder struct {
	mu    sync.Mutex
	next  Notifier
	flash *Flash
	modal string
	count int
}

// NewRecorder creates a recorder forwarding to next, which may be nil
func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Success(msg string) {
	r.setFlash(KindSuccess, msg)
	if r.next != nil {
		r.next.Success(msg)
	}
}

func (r *Recorder) Error(msg string) {
	r.setFlash(KindError, msg)
	if r.next != nil {
		r.next.Error(msg)
	}
}

func (r *Recorder) ModalError(msg string) {
	r.mu.Lock()
	r.modal = msg
	r.count++
	r.mu.Unlock()
	if r.next != nil {
		r.next.ModalError(msg)
	}
}

func (r *Recorder) ClearModal() {
	r.mu.Lock()
	r.modal = ""
	r.mu.Unlock()
	if r.next != nil {
		r.next.ClearModal()
	}
}

func (r *Recorder) setFlash(kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flash = &Flash{Kind: kind, Message: msg}
	r.count++
}

// Flash returns the current page-level notification or nil
func (r *Recorder) Flash() *Flash {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.flash == nil {
		return nil
	}
	f := *r.flash
	return &f
}

// Modal returns the current session-scoped error
func (r *Recorder) Modal() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal
}

// Count returns how many notifications were shown
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Failed reports whether the last outcome was an error
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modal != "" || (r.flash != nil && r.flash.Kind == KindError)
}
