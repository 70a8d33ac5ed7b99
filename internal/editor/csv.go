package editor

import (
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/foxzi/lure/internal/models"
)

// CSVHeader is the first line of every exported file
var CSVHeader = []string{"First_Name", "Last_Name", "Email", "Position", "Custom"}

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// EscapeField quotes a field if and only if it contains a comma, a double
// quote or a newline. Internal quotes are doubled.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(EscapeField(f))
	}
	w.WriteByte('\n')
}

// WriteCSV writes the header and one row per target, in order
func WriteCSV(w io.Writer, targets []models.Target) error {
	bw := bufio.NewWriter(w)
	writeRecord(bw, CSVHeader)
	for _, t := range targets {
		writeRecord(bw, []string{t.FirstName, t.LastName, t.Email, t.Position, t.Custom})
	}
	return bw.Flush()
}

// TemplateCSV writes an example import file with a single row
func TemplateCSV(w io.Writer) error {
	return WriteCSV(w, []models.Target{{
		FirstName: "Example",
		LastName:  "User",
		Email:     "foobar@example.com",
		Position:  "Systems Administrator",
		Custom:    "",
	}})
}

// ExportFilename derives the download name of a group export. Every
// character outside ASCII letters and digits becomes one underscore before
// lowercasing, so non-ASCII letters never fold into ASCII ones.
func ExportFilename(groupName string) string {
	return "group_" + strings.ToLower(filenameUnsafe.ReplaceAllString(groupName, "_")) + ".csv"
}

// AcceptedImportFile reports whether name has an extension the import
// endpoint accepts
func AcceptedImportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return true
	}
	return false
}
