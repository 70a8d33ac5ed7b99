package editor

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strings"
	"testing"

	"github.com/foxzi/lure/internal/apitest"
	"github.com/foxzi/lure/internal/models"
)

func TestEscapeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{" leading space", " leading space"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line1\nline2", "\"line1\nline2\""},
		{`"`, `""""`},
	}

	for _, tt := range tests {
		got := EscapeField(tt.in)
		if got != tt.want {
			t.Errorf("EscapeField(%q) = %q, want %q", tt.in, got, tt.want)
		}

		r := csv.NewReader(strings.NewReader(got + "\n"))
		rec, err := r.Read()
		if tt.in == "" {
			// an empty line is not a record for encoding/csv
			continue
		}
		if err != nil {
			t.Errorf("re-parse %q: %v", got, err)
			continue
		}
		if len(rec) != 1 || rec[0] != tt.in {
			t.Errorf("re-parse %q = %q, want %q", got, rec, tt.in)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []models.Target{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Position: "Eng"},
		{FirstName: "John", LastName: "Smith, Jr", Email: "john@example.com", Custom: `x"y`},
	})
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "First_Name,Last_Name,Email,Position,Custom\n" +
		"Jane,Doe,jane@example.com,Eng,\n" +
		"John,\"Smith, Jr\",john@example.com,,\"x\"\"y\"\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if buf.String() != "First_Name,Last_Name,Email,Position,Custom\n" {
		t.Errorf("expected header only, got %q", buf.String())
	}
}

func TestTemplateCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := TemplateCSV(&buf); err != nil {
		t.Fatalf("TemplateCSV() error = %v", err)
	}

	targets, err := apitest.ParseTargetsCSV(&buf)
	if err != nil {
		t.Fatalf("template is not importable: %v", err)
	}
	if len(targets) != 1 || targets[0].Email != "foobar@example.com" {
		t.Errorf("targets = %+v", targets)
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Q1 Targets / 2024!", "group_q1_targets___2024_.csv"},
		{"sales", "group_sales.csv"},
		{"", "group_.csv"},
		{"Été", "group__t_.csv"},
		{"\u212Aelvin", "group__elvin.csv"},
		{"İstanbul", "group__stanbul.csv"},
		{"ÀÉ", "group___.csv"},
	}

	for _, tt := range tests {
		if got := ExportFilename(tt.name); got != tt.want {
			t.Errorf("ExportFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAcceptedImportFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"targets.csv", true},
		{"TARGETS.CSV", true},
		{"list.txt", true},
		{"targets.xlsx", false},
		{"csv", false},
		{"targets.csv.exe", false},
	}

	for _, tt := range tests {
		if got := AcceptedImportFile(tt.name); got != tt.want {
			t.Errorf("AcceptedImportFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// importCSV parses data the way the import endpoint does and feeds the
// result through the working set
func importCSV(t *testing.T, data []byte) []models.Target {
	t.Helper()
	parsed, err := apitest.ParseTargetsCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ws := NewWorkingSet()
	for _, tg := range parsed {
		ws.AddOrUpdate(tg)
	}
	return ws.Targets()
}

func byEmail(targets []models.Target) []models.Target {
	out := append([]models.Target(nil), targets...)
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func TestCSVRoundTrip(t *testing.T) {
	group := []models.Target{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Position: "Eng"},
		{FirstName: "John", LastName: "Smith, Jr", Email: "john@example.com", Position: `The "Boss"`, Custom: "a\nb"},
		{FirstName: " spaced ", LastName: "", Email: "x@example.com", Custom: "<b>raw</b>"},
		{FirstName: "Ünï", LastName: "Cödé", Email: "u@example.com", Position: ",", Custom: `"`},
	}

	var first bytes.Buffer
	if err := WriteCSV(&first, group); err != nil {
		t.Fatalf("export: %v", err)
	}

	imported := importCSV(t, first.Bytes())

	var second bytes.Buffer
	if err := WriteCSV(&second, imported); err != nil {
		t.Fatalf("re-export: %v", err)
	}

	again := importCSV(t, second.Bytes())

	want := byEmail(group)
	got := byEmail(again)
	if len(got) != len(want) {
		t.Fatalf("round trip returned %d targets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("target %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if first.String() != second.String() {
		t.Errorf("export is not stable:\n%s\n%s", first.String(), second.String())
	}
}
