package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jimezsa/jobadcheck/internal/jobad"
)

func sampleReports() []*jobad.Report {
	return []*jobad.Report{
		{
			Case:       jobad.CaseJobAd,
			URL:        "https://webapi.alza.cz/api/career/v2/positions/java-developer-",
			StatusCode: 200,
			Checks: []jobad.Check{
				{Name: "response successful", Value: "200 OK", Passed: true},
				{
					Name:  "location zip code",
					Field: "location.zipCode",
					Value: "17001",
					Failure: &jobad.Failure{
						Kind:    jobad.KindFieldMismatch,
						Field:   "location.zipCode",
						Message: `want "17000", got "17001"`,
					},
				},
			},
		},
		{
			Case:       jobad.CaseNotFound,
			URL:        "https://webapi.alza.cz/api/career/v2/positions/invalid-position",
			StatusCode: 404,
			Checks:     []jobad.Check{{Name: "returns not found", Value: "404 Not Found", Passed: true}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":         FormatTable,
		"CSV":      FormatCSV,
		"markdown": FormatMarkdown,
		" json ":   FormatJSON,
		"tsv":      FormatTSV,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteReportsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReports(&buf, sampleReports(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}

	var decoded []reportJSON
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(decoded))
	}
	if decoded[0].Passed || !decoded[1].Passed {
		t.Fatalf("unexpected pass flags: %+v", decoded)
	}
	if decoded[0].Checks[1].Kind != "FieldMismatch" || decoded[0].Checks[1].Field != "location.zipCode" {
		t.Fatalf("unexpected check: %+v", decoded[0].Checks[1])
	}
}

func TestWriteReportsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReports(&buf, sampleReports(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if rows[2][6] != "FieldMismatch" || rows[2][5] != "false" {
		t.Fatalf("unexpected failure row: %v", rows[2])
	}
}

func TestWriteReportsCSVIncludesFatal(t *testing.T) {
	report := &jobad.Report{
		Case:       jobad.CaseJobAd,
		URL:        "https://example.com/api/career/v2/positions/x",
		StatusCode: 200,
		Checks:     []jobad.Check{{Name: "response successful", Passed: true}},
		Fatal:      &jobad.Failure{Kind: jobad.KindMalformedJSON, Err: errors.New("unexpected EOF")},
	}
	var buf bytes.Buffer
	if err := WriteReports(&buf, []*jobad.Report{report}, FormatTSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}
	if !strings.Contains(buf.String(), "MalformedJSON") {
		t.Fatalf("expected fatal row, got %q", buf.String())
	}
}

func TestWriteReportsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReports(&buf, sampleReports(), FormatTable, WriteOptions{}); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FAIL job-ad https://webapi.alza.cz/api/career/v2/positions/java-developer-") {
		t.Fatalf("missing job-ad header:\n%s", out)
	}
	if !strings.Contains(out, "PASS not-found") {
		t.Fatalf("missing not-found header:\n%s", out)
	}
	if !strings.Contains(out, `FieldMismatch: want "17000", got "17001"`) {
		t.Fatalf("missing failure detail:\n%s", out)
	}
	if strings.Contains(out, "\x1b") {
		t.Fatalf("unexpected escape codes without color:\n%q", out)
	}
}

func TestWriteReportsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReports(&buf, sampleReports(), FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "- **job-ad**: FAIL") || !strings.Contains(out, "  - [ ] location zip code (FieldMismatch:") {
		t.Fatalf("unexpected markdown:\n%s", out)
	}

	buf.Reset()
	if err := WriteReports(&buf, nil, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No results." {
		t.Fatalf("unexpected empty markdown: %q", buf.String())
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("abc", 60); got != "abc" {
		t.Fatalf("shorten() = %q", got)
	}
	got := shorten(strings.Repeat("ř", 80), 10)
	if got != strings.Repeat("ř", 7)+"..." {
		t.Fatalf("shorten() = %q", got)
	}
}
