package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobadcheck/internal/config"
	"github.com/jimezsa/jobadcheck/internal/export"
	"github.com/jimezsa/jobadcheck/internal/history"
	"github.com/jimezsa/jobadcheck/internal/jobad"
	"github.com/jimezsa/jobadcheck/internal/models"
	"github.com/jimezsa/jobadcheck/internal/ui"
	"github.com/rs/zerolog"
)

const fixtureBody = `{
  "description": "<p>Hledáme Java vývojáře.</p>",
  "isForStudents": true,
  "location": {
    "name": "Hall office park",
    "country": "Česká republika",
    "city": "Praha",
    "street": "U Pergamenky 2",
    "zipCode": "17000"
  },
  "executiveUser": {
    "name": "Kozák Michal",
    "photoUrl": "https://cdn.example.com/kozak.jpg",
    "description": "Vedoucí vývoje"
  }
}`

type routeDoer struct {
	routes map[string]stubResponse
}

type stubResponse struct {
	status int
	body   string
}

func (d *routeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	resp, ok := d.routes[req.URL.Path]
	if !ok {
		resp = stubResponse{status: fhttp.StatusNotFound}
	}
	return &fhttp.Response{
		StatusCode: resp.status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Request:    req,
	}, nil
}

func fixtureDoer(body string) *routeDoer {
	return &routeDoer{routes: map[string]stubResponse{
		"/api/career/v2/positions/java-developer-": {status: 200, body: body},
	}}
}

func testContext(t *testing.T, client jobad.Doer) (*Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	settings := config.DefaultSettings()
	settings.API.BaseURL = "https://webapi.example.com"
	settings.API.PositionSlug = "java-developer-"
	settings.API.InvalidSlug = "invalid-position"
	settings.Logging.LogPath = filepath.Join(t.TempDir(), "logs", "run.log")
	settings.Expected = models.DefaultExpected()

	return &Context{
		Out:      &out,
		Err:      &errOut,
		UI:       ui.New(&out, &errOut, ui.ColorNever, true),
		Settings: settings,
		Logger:   zerolog.Nop(),
		Client:   client,
	}, &out, &errOut
}

func TestSelectCases(t *testing.T) {
	cases := map[string][]jobad.Case{
		"all":       {jobad.CaseJobAd, jobad.CaseNotFound},
		"":          {jobad.CaseJobAd, jobad.CaseNotFound},
		"job-ad":    {jobad.CaseJobAd},
		"not-found": {jobad.CaseNotFound},
	}
	for in, want := range cases {
		if got := selectCases(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("selectCases(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		name   string
		ctx    *Context
		value  string
		output string
		want   export.Format
	}{
		{"json flag", &Context{Out: io.Discard, JSONOutput: true}, "md", "", export.FormatJSON},
		{"plain flag", &Context{Out: io.Discard, PlainText: true}, "", "", export.FormatTSV},
		{"explicit", &Context{Out: io.Discard}, "md", "", export.FormatMarkdown},
		{"file output", &Context{Out: io.Discard}, "", "report.csv", export.FormatCSV},
		{"non tty", &Context{Out: &bytes.Buffer{}}, "", "", export.FormatCSV},
	}
	for _, tc := range cases {
		got, err := resolveFormat(tc.ctx, tc.value, tc.output)
		if err != nil {
			t.Fatalf("%s: resolveFormat() error = %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: resolveFormat() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCheckRunPasses(t *testing.T) {
	ctx, out, errOut := testContext(t, fixtureDoer(fixtureBody))
	historyPath := filepath.Join(t.TempDir(), "runs.json")

	cmd := &CheckCmd{Case: "all", Format: "json", History: historyPath, HistoryLimit: 10}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v (stderr: %s)", err, errOut.String())
	}

	var reports []map[string]any
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, out.String())
	}
	if len(reports) != 2 || reports[0]["passed"] != true || reports[1]["passed"] != true {
		t.Fatalf("unexpected reports: %v", reports)
	}
	if !strings.Contains(errOut.String(), "summary: cases=2 passed=2 failed=0") {
		t.Fatalf("missing summary: %q", errOut.String())
	}

	logData, err := os.ReadFile(ctx.Settings.Logging.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logData), "Sending request to job ad API...") ||
		!strings.Contains(string(logData), "Sending request to invalid job ad API...") {
		t.Fatalf("log file missing request lines:\n%s", logData)
	}

	runs, err := history.ReadRuns(historyPath)
	if err != nil {
		t.Fatalf("ReadRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
}

func TestCheckRunFailsAndReportsDrift(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "runs.json")

	ctx, _, _ := testContext(t, fixtureDoer(fixtureBody))
	cmd := &CheckCmd{Case: "job-ad", Format: "csv", History: historyPath}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	broken := strings.Replace(fixtureBody, `"17000"`, `"17001"`, 1)
	ctx, out, errOut := testContext(t, fixtureDoer(broken))
	err := cmd.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 case(s) failed") {
		t.Fatalf("Run() error = %v, want case failure", err)
	}
	if !strings.Contains(out.String(), "FieldMismatch") {
		t.Fatalf("report should name the failure kind:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "outcome changed for job-ad: pass -> fail (FieldMismatch location.zipCode)") {
		t.Fatalf("expected drift warning, got %q", errOut.String())
	}
}

func TestCheckRunWritesOutputFile(t *testing.T) {
	ctx, out, _ := testContext(t, fixtureDoer(fixtureBody))
	outputPath := filepath.Join(t.TempDir(), "report.md")

	cmd := &CheckCmd{Case: "not-found", Format: "md", Output: outputPath}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("stdout should be empty when writing to a file, got %q", out.String())
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "- **not-found**: PASS") {
		t.Fatalf("unexpected report:\n%s", data)
	}
}

func TestRunCasesKeepsMalformedReport(t *testing.T) {
	validator := jobad.New(fixtureDoer(`{"description":`), zerolog.Nop(), "https://webapi.example.com")
	plan := checkPlan{
		cases:       selectCases("all"),
		slug:        "java-developer-",
		invalidSlug: "invalid-position",
		expected:    models.DefaultExpected(),
	}

	reports, err := runCases(context.Background(), validator, plan)
	if err != nil {
		t.Fatalf("runCases() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}
	if reports[0].Fatal == nil || reports[0].Fatal.Kind != jobad.KindMalformedJSON {
		t.Fatalf("expected fatal MalformedJSON report, got %+v", reports[0])
	}
	if !reports[1].Passed() {
		t.Fatalf("not-found case should still run and pass: %v", reports[1].Err())
	}
}
