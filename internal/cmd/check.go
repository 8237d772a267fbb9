package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jimezsa/jobadcheck/internal/config"
	"github.com/jimezsa/jobadcheck/internal/export"
	"github.com/jimezsa/jobadcheck/internal/history"
	"github.com/jimezsa/jobadcheck/internal/jobad"
	"github.com/jimezsa/jobadcheck/internal/logging"
	"github.com/jimezsa/jobadcheck/internal/models"
	"github.com/jimezsa/jobadcheck/internal/network"
	"github.com/muesli/termenv"
)

const proxyBanDuration = 10 * time.Minute

type CheckCmd struct {
	Case         string `help:"Cases to run: all, job-ad, not-found." enum:"all,job-ad,not-found" default:"all"`
	BaseURL      string `name:"base-url" help:"Career API base URL (default from settings)."`
	Slug         string `help:"Slug of the fixture position (default from settings)."`
	InvalidSlug  string `name:"invalid-slug" help:"Slug that must answer 404 (default from settings)."`
	Timeout      int    `help:"Request timeout in seconds; 0 uses the settings value."`
	Format       string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Output       string `name:"output" short:"o" help:"Write the report to a file."`
	History      string `help:"Path to run history JSON; outcome changes are reported."`
	HistoryLimit int    `name:"history-limit" help:"Runs kept in the history file." default:"200"`
	Proxies      string `help:"Comma-separated proxy URLs."`
}

type checkPlan struct {
	cases       []jobad.Case
	slug        string
	invalidSlug string
	expected    models.Expected
}

func (c *CheckCmd) Run(ctx *Context) error {
	settings := ctx.Settings
	baseURL := firstNonEmpty(c.BaseURL, settings.API.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	plan := checkPlan{
		cases:       selectCases(c.Case),
		slug:        firstNonEmpty(c.Slug, settings.API.PositionSlug),
		invalidSlug: firstNonEmpty(c.InvalidSlug, settings.API.InvalidSlug),
		expected:    settings.Expected,
	}

	format, err := resolveFormat(ctx, c.Format, c.Output)
	if err != nil {
		return err
	}

	client, err := c.client(ctx)
	if err != nil {
		return err
	}

	var tee io.Writer
	if ctx.Verbose {
		tee = ctx.Err
	}
	sink, err := logging.Open(logging.Options{
		Path:  settings.Logging.LogPath,
		Level: settings.Logging.Level,
		Tee:   tee,
	})
	if err != nil {
		return err
	}
	defer sink.Close()

	ctx.Logger.Debug().
		Str("config", ctx.ConfigPath).
		Str("log_path", settings.Logging.LogPath).
		Str("base_url", baseURL).
		Msg("starting checks")

	validator := jobad.New(client, sink.Logger, baseURL)
	reports, err := runCases(context.Background(), validator, plan)
	if err != nil {
		return err
	}

	if err := writeReports(ctx, reports, format, c.Output); err != nil {
		return err
	}

	if strings.TrimSpace(c.History) != "" {
		if err := recordHistory(ctx, c.History, c.HistoryLimit, reports, time.Now()); err != nil {
			return err
		}
	}

	return summarize(ctx, reports)
}

func (c *CheckCmd) client(ctx *Context) (jobad.Doer, error) {
	if ctx.Client != nil {
		return ctx.Client, nil
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = ctx.Settings.API.TimeoutSeconds
	}

	var rotator *network.Rotator
	if proxies := config.ResolveProxies(c.Proxies, ctx.Settings); len(proxies) > 0 {
		var err error
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}

	return network.NewClient(network.Options{
		Timeout: time.Duration(timeout) * time.Second,
		Rotator: rotator,
	})
}

func selectCases(value string) []jobad.Case {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(jobad.CaseJobAd):
		return []jobad.Case{jobad.CaseJobAd}
	case string(jobad.CaseNotFound):
		return []jobad.Case{jobad.CaseNotFound}
	default:
		return []jobad.Case{jobad.CaseJobAd, jobad.CaseNotFound}
	}
}

// runCases runs the planned cases in order. A MalformedJSON body stays in its
// report; any other error aborts.
func runCases(ctx context.Context, validator *jobad.Validator, plan checkPlan) ([]*jobad.Report, error) {
	reports := make([]*jobad.Report, 0, len(plan.cases))
	for _, c := range plan.cases {
		var (
			report *jobad.Report
			err    error
		)
		switch c {
		case jobad.CaseJobAd:
			report, err = validator.ValidateJobAd(ctx, plan.slug, plan.expected)
		case jobad.CaseNotFound:
			report, err = validator.ValidateNotFound(ctx, plan.invalidSlug)
		default:
			return nil, fmt.Errorf("unknown case: %s", c)
		}
		if err != nil && !jobad.IsKind(err, jobad.KindMalformedJSON) {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func writeReports(ctx *Context, reports []*jobad.Report, format export.Format, outputPath string) error {
	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := outputPath == "" && ctx.UI != nil && ctx.UI.ColorEnabled
	return export.WriteReports(writer, reports, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
	})
}

func recordHistory(ctx *Context, path string, limit int, reports []*jobad.Report, now time.Time) error {
	previous, err := history.ReadRunsAllowMissing(path)
	if err != nil {
		return fmt.Errorf("read --history: %w", err)
	}

	current := make([]history.Run, 0, len(reports))
	for _, report := range reports {
		current = append(current, history.FromReport(report, now))
	}

	changes, _ := history.Drift(previous, current)
	if ctx.UI != nil {
		for _, change := range changes {
			ctx.UI.Warnf("outcome changed for %s: %s -> %s",
				change.Current.Case, describeRun(change.Previous), describeRun(change.Current))
		}
	}

	if err := history.WriteRuns(path, history.Append(previous, current, limit)); err != nil {
		return fmt.Errorf("write --history: %w", err)
	}
	return nil
}

func describeRun(run history.Run) string {
	if run.Passed {
		return "pass"
	}
	if len(run.Failures) == 0 {
		return "fail"
	}
	return "fail (" + strings.Join(run.Failures, ", ") + ")"
}

func summarize(ctx *Context, reports []*jobad.Report) error {
	failed := 0
	for _, report := range reports {
		if !report.Passed() {
			failed++
		}
	}
	if ctx.Err != nil {
		_, _ = fmt.Fprintf(ctx.Err, "summary: cases=%d passed=%d failed=%d\n", len(reports), len(reports)-failed, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d case(s) failed", failed, len(reports))
	}
	return nil
}

func resolveFormat(ctx *Context, value string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if value != "" {
		return export.ParseFormat(value)
	}
	if outputPath != "" || !isTTY(ctx.Out) {
		return export.FormatCSV, nil
	}
	return export.FormatTable, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
