package jobad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobadcheck/internal/models"
	"github.com/rs/zerolog"
)

const positionsPath = "/api/career/v2/positions/"

// Doer sends a request. *network.Client satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Validator checks job ads served under one career API base URL. It holds no
// state between calls.
type Validator struct {
	client  Doer
	logger  zerolog.Logger
	baseURL string
}

func New(client Doer, logger zerolog.Logger, baseURL string) *Validator {
	return &Validator{client: client, logger: logger, baseURL: baseURL}
}

// PositionURL builds {base}/api/career/v2/positions/{slug}.
func PositionURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + positionsPath + url.PathEscape(slug)
}

// ValidateJobAd fetches the position and checks it against expected. Check
// failures are recorded in the report; the returned error is non-nil only
// for a fatal MalformedJSON body or an unusable URL.
func (v *Validator) ValidateJobAd(ctx context.Context, slug string, expected models.Expected) (*Report, error) {
	target := PositionURL(v.baseURL, slug)
	rec := v.newRecorder(CaseJobAd, target)
	defer rec.finish()

	rec.logger.Info().Msg("Sending request to job ad API...")
	status, body, err := v.fetch(ctx, target)
	if isRequestError(err) {
		return rec.report, err
	}
	rec.report.StatusCode = status

	if !rec.check("response successful", "", statusText(status), successFailure(status, err)) {
		return rec.report, nil
	}
	rec.logger.Info().Msg("API response received.")

	doc, err := parseObject(body)
	if err != nil {
		fatal := &Failure{Kind: KindMalformedJSON, Message: "response body is not a JSON object", Err: err}
		rec.report.Fatal = fatal
		rec.logger.Error().Err(err).Msg("Response body could not be parsed")
		return rec.report, fatal
	}

	checkDescription(rec, doc)
	checkStudents(rec, doc, expected.IsForStudents)
	checkLocation(rec, doc, expected.Location)
	checkExecutive(rec, doc, expected.ExecutiveName)

	return rec.report, nil
}

// ValidateNotFound passes only when the slug answers 404 Not Found.
func (v *Validator) ValidateNotFound(ctx context.Context, slug string) (*Report, error) {
	target := PositionURL(v.baseURL, slug)
	rec := v.newRecorder(CaseNotFound, target)
	defer rec.finish()

	rec.logger.Info().Msg("Sending request to invalid job ad API...")
	status, _, err := v.fetch(ctx, target)
	if isRequestError(err) {
		return rec.report, err
	}
	rec.report.StatusCode = status

	var failure *Failure
	switch {
	case err != nil:
		failure = &Failure{Kind: KindUnsuccessfulResponse, Message: "request failed", Err: err}
	case status != fhttp.StatusNotFound:
		failure = &Failure{
			Kind:    KindUnexpectedStatus,
			Message: fmt.Sprintf("want %s, got %s", statusText(fhttp.StatusNotFound), statusText(status)),
		}
	}
	rec.check("returns not found", "", statusText(status), failure)
	return rec.report, nil
}

type requestError struct{ err error }

func (e *requestError) Error() string { return "build request: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func isRequestError(err error) bool {
	var reqErr *requestError
	return errors.As(err, &reqErr)
}

// fetch returns the status and body. A non-nil error with a non-zero status
// means the body could not be read.
func (v *Validator) fetch(ctx context.Context, target string) (int, []byte, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return 0, nil, &requestError{err: err}
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func successFailure(status int, err error) *Failure {
	if err != nil {
		return &Failure{Kind: KindUnsuccessfulResponse, Message: "API response was not successful", Err: err}
	}
	if status < 200 || status > 299 {
		return &Failure{
			Kind:    KindUnsuccessfulResponse,
			Message: "API response was not successful: " + statusText(status),
		}
	}
	return nil
}

func statusText(status int) string {
	if status == 0 {
		return "no response"
	}
	return fmt.Sprintf("%d %s", status, fhttp.StatusText(status))
}

type recorder struct {
	report *Report
	logger zerolog.Logger
	start  time.Time
}

func (v *Validator) newRecorder(c Case, target string) *recorder {
	now := time.Now()
	return &recorder{
		report: &Report{Case: c, URL: target, StartedAt: now},
		logger: v.logger.With().Str("case", string(c)).Str("url", target).Logger(),
		start:  now,
	}
}

// check records one assertion and logs around it. It reports whether the
// assertion passed.
func (r *recorder) check(name, field, value string, failure *Failure) bool {
	event := r.logger.Info().Str("check", name)
	if field != "" {
		event = event.Str("field", field)
	}
	event.Msg("Checking...")

	r.report.Checks = append(r.report.Checks, Check{
		Name:    name,
		Field:   field,
		Value:   value,
		Passed:  failure == nil,
		Failure: failure,
	})

	if failure != nil {
		r.logger.Error().Str("check", name).Str("kind", string(failure.Kind)).Msg(failure.Error())
		return false
	}
	r.logger.Info().Str("check", name).Msg("Passed.")
	return true
}

func (r *recorder) finish() {
	r.report.Duration = time.Since(r.start)
	if r.report.Passed() {
		r.logger.Info().Dur("duration", r.report.Duration).Msg("All checks passed.")
		return
	}
	r.logger.Error().Dur("duration", r.report.Duration).Int("failures", len(r.report.Failures())).Msg("Validation failed.")
}
