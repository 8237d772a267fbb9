package jobad

import (
	"errors"
	"time"
)

// Case names one validation scenario.
type Case string

const (
	CaseJobAd    Case = "job-ad"
	CaseNotFound Case = "not-found"
)

// Check is the outcome of one assertion.
type Check struct {
	Name    string
	Field   string
	Value   string
	Passed  bool
	Failure *Failure
}

// Report collects the checks of one validation run. Fatal is set when the
// run stopped on a MalformedJSON body.
type Report struct {
	Case       Case
	URL        string
	StatusCode int
	Checks     []Check
	Fatal      *Failure
	StartedAt  time.Time
	Duration   time.Duration
}

func (r *Report) Passed() bool {
	if r == nil || r.Fatal != nil || len(r.Checks) == 0 {
		return false
	}
	for _, check := range r.Checks {
		if !check.Passed {
			return false
		}
	}
	return true
}

// Failures lists failed checks in evaluation order, the fatal failure last.
func (r *Report) Failures() []*Failure {
	if r == nil {
		return nil
	}
	var failures []*Failure
	for _, check := range r.Checks {
		if check.Failure != nil {
			failures = append(failures, check.Failure)
		}
	}
	if r.Fatal != nil {
		failures = append(failures, r.Fatal)
	}
	return failures
}

// Err joins every failure, or returns nil when the report passed.
func (r *Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failures))
	for _, failure := range failures {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// Kinds returns the failure kinds in order, for compact summaries.
func (r *Report) Kinds() []Kind {
	failures := r.Failures()
	kinds := make([]Kind, 0, len(failures))
	for _, failure := range failures {
		kinds = append(kinds, failure.Kind)
	}
	return kinds
}
