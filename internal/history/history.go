package history

import (
	"strings"
	"time"

	"github.com/jimezsa/jobadcheck/internal/jobad"
)

const keySeparator = "::"

// Run is one recorded validation outcome.
type Run struct {
	Case      string    `json:"case"`
	URL       string    `json:"url"`
	Passed    bool      `json:"passed"`
	Status    int       `json:"status,omitempty"`
	Failures  []string  `json:"failures,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Change is a case whose outcome differs from its latest recorded run.
type Change struct {
	Key      string
	Previous Run
	Current  Run
}

// DriftStats captures stats for a drift comparison.
type DriftStats struct {
	TotalHistory int
	TotalCurrent int
	Invalid      int
	New          int
	Unchanged    int
	Changed      int
}

// FromReport summarizes a report as a run record.
func FromReport(report *jobad.Report, at time.Time) Run {
	run := Run{
		Case:      string(report.Case),
		URL:       report.URL,
		Passed:    report.Passed(),
		Status:    report.StatusCode,
		CheckedAt: at.UTC(),
	}
	for _, failure := range report.Failures() {
		entry := string(failure.Kind)
		if failure.Field != "" {
			entry += " " + failure.Field
		}
		run.Failures = append(run.Failures, entry)
	}
	return run
}

// Key builds the normalized case+URL key for a run.
func Key(run Run) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(run.Case))
	u := strings.TrimRight(strings.TrimSpace(run.URL), "/")
	if c == "" || u == "" {
		return "", false
	}
	return c + keySeparator + u, true
}

// SameOutcome reports whether two runs passed or failed the same way.
func SameOutcome(a, b Run) bool {
	if a.Passed != b.Passed || len(a.Failures) != len(b.Failures) {
		return false
	}
	for i := range a.Failures {
		if a.Failures[i] != b.Failures[i] {
			return false
		}
	}
	return true
}

// Latest returns the most recent run per key. Later entries win ties.
func Latest(runs []Run) map[string]Run {
	latest := make(map[string]Run, len(runs))
	for _, run := range runs {
		key, ok := Key(run)
		if !ok {
			continue
		}
		if prev, exists := latest[key]; exists && prev.CheckedAt.After(run.CheckedAt) {
			continue
		}
		latest[key] = run
	}
	return latest
}

// Drift compares current runs against the latest recorded run of each key.
func Drift(history []Run, current []Run) ([]Change, DriftStats) {
	stats := DriftStats{
		TotalHistory: len(history),
		TotalCurrent: len(current),
	}

	latest := Latest(history)
	var changes []Change
	for _, run := range current {
		key, ok := Key(run)
		if !ok {
			stats.Invalid++
			continue
		}
		prev, exists := latest[key]
		if !exists {
			stats.New++
			continue
		}
		if SameOutcome(prev, run) {
			stats.Unchanged++
			continue
		}
		stats.Changed++
		changes = append(changes, Change{Key: key, Previous: prev, Current: run})
	}
	return changes, stats
}

// Append adds current runs to history and keeps the newest limit entries.
// A limit <= 0 keeps everything. Runs without a valid key are dropped.
func Append(history []Run, current []Run, limit int) []Run {
	out := make([]Run, 0, len(history)+len(current))
	for _, run := range history {
		if _, ok := Key(run); ok {
			out = append(out, run)
		}
	}
	for _, run := range current {
		if _, ok := Key(run); ok {
			out = append(out, run)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
