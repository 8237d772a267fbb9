// Package e2e holds the live suite that runs the job ad checks against the
// real career API. It is skipped unless JOBADCHECK_LIVE is set.
package e2e

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/reporters"
)

// LiveEnabled reports whether JOBADCHECK_LIVE asks for live runs.
func LiveEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("JOBADCHECK_LIVE"))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// GetReporters returns a JUnit reporter when JOBADCHECK_REPORTS_DIR is set.
func GetReporters(name string) []Reporter {
	dir := strings.TrimSpace(os.Getenv("JOBADCHECK_REPORTS_DIR"))
	if dir == "" {
		return []Reporter{}
	}
	xmlFileSpec := filepath.Join(dir, "e2e."+name+"-junit.xml")
	return []Reporter{reporters.NewJUnitReporter(xmlFileSpec)}
}
