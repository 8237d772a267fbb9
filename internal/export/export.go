package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobadcheck/internal/jobad"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
}

// ParseFormat maps a flag value to a Format. Empty means table.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func WriteReports(w io.Writer, reports []*jobad.Report, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, reports)
	case FormatCSV:
		return writeCSV(w, reports, ',')
	case FormatTSV:
		return writeCSV(w, reports, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, reports)
	default:
		return writeTable(w, reports, opts)
	}
}

type reportJSON struct {
	Case       string      `json:"case"`
	URL        string      `json:"url"`
	Status     int         `json:"status"`
	Passed     bool        `json:"passed"`
	DurationMS int64       `json:"duration_ms"`
	Fatal      string      `json:"fatal,omitempty"`
	Checks     []checkJSON `json:"checks"`
}

type checkJSON struct {
	Name    string `json:"name"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Passed  bool   `json:"passed"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w io.Writer, reports []*jobad.Report) error {
	out := make([]reportJSON, 0, len(reports))
	for _, report := range reports {
		entry := reportJSON{
			Case:       string(report.Case),
			URL:        report.URL,
			Status:     report.StatusCode,
			Passed:     report.Passed(),
			DurationMS: report.Duration.Milliseconds(),
			Checks:     make([]checkJSON, 0, len(report.Checks)),
		}
		if report.Fatal != nil {
			entry.Fatal = report.Fatal.Error()
		}
		for _, check := range report.Checks {
			kind, message := failureParts(check)
			entry.Checks = append(entry.Checks, checkJSON{
				Name:    check.Name,
				Field:   check.Field,
				Value:   check.Value,
				Passed:  check.Passed,
				Kind:    kind,
				Message: message,
			})
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCSV(w io.Writer, reports []*jobad.Report, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, report := range reports {
		for _, row := range csvRows(report) {
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, reports []*jobad.Report, opts WriteOptions) error {
	output := termenv.NewOutput(w)
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		target := safe(report.URL)
		if opts.Hyperlinks && target != "" {
			target = hyperlink(report.URL, target)
		}
		fmt.Fprintf(w, "%s %s %s\n", outcome(report.Passed(), output, opts), report.Case, target)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
		for _, check := range report.Checks {
			fmt.Fprintln(tw, strings.Join(tableRow(check, output, opts), "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if report.Fatal != nil {
			fmt.Fprintf(w, "fatal: %s\n", report.Fatal.Error())
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, reports []*jobad.Report) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, report := range reports {
		lines := []string{
			fmt.Sprintf("- **%s**: %s", report.Case, outcomeLabel(report.Passed())),
			fmt.Sprintf("  URL: <%s>", safe(report.URL)),
			fmt.Sprintf("  Status: %d", report.StatusCode),
		}
		for _, check := range report.Checks {
			line := fmt.Sprintf("  - %s %s", checkMark(check.Passed), safe(check.Name))
			if kind, message := failureParts(check); kind != "" {
				line += fmt.Sprintf(" (%s: %s)", kind, safe(message))
			}
			lines = append(lines, line)
		}
		if report.Fatal != nil {
			lines = append(lines, fmt.Sprintf("  Fatal: %s", safe(report.Fatal.Error())))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"case",
		"url",
		"status",
		"check",
		"field",
		"passed",
		"kind",
		"message",
		"value",
	}
}

func csvRows(report *jobad.Report) [][]string {
	rows := make([][]string, 0, len(report.Checks)+1)
	status := strconv.Itoa(report.StatusCode)
	for _, check := range report.Checks {
		kind, message := failureParts(check)
		rows = append(rows, []string{
			string(report.Case),
			report.URL,
			status,
			check.Name,
			check.Field,
			strconv.FormatBool(check.Passed),
			kind,
			message,
			check.Value,
		})
	}
	if report.Fatal != nil {
		rows = append(rows, []string{
			string(report.Case),
			report.URL,
			status,
			"parse response",
			"",
			"false",
			string(report.Fatal.Kind),
			report.Fatal.Error(),
			"",
		})
	}
	return rows
}

func failureParts(check jobad.Check) (string, string) {
	if check.Failure == nil {
		return "", ""
	}
	message := check.Failure.Message
	if check.Failure.Err != nil {
		message += ": " + check.Failure.Err.Error()
	}
	return string(check.Failure.Kind), message
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"result",
		"check",
		"field",
		"value",
		"detail",
	}
}

func tableRow(check jobad.Check, output *termenv.Output, opts WriteOptions) []string {
	field := safe(check.Field)
	if field == "" {
		field = "-"
	}
	value := safe(check.Value)
	if value == "" {
		value = "-"
	}
	detail := "-"
	if kind, message := failureParts(check); kind != "" {
		detail = kind + ": " + safe(message)
	}
	return []string{
		outcome(check.Passed, output, opts),
		safe(check.Name),
		field,
		shorten(value, 60),
		detail,
	}
}

func outcome(passed bool, output *termenv.Output, opts WriteOptions) string {
	label := outcomeLabel(passed)
	if !opts.ColorEnabled || output == nil {
		return label
	}
	color := "2"
	if !passed {
		color = "1"
	}
	return output.String(label).Foreground(output.Color(color)).String()
}

func outcomeLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func checkMark(passed bool) string {
	if passed {
		return "[x]"
	}
	return "[ ]"
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shorten(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen-3]) + "..."
}
