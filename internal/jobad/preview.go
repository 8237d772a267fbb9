package jobad

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const previewLimit = 160

// Preview renders an HTML fragment as a single line of plain text, cut to
// previewLimit runes.
func Preview(fragment string) string {
	text := fragment
	if strings.ContainsAny(fragment, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return strings.TrimSpace(string(runes[:previewLimit-3])) + "..."
}
