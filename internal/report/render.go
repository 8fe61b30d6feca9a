package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// RenderHTML converts a markdown report into an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

// PlainText returns the downloadable text body for an outcome. A failed
// outcome yields its error detail so the caller always has something to show.
func PlainText(outcome Outcome) string {
	switch outcome.Status {
	case StatusOK:
		return outcome.Text
	case StatusFailed:
		return "Report generation failed: " + outcome.Detail
	default:
		return "Report generation was skipped."
	}
}
