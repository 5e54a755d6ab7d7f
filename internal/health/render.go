package health

import (
	"fmt"
	"io"
	"time"
)

// Render writes a human-readable, sanitized report. Every non-PASS result
// is printed with its remediation so the output is immediately actionable.
func Render(w io.Writer, report Report) {
	report = SanitizeReport(report)

	fmt.Fprintf(w, "Health check %s — %s (%s)\n", report.ID, report.Overall, report.Duration.Round(time.Millisecond))
	for _, res := range report.Results {
		fmt.Fprintf(w, "  [%s] %-20s %s\n", res.Status, res.Component, res.Message)
		if res.Status != StatusPass && res.Remediation != "" {
			fmt.Fprintf(w, "         remediation: %s\n", res.Remediation)
		}
		if res.Detail != "" {
			fmt.Fprintf(w, "         detail: %s\n", res.Detail)
		}
	}
}
