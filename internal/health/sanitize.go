package health

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	// Values following credential-shaped keys, e.g. api_key=..., token: "...".
	keyedCredential = regexp.MustCompile(
		`(?i)\b(token|secret|password|passwd|api[_-]?key|client[_-]?id)\b(\s*[=:]\s*"?)([^\s"'&,;]+)`)

	// Bare long alphanumeric tokens (access keys, session ids).
	bareToken = regexp.MustCompile(`\b[A-Za-z0-9]{20,}\b`)
)

// Sanitize redacts credential-shaped substrings. Applied to every field
// before a result is rendered externally.
func Sanitize(s string) string {
	s = keyedCredential.ReplaceAllString(s, "${1}${2}"+redacted)
	s = bareToken.ReplaceAllStringFunc(s, func(m string) string {
		// Keep words that are clearly not tokens: all-letter strings are
		// likelier prose than credentials.
		if strings.IndexFunc(m, func(r rune) bool { return r >= '0' && r <= '9' }) == -1 {
			return m
		}
		return redacted
	})
	return s
}

// sanitizeResult returns a copy with all text fields redacted.
func sanitizeResult(res Result) Result {
	res.Message = Sanitize(res.Message)
	res.Remediation = Sanitize(res.Remediation)
	res.Detail = Sanitize(res.Detail)
	return res
}

// SanitizeReport returns a copy of the report safe for external rendering.
func SanitizeReport(report Report) Report {
	out := report
	out.Results = make([]Result, len(report.Results))
	for i, res := range report.Results {
		out.Results[i] = sanitizeResult(res)
	}
	return out
}
