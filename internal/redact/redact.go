// Package redact removes sensitive information from error strings before
// they are logged. Database errors in particular can carry connection
// strings, SQL text, and file paths that have no business in log output.
package redact

import "regexp"

// RedactionPlaceholder marks removed content in redacted strings.
const RedactionPlaceholder = "[REDACTED]"

var redactions = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// Connection strings with embedded credentials.
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), "[REDACTED_CREDENTIAL]"},
	// Password-like assignments.
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]+`), "[REDACTED_CREDENTIAL]"},
	// SQL statement fragments leaked from driver errors.
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)[\s\w,*()='"$]*`), "[REDACTED_SQL]"},
	// Filesystem paths.
	{regexp.MustCompile(`(/[\w.-]+){2,}`), "[REDACTED_PATH]"},
	// host:port endpoints.
	{regexp.MustCompile(`\b[\w-]+(\.[\w-]+)+:\d{1,5}\b`), "[REDACTED_HOST]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range redactions {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
