package errors

import (
	"strings"
	"time"
	"unicode"
)

// knownPolicies mirrors the layout policies. It is duplicated here so the
// error package stays free of engine imports.
var knownPolicies = map[string]bool{
	"overlap":      true,
	"nested":       true,
	"columns":      true,
	"redistribute": true,
}

// ValidatePolicy validates a layout policy name.
func ValidatePolicy(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPolicy, "policy cannot be empty")
	}
	if !knownPolicies[name] {
		return New(ErrCodeInvalidPolicy, "unknown policy %q (must be one of: overlap, nested, columns, redistribute)", name)
	}
	return nil
}

// ValidateTimezone validates an IANA timezone name. The empty string is
// accepted and means the local zone.
func ValidateTimezone(name string) error {
	if name == "" {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return Wrap(ErrCodeInvalidTimezone, err, "unknown timezone %q", name)
	}
	return nil
}

// ValidateSourcePath validates a local event file path or an ICS URL.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - URLs must use http, https, mongodb or mongodb+srv
func ValidateSourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "mongodb://") || strings.HasPrefix(path, "mongodb+srv://") {
		return nil
	}
	if strings.Contains(path, "://") {
		return ValidateURL(path)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
