package utils

import "strings"

// NormalizeString trims whitespace and normalizes string input
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail normalizes email addresses (lowercase and trim)
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlank reports whether any of the values is empty after trimming.
func IsBlank(values ...string) bool {
	for _, v := range values {
		if NormalizeString(v) == "" {
			return true
		}
	}
	return false
}
