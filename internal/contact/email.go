package contact

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail performs the clinic's permissive address check: one @ and a dot after it.
func IsValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

// IsSentinel reports whether a contact field is intentionally absent
// (empty, whitespace only, or "N/A" in any case).
func IsSentinel(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.EqualFold(trimmed, "n/a")
}

// UsablePhone reports whether a patient phone field can receive SMS.
func UsablePhone(value string) bool {
	return !IsSentinel(value) && IsValidPhilippineNumber(value)
}

// UsableEmail reports whether a patient email field can receive email.
func UsableEmail(value string) bool {
	return !IsSentinel(value) && IsValidEmail(strings.TrimSpace(value))
}
