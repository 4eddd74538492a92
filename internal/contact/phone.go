// Package contact validates and normalizes patient contact data.
package contact

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidPhoneFormat = errors.New("invalid Philippine mobile number format")

var (
	nonDigit       = regexp.MustCompile(`\D`)
	philippineE164 = regexp.MustCompile(`^\+639\d{9}$`)
)

// NormalizePhone converts a Philippine mobile number into E.164 form (+639XXXXXXXXX).
func NormalizePhone(raw string) (string, error) {
	cleaned := nonDigit.ReplaceAllString(raw, "")

	switch {
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "639"):
		return "+" + cleaned, nil
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "09"):
		return "+63" + cleaned[1:], nil
	case len(cleaned) == 10 && strings.HasPrefix(cleaned, "9"):
		return "+63" + cleaned, nil
	}
	// ten digits without a leading 9 are not guessed into +639: that yields 13 digits
	return "", ErrInvalidPhoneFormat
}

// IsValidPhilippineNumber reports whether raw normalizes to a +639 mobile number.
func IsValidPhilippineNumber(raw string) bool {
	normalized, err := NormalizePhone(raw)
	if err != nil {
		return false
	}
	return philippineE164.MatchString(normalized)
}
