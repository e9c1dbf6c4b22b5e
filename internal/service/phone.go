package service

import (
	"errors"
	"strings"
)

// Validation errors raised before any store call is made.
var (
	ErrInvalidName   = errors.New("name is required")
	ErrInvalidPhone  = errors.New("phone number is invalid")
	ErrInvalidSuffix = errors.New("suffix must be exactly four digits")
	ErrQueryTooShort = errors.New("search text must be at least two characters")
)

// Normalized phone length bounds, in digits. The shortest accepted number
// is a local 8-digit line; 15 is the ITU E.164 maximum.
const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// NormalizePhone strips every non-digit rune from the input, so
// "010-9999-8888" and "010 9999 8888" normalize to the same stored value.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneLast4 derives the suffix customers identify themselves with.
// The input must already be normalized and at least four digits long.
func PhoneLast4(digits string) string {
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// validPhone reports whether a normalized phone string is acceptable for
// registration.
func validPhone(digits string) bool {
	return len(digits) >= minPhoneDigits && len(digits) <= maxPhoneDigits
}

// isDigits reports whether s is non-empty and contains only ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
