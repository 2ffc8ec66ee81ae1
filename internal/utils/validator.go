package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeEmail lowercases and trims an email so lookups and the unique
// constraint agree on what "the same email" means.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
