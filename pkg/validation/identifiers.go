package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	courseIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,39}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeCourseID converts a course id to lowercase and validates format.
// Valid ids are 2-40 characters of lowercase letters, numbers, hyphens and underscores.
func NormalizeCourseID(value string) (string, error) {
	normalized := strings.TrimSpace(strings.ToLower(value))
	if !courseIDRegex.MatchString(normalized) {
		return "", fmt.Errorf("invalid course id. Use 2-40 lowercase characters (letters, numbers, '-', '_')")
	}
	return normalized, nil
}

// IsEmail performs a loose shape check on an email address.
func IsEmail(value string) bool {
	return emailRegex.MatchString(strings.TrimSpace(value))
}

// ParseLessonNumber parses a positive lesson number from a path segment.
func ParseLessonNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid lesson number %q", value)
	}
	return n, nil
}
