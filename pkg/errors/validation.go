package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePathwayName validates a pathway name before it is sent to the
// hosting API or used as a storage key.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences
//   - Maximum length of 256 characters
func ValidatePathwayName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "pathway name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "pathway name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "pathway name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",
		"//",
		"\x00",
		"\\",
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "pathway name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// pathwayIDRegex matches identifiers issued by the hosting API.
var pathwayIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePathwayID validates a hosted pathway identifier.
func ValidatePathwayID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "pathway id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "pathway id too long (max 128 characters)")
	}
	if !pathwayIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid pathway id: %q", id)
	}
	return nil
}

// transferNumberRegex matches E.164-style phone numbers with an optional
// leading plus.
var transferNumberRegex = regexp.MustCompile(`^\+?[0-9]{4,15}$`)

// ValidateTransferNumber validates the destination of a transfer node.
func ValidateTransferNumber(number string) error {
	if number == "" {
		return New(ErrCodeInvalidInput, "transfer number cannot be empty")
	}
	if !transferNumberRegex.MatchString(number) {
		return New(ErrCodeInvalidInput, "invalid transfer number: %q", number)
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
