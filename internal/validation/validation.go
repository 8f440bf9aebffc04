// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^\w{2,30}$`)

// ValidateUsername checks the account name format: 2-30 word characters.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 2-30 characters and contain only letters, digits and underscores")
	}
	return nil
}

// ValidatePassword checks if a password meets minimum requirements
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// ValidateCategoryName enforces the 3-30 character bound.
func ValidateCategoryName(name string) error {
	return validateLength("category name", name, 3, 30)
}

// ValidateCategoryDescription enforces the 3-50 character bound.
func ValidateCategoryDescription(description string) error {
	return validateLength("category description", description, 3, 50)
}

// ValidateTopicTitle enforces the 3-40 character bound.
func ValidateTopicTitle(title string) error {
	return validateLength("topic title", title, 3, 40)
}

// ValidateTopicBody enforces the 10-300 character bound.
func ValidateTopicBody(body string) error {
	return validateLength("topic body", body, 10, 300)
}

// ValidateReplyContent enforces the 2-250 character bound.
func ValidateReplyContent(content string) error {
	return validateLength("reply content", content, 2, 250)
}

// ValidateMessageContent rejects empty messages.
func ValidateMessageContent(content string) error {
	return validateLength("message content", content, 1, 2000)
}

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return fmt.Errorf("%s must be between %d and %d characters", field, min, max)
	}
	return nil
}
