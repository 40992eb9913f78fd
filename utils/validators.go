package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Languages accepted in user preferences
var SupportedLanguages = []string{"en", "hi", "ta", "te", "bn", "mr", "gu", "kn", "ml", "pa"}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(trimmed) <= 50
}

func IsValidPassword(password string) bool {
	return len(password) >= 6
}

func IsValidBio(bio string) bool {
	return len(bio) <= 200
}

func IsValidPostContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	return trimmed != "" && len(trimmed) <= 1000
}

func IsValidLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email for case-insensitive lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TrimTags trims whitespace from every tag and drops empties
func TrimTags(tags []string) []string {
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			trimmed = append(trimmed, tag)
		}
	}
	return trimmed
}
