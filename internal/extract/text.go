package extract

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s\-.,;:()\[\]{}/+@]`)

	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// CleanText collapses whitespace and strips characters outside the
// alphanumeric range and common punctuation.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialsRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// FindContactInfo returns the first email address and phone number found in
// the text. Missing values are returned empty.
func FindContactInfo(text string) ContactInfo {
	info := ContactInfo{}
	if email := emailRe.FindString(text); email != "" {
		info.Email = email
	}
	if phone := phoneRe.FindString(text); phone != "" {
		info.Phone = phone
	}
	return info
}

// ValidEmail reports whether the string looks like a deliverable address.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRe.FindString(email) == email
}
