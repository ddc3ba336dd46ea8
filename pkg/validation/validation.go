package validation

import "strings"

// NormalizeEmail lowercases and trims an email address. Uniqueness of
// the (email, city, frequency) triple is checked against the normalized
// form, so "A@x.com" and "a@x.com " count as the same subscriber.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCity trims surrounding whitespace. Case is preserved because
// the city string is passed through to the weather provider as typed.
func NormalizeCity(city string) string {
	return strings.TrimSpace(city)
}

// IsValidFrequency validates subscription frequency
func IsValidFrequency(frequency string) bool {
	return frequency == "hourly" || frequency == "daily"
}
