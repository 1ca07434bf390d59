// Package mask redacts personal fields before they leave the API. Profile
// payloads never carry the raw nickname, email, or mobile number.
package mask

import "strings"

// Name keeps the first rune of a display name and redacts the rest.
func Name(name string) string {
	runes := []rune(name)
	if len(runes) <= 1 {
		return name
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}

// Email keeps the first and last rune of the local part plus the full domain.
func Email(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}

	local := []rune(email[:at])
	domain := email[at:]

	if len(local) <= 2 {
		return string(local[0]) + "***" + domain
	}
	return string(local[0]) + strings.Repeat("*", len(local)-2) + string(local[len(local)-1]) + domain
}

// Mobile keeps the first three and last four digits of a phone number.
func Mobile(mobile string) string {
	runes := []rune(mobile)
	if len(runes) < 8 {
		return mobile
	}
	return string(runes[:3]) + strings.Repeat("*", len(runes)-7) + string(runes[len(runes)-4:])
}
