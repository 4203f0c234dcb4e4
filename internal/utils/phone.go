package utils

import (
	"regexp"
	"strings"
)

var (
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	nonDigitRegex = regexp.MustCompile(`[^\d]`)
)

func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(nonDigitRegex.ReplaceAllString(phone, ""))
}

// FormatPhone returns phone in E.164 form, prefixing countryCode to bare
// ten digit local numbers.
func FormatPhone(phone, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	cleaned := nonDigitRegex.ReplaceAllString(phone, "")
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + cleaned
	}
	cleaned = strings.TrimLeft(cleaned, "0")
	if len(cleaned) == 10 {
		cleaned = strings.TrimPrefix(countryCode, "+") + cleaned
	}
	return "+" + cleaned
}

func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
