package utils

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is assumed for numbers without a country code.
const DefaultPhoneRegion = "IN"

const indiaCountryCode = 91

// NormalizeIndianPhone parses a phone number and returns it in E.164 form.
// Only valid Indian numbers are accepted.
func NormalizeIndianPhone(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(clean, DefaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}

	if num.GetCountryCode() != indiaCountryCode || !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid Indian phone number: %s", raw)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// IsValidIndianPhone reports whether raw parses as a valid Indian number.
func IsValidIndianPhone(raw string) bool {
	_, err := NormalizeIndianPhone(raw)
	return err == nil
}
