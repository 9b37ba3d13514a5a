package validation

import (
	"errors"
	"regexp"
)

// Field limits shared by forms and storage
const (
	LicenseNumberLength = 8
	licensePrefixLength = 3

	UsernameMaxLength   = 150
	PersonNameMaxLength = 150
	NameMaxLength       = 255
	CarSearchMaxLength  = 200

	PasswordMinLength = 8
)

// LicenseNumberHelpText is rendered under the license number input.
const LicenseNumberHelpText = "<li>License number must contain exactly 8 characters</li>" +
	"<li>First 3 characters are uppercase letters</li>" +
	"<li>Last 5 characters are digits</li>"

// LicenseNumberPattern is the full format a stored license number satisfies.
var LicenseNumberPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{5}$`)

// License number rule violations, checked in this order.
var (
	ErrLicenseLength = errors.New("License number should consist of 8 characters")
	ErrLicensePrefix = errors.New("First 3 characters should be uppercase letters")
	ErrLicenseSuffix = errors.New("Last 5 characters should be digits")
)

// CheckLicenseNumber returns the first rule the value breaks, or nil.
func CheckLicenseNumber(value string) error {
	runes := []rune(value)
	if len(runes) != LicenseNumberLength {
		return ErrLicenseLength
	}

	for _, r := range runes[:licensePrefixLength] {
		if r < 'A' || r > 'Z' {
			return ErrLicensePrefix
		}
	}

	for _, r := range runes[licensePrefixLength:] {
		if r < '0' || r > '9' {
			return ErrLicenseSuffix
		}
	}

	return nil
}

// IsValidLicenseNumber reports whether value satisfies every license rule.
func IsValidLicenseNumber(value string) bool {
	return LicenseNumberPattern.MatchString(value)
}
