package registration

import "unicode/utf8"

// Strength is the password strength label shown while typing.
type Strength string

const (
	StrengthNone     Strength = ""
	StrengthWeak     Strength = "Weak"
	StrengthModerate Strength = "Moderate"
	StrengthStrong   Strength = "Strong"
)

// MinPasswordLength is shared by the classifier and the password rule.
const MinPasswordLength = 6

// ClassifyPassword labels a password. Only ASCII upper-case letters and
// digits count towards Strong.
func ClassifyPassword(password string) Strength {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return StrengthWeak
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if upper && digit {
		return StrengthStrong
	}
	return StrengthModerate
}
