package cryptox

import "strings"

// MinPasswordLength is the default minimum length enforced on new passwords.
const MinPasswordLength = 8

// passwordSymbols is the set of special characters a password must draw from.
const passwordSymbols = "#?!@$%^&*-"

// CheckPasswordStrength reports whether a candidate password is acceptable:
// at least minLength characters with at least one lowercase letter, one
// uppercase letter, one digit and one symbol from passwordSymbols. A
// minLength of zero or less falls back to MinPasswordLength.
func CheckPasswordStrength(password string, minLength int) bool {
	if minLength <= 0 {
		minLength = MinPasswordLength
	}
	if len(password) < minLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	return lower && upper && digit && symbol
}
