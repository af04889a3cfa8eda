package service

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

// ValidatePassword applies the platform password policy. Each violation has
// its own message so clients can surface the exact failure.
func ValidatePassword(password, username, email string) error {
	if len(password) < minPasswordLength {
		return validationf("this password is too short, it must contain at least %d characters", minPasswordLength)
	}

	if isEntirelyNumeric(password) {
		return validationf("this password is entirely numeric")
	}

	lower := strings.ToLower(password)
	if username != "" && strings.Contains(lower, strings.ToLower(username)) {
		return validationf("the password is too similar to the username")
	}
	if local, _, found := strings.Cut(email, "@"); found && local != "" {
		if strings.Contains(lower, strings.ToLower(local)) {
			return validationf("the password is too similar to the email address")
		}
	}

	return nil
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
