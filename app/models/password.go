package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	PasswordMinChars   = 8
	PasswordMinDigits  = 2
	PasswordMinSpecial = 2
	// bcrypt only hashes the first 72 bytes and rejects longer input
	PasswordMaxBytes = 72
)

const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordPolicyError reports the first rule a password violates.
type PasswordPolicyError struct {
	Rule string
}

func (e *PasswordPolicyError) Error() string {
	return e.Rule
}

// ValidatePassword checks p against the password policy. The special
// character rule only applies when strict is set.
func ValidatePassword(p string, strict bool) error {
	if len([]rune(p)) < PasswordMinChars {
		return &PasswordPolicyError{Rule: fmt.Sprintf("Password must be at least %d characters long.", PasswordMinChars)}
	}
	if len(p) > PasswordMaxBytes {
		return &PasswordPolicyError{Rule: fmt.Sprintf("Password must be at most %d bytes long.", PasswordMaxBytes)}
	}

	digits, special := 0, 0
	for _, r := range p {
		switch {
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune(passwordSpecialChars, r):
			special++
		}
	}

	if digits < PasswordMinDigits {
		return &PasswordPolicyError{Rule: fmt.Sprintf("Password must contain at least %d numbers.", PasswordMinDigits)}
	}
	if strict && special < PasswordMinSpecial {
		return &PasswordPolicyError{Rule: fmt.Sprintf("Password must contain at least %d special characters.", PasswordMinSpecial)}
	}
	return nil
}

// IsPasswordPolicyError reports whether err came from ValidatePassword.
func IsPasswordPolicyError(err error) bool {
	var pe *PasswordPolicyError
	return errors.As(err, &pe)
}
