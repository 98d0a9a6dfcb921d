// internal/pkg/validate/validate.go
package validate

import (
	"regexp"
	"strings"

	xerrors "adminboard-service/internal/pkg/errors"
)

const (
	EmailMaxLength    = 255
	PasswordMinLength = 8
	PasswordMaxLength = 50
)

// passwordSpecials is the fixed symbol set counted as the fourth
// character class.
const passwordSpecials = "!@#$%^&*()_+-=[]{}|;:,.<>?"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether email looks like local@domain.tld and fits the
// length bound.
func Email(email string) bool {
	if email == "" || len(email) > EmailMaxLength {
		return false
	}
	return emailPattern.MatchString(email)
}

// Password checks the password policy: length in [8,50] and at least two
// of the four character classes (uppercase, lowercase, digit, special).
// The returned error is a ValidationError with the specific reason.
func Password(password string) error {
	if len(password) < PasswordMinLength {
		return xerrors.Validationf("password must be at least %d characters", PasswordMinLength)
	}
	if len(password) > PasswordMaxLength {
		return xerrors.Validationf("password must be at most %d characters", PasswordMaxLength)
	}

	classes := 0
	if strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		classes++
	}
	if strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		classes++
	}
	if strings.ContainsAny(password, "0123456789") {
		classes++
	}
	if strings.ContainsAny(password, passwordSpecials) {
		classes++
	}

	if classes < 2 {
		return xerrors.Validation("password must contain at least two of: uppercase letters, lowercase letters, digits, special characters")
	}
	return nil
}
