package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Password length bounds enforced at registration.
const (
	PasswordMinLen = 8
	PasswordMaxLen = 16
)

// ValidationError aggregates the user-facing field messages produced
// by registration validation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// ValidateNewPassword checks a replacement password against the same
// length bounds as registration. Reset reports failures through the
// generic error message rather than the field message.
func ValidateNewPassword(password string) error {
	return validation.Validate(password,
		validation.Required,
		validation.Length(PasswordMinLen, PasswordMaxLen),
	)
}

// ValidateRegistration checks the registration payload fields and maps
// each failed rule to its user-facing message. Both messages are
// returned when both fields fail.
func ValidateRegistration(email, password string) error {
	var messages []string

	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		messages = append(messages, MsgEmailNotValid)
	}

	if err := validation.Validate(password,
		validation.Required,
		validation.Length(PasswordMinLen, PasswordMaxLen),
	); err != nil {
		messages = append(messages, MsgPasswordLenNotValid)
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}
