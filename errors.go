package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

// User-facing messages returned by the flow boundary. The wording is
// part of the API contract and must not drift.
const (
	MsgUserAlreadyExists    = "User already exists"
	MsgUserNotFound         = "User not found"
	MsgInvalidPassword      = "Invalid password"
	MsgRegistrationFailed   = "Registration failed"
	MsgAuthenticateFailed   = "Authenticate failed"
	MsgEmailNotValid        = "Email not valid"
	MsgPasswordLenNotValid  = "Password length not valid"
	MsgCannotSendEmail      = "Cannot send email"
	MsgResetPasswordFailure = "Reset password failure"
	MsgOTPExpired           = "This OTP code has expired"
	MsgOTPInvalid           = "This OTP code is invalid"
	MsgEmailConfirmed       = "Email already confirmed"
	MsgGenericError         = "A error occurred"
	MsgVerifyEmailFailure   = "Verify email failure"
)

var (
	// ErrTokenExpired is returned when a bearer token is past its expiry.
	ErrTokenExpired = goerrors.New("Authentication token expired", goerrors.CategoryAuth).
			WithTextCode("TOKEN_EXPIRED")

	// ErrTokenMalformed covers bad signatures and undecodable tokens.
	ErrTokenMalformed = goerrors.New("Invalid authentication token", goerrors.CategoryAuth).
				WithTextCode("TOKEN_MALFORMED")

	// ErrUnableToMapClaims is returned when a token validates but its
	// claims cannot be decoded into the expected shape.
	ErrUnableToMapClaims = goerrors.New("unable to map claims", goerrors.CategoryAuth)

	// ErrNoEmptyString rejects empty passwords before hashing.
	ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryBadInput)

	// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch.
	ErrMismatchedHashAndPassword = goerrors.New(MsgInvalidPassword, goerrors.CategoryAuth)

	// ErrAccountNotFound is the not-found sentinel for account lookups.
	ErrAccountNotFound = goerrors.New(MsgUserNotFound, goerrors.CategoryNotFound)
)

// userMessage extracts the message a client should see for err. Rich
// errors carry their message verbatim; anything else collapses to the
// provided fallback so internals never leak.
func userMessage(err error, fallback string) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return fallback
}
