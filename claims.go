package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the read side of a validated token.
type AuthClaims interface {
	Subject() string
	AccountID() string
	AccountEmail() string
	OTPVerified() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete claim set carried by every token this
// service issues. Identity tokens set UID; reset-scope tokens set
// Email and, after the challenge is validated, VerifiedOTP.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID         string `json:"uid,omitempty"`
	Email       string `json:"email,omitempty"`
	VerifiedOTP bool   `json:"verified_otp,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// AccountID returns the account id anchor. Only identity tokens carry
// it; reset-scope tokens anchor on the email instead.
func (c *JWTClaims) AccountID() string {
	return c.UID
}

// AccountEmail returns the email anchor used by reset-scope tokens.
func (c *JWTClaims) AccountEmail() string {
	return c.Email
}

// OTPVerified reports whether the bearer already validated its reset
// challenge.
func (c *JWTClaims) OTPVerified() bool {
	return c.VerifiedOTP
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
