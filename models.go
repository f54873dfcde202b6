package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the persisted credential record. Email is unique across
// all accounts; the reset code and its expiry are either both set or
// both null.
type Account struct {
	bun.BaseModel      `bun:"table:accounts,alias:acc"`
	ID                 uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name               string     `bun:"name,notnull" json:"name,omitempty"`
	Email              string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash       string     `bun:"password_hash,notnull" json:"password_hash,omitempty"`
	EmailVerified      bool       `bun:"is_email_verified,notnull,default:false" json:"is_email_verified"`
	EmailVerifyCode    *string    `bun:"email_verify_code,nullzero" json:"email_verify_code,omitempty"`
	ResetCode          *string    `bun:"reset_code,nullzero" json:"reset_code,omitempty"`
	ResetCodeExpiresAt *time.Time `bun:"reset_code_expires_at,nullzero" json:"reset_code_expires_at,omitempty"`
	CreatedAt          *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Sanitize strips the password hash and every outstanding challenge
// field before the record is serialized into a response body.
func (a *Account) Sanitize() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordHash = ""
	clone.EmailVerifyCode = nil
	clone.ResetCode = nil
	clone.ResetCodeExpiresAt = nil
	return &clone
}

// SetResetChallenge installs a reset code together with its expiry.
func (a *Account) SetResetChallenge(code string, expiresAt time.Time) {
	a.ResetCode = &code
	a.ResetCodeExpiresAt = &expiresAt
}

// ClearResetChallenge drops the reset code and its expiry as a pair.
func (a *Account) ClearResetChallenge() {
	a.ResetCode = nil
	a.ResetCodeExpiresAt = nil
}

// SetVerifyChallenge installs an email verification code. The verify
// challenge carries no expiry.
func (a *Account) SetVerifyChallenge(code string) {
	a.EmailVerifyCode = &code
}

// MarkEmailVerified flips the account to verified and clears any
// pending verify code. Verification is monotonic, it never reverts.
func (a *Account) MarkEmailVerified() {
	a.EmailVerified = true
	a.EmailVerifyCode = nil
}
