package auth

import (
	"crypto/rand"
	"math/big"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// OTPLength is the number of digits in a generated code.
const OTPLength = 4

// ResetChallengeTTL bounds how long a reset code stays valid.
const ResetChallengeTTL = time.Hour

// OTPResult is the outcome of checking a supplied code against the
// stored challenge.
type OTPResult int

const (
	// OTPValid means the supplied code matches an unexpired challenge.
	OTPValid OTPResult = iota
	// OTPExpired means the challenge expiry is in the past.
	OTPExpired
	// OTPMismatch means the codes differ or no challenge is outstanding.
	OTPMismatch
)

// GenerateOTP produces a fixed-length numeric code. Digits only,
// leading zeros allowed.
func GenerateOTP() (string, error) {
	code := make([]byte, OTPLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate OTP")
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// IssueResetChallenge generates a reset code and installs it on the
// account together with a one hour expiry. The caller persists the
// mutation.
func IssueResetChallenge(account *Account) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	account.SetResetChallenge(code, time.Now().Add(ResetChallengeTTL))
	return code, nil
}

// IssueVerifyChallenge generates an email verification code and
// installs it on the account. Verify challenges carry no expiry.
func IssueVerifyChallenge(account *Account) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	account.SetVerifyChallenge(code)
	return code, nil
}

// ConsumeOTP checks a supplied code against the stored challenge.
// Expiry wins over equality: an expired challenge reports OTPExpired
// even when the code matches. On OTPValid the caller must clear the
// stored code so it can never validate again.
func ConsumeOTP(stored *string, expiresAt *time.Time, supplied string) OTPResult {
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return OTPExpired
	}
	if stored == nil || *stored == "" || *stored != supplied {
		return OTPMismatch
	}
	return OTPValid
}
