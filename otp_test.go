package auth_test

import (
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := auth.GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, auth.OTPLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit %q", code, r)
		}
		seen[code] = true
	}
	// 200 draws from 10000 values should not collapse to a handful
	assert.Greater(t, len(seen), 50)
}

func TestIssueResetChallenge(t *testing.T) {
	account := &auth.Account{}
	before := time.Now()

	code, err := auth.IssueResetChallenge(account)
	require.NoError(t, err)

	require.NotNil(t, account.ResetCode)
	require.NotNil(t, account.ResetCodeExpiresAt)
	assert.Equal(t, code, *account.ResetCode)

	expiry := *account.ResetCodeExpiresAt
	assert.WithinDuration(t, before.Add(auth.ResetChallengeTTL), expiry, 5*time.Second)
}

func TestIssueVerifyChallenge(t *testing.T) {
	account := &auth.Account{}

	code, err := auth.IssueVerifyChallenge(account)
	require.NoError(t, err)

	require.NotNil(t, account.EmailVerifyCode)
	assert.Equal(t, code, *account.EmailVerifyCode)
	assert.Nil(t, account.ResetCodeExpiresAt)
}

func TestConsumeOTP(t *testing.T) {
	code := "0412"
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Second)

	tests := []struct {
		name     string
		stored   *string
		expiry   *time.Time
		supplied string
		want     auth.OTPResult
	}{
		{"match with future expiry", &code, &future, "0412", auth.OTPValid},
		{"match without expiry", &code, nil, "0412", auth.OTPValid},
		{"mismatch", &code, &future, "9999", auth.OTPMismatch},
		{"no challenge outstanding", nil, nil, "0412", auth.OTPMismatch},
		{"expired wins over correctness", &code, &past, "0412", auth.OTPExpired},
		{"expired wrong code still expired", &code, &past, "9999", auth.OTPExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ConsumeOTP(tt.stored, tt.expiry, tt.supplied))
		})
	}
}

func TestConsumeOTPClearedCodeNeverValidates(t *testing.T) {
	account := &auth.Account{}
	code, err := auth.IssueResetChallenge(account)
	require.NoError(t, err)

	require.Equal(t, auth.OTPValid, auth.ConsumeOTP(account.ResetCode, account.ResetCodeExpiresAt, code))

	account.ClearResetChallenge()
	assert.Equal(t, auth.OTPMismatch, auth.ConsumeOTP(account.ResetCode, account.ResetCodeExpiresAt, code))
}
