package auth_test

import (
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-signing-key")

func newTokenService() *auth.TokenServiceImpl {
	return auth.NewTokenService(testSigningKey, "test-issuer", nil)
}

func TestIssueIdentityToken(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueIdentityToken("account-123", 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "account-123", claims.AccountID())
	assert.Empty(t, claims.AccountEmail())
	assert.False(t, claims.OTPVerified())
	assert.WithinDuration(t, time.Now().Add(auth.DefaultIdentityTokenTTL*time.Second), claims.Expires(), 5*time.Second)
}

func TestIssueResetToken(t *testing.T) {
	ts := newTokenService()

	t.Run("challenge stage carries only the email", func(t *testing.T) {
		token, err := ts.IssueResetToken("a@x.com", false, 3600)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.AccountEmail())
		assert.False(t, claims.OTPVerified())
	})

	t.Run("verified stage carries the otp marker", func(t *testing.T) {
		token, err := ts.IssueResetToken("a@x.com", true, 3600)
		require.NoError(t, err)

		claims, err := ts.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.AccountEmail())
		assert.True(t, claims.OTPVerified())
	})
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueIdentityToken("account-123", 3600)
	require.NoError(t, err)

	// flip a character inside the signature
	tampered := token[:len(token)-2] + "xx"
	_, err = ts.Validate(tampered)
	assert.Error(t, err)

	_, err = ts.Validate("not-a-token")
	assert.Error(t, err)
}

func TestValidateRejectsForeignKey(t *testing.T) {
	ts := newTokenService()
	other := auth.NewTokenService([]byte("other-key"), "test-issuer", nil)

	token, err := other.IssueIdentityToken("account-123", 3600)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}

func TestValidateExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	issuer := auth.NewTokenService(testSigningKey, "test-issuer", nil).
		WithClock(func() time.Time { return issuedAt })

	token, err := issuer.IssueResetToken("a@x.com", false, 3600)
	require.NoError(t, err)

	t.Run("accepted one second before expiry", func(t *testing.T) {
		verifier := auth.NewTokenService(testSigningKey, "test-issuer", nil).
			WithClock(func() time.Time { return issuedAt.Add(3599 * time.Second) })
		claims, err := verifier.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.AccountEmail())
	})

	t.Run("rejected one second after expiry", func(t *testing.T) {
		verifier := auth.NewTokenService(testSigningKey, "test-issuer", nil).
			WithClock(func() time.Time { return issuedAt.Add(3601 * time.Second) })
		_, err := verifier.Validate(token)
		require.Error(t, err)
		assert.Equal(t, auth.ErrTokenExpired, err)
	})
}
