package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-auth-service"
)

func TestAccountsRepository(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	accounts := h.Repo.Accounts()

	created, err := accounts.Create(ctx, &auth.Account{
		Name:         "A",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	t.Run("get by email is an exact match", func(t *testing.T) {
		found, err := accounts.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		_, err = accounts.GetByEmail(ctx, "A@X.COM")
		require.Error(t, err)
		assert.True(t, repository.IsRecordNotFound(err))
	})

	t.Run("email taken", func(t *testing.T) {
		taken, err := accounts.EmailTaken(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = accounts.EmailTaken(ctx, "b@x.com")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("unique email constraint", func(t *testing.T) {
		_, err := accounts.Create(ctx, &auth.Account{
			Name:         "Dup",
			Email:        "a@x.com",
			PasswordHash: "hash",
		})
		assert.Error(t, err)
	})

	t.Run("save persists challenge mutations", func(t *testing.T) {
		account, err := accounts.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)

		code, err := auth.IssueResetChallenge(account)
		require.NoError(t, err)
		_, err = accounts.Save(ctx, account)
		require.NoError(t, err)

		reloaded, err := accounts.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, reloaded.ResetCode)
		assert.Equal(t, code, *reloaded.ResetCode)
		require.NotNil(t, reloaded.ResetCodeExpiresAt)

		reloaded.ClearResetChallenge()
		_, err = accounts.Save(ctx, reloaded)
		require.NoError(t, err)

		cleared, err := accounts.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Nil(t, cleared.ResetCode)
		assert.Nil(t, cleared.ResetCodeExpiresAt)
	})
}

func TestAccountSanitize(t *testing.T) {
	code := "1234"
	account := &auth.Account{
		Name:            "A",
		Email:           "a@x.com",
		PasswordHash:    "secret-hash",
		EmailVerifyCode: &code,
	}
	_, err := auth.IssueResetChallenge(account)
	require.NoError(t, err)

	clean := account.Sanitize()
	assert.Empty(t, clean.PasswordHash)
	assert.Nil(t, clean.EmailVerifyCode)
	assert.Nil(t, clean.ResetCode)
	assert.Nil(t, clean.ResetCodeExpiresAt)

	// original untouched
	assert.Equal(t, "secret-hash", account.PasswordHash)
	assert.NotNil(t, account.ResetCode)
}
