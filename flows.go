package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// operationTimeout bounds every flow against a stalled database.
const operationTimeout = time.Second * 10

// Service orchestrates the credential lifecycle: registration, login,
// the password recovery challenge and email ownership verification.
type Service struct {
	repo     RepositoryManager
	tokens   TokenService
	notifier Notifier
	cfg      Config
	logger   Logger
}

// NewService wires the flow controller.
func NewService(repo RepositoryManager, tokens TokenService, notifier Notifier, cfg Config) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		logger:   defLogger{},
	}
}

// WithLogger overrides the default logger.
func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// ForgotPasswordResult is the payload of a successful recovery request.
type ForgotPasswordResult struct {
	ExpirationTime time.Time
	Token          string
}

// Register creates an account. The duplicate email check runs before
// field validation so a duplicate always reports as such regardless of
// other payload problems.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Account, string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	taken, err := s.repo.Accounts().EmailTaken(ctx, email)
	if err != nil {
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, MsgRegistrationFailed)
	}
	if taken {
		return nil, "", goerrors.New(MsgUserAlreadyExists, goerrors.CategoryConflict)
	}

	if err := ValidateRegistration(email, password); err != nil {
		return nil, "", err
	}

	account := &Account{
		Name:  name,
		Email: email,
	}
	if id, err := hashid.NewUUID(email); err == nil {
		account.ID = id
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, MsgRegistrationFailed)
		}
		account.PasswordHash = hash

		if account, err = s.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, MsgRegistrationFailed)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("register failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.tokens.IssueIdentityToken(account.ID.String(), s.cfg.GetTokenExpiration())
	if err != nil {
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, MsgRegistrationFailed)
	}

	return account.Sanitize(), token, nil
}

// Authenticate verifies email and password, returning the sanitized
// account and a fresh identity token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, "", ErrAccountNotFound
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, MsgAuthenticateFailed)
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, "", goerrors.New(MsgInvalidPassword, goerrors.CategoryAuth)
	}

	token, err := s.tokens.IssueIdentityToken(account.ID.String(), s.cfg.GetTokenExpiration())
	if err != nil {
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, MsgAuthenticateFailed)
	}

	return account.Sanitize(), token, nil
}

// ForgotPassword issues a reset challenge: a fresh 4-digit code with a
// one hour expiry, persisted before the notification goes out. A failed
// send is terminal for the request but the stored challenge stays, the
// next request simply issues a new one.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, MsgResetPasswordFailure)
	}

	code, err := IssueResetChallenge(account)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, MsgResetPasswordFailure)
	}

	if _, err := s.repo.Accounts().Save(ctx, account); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, MsgResetPasswordFailure)
	}

	if err := s.notifier.Send(ctx, account.Email, TemplateForgotPassword, map[string]any{
		"code": code,
	}); err != nil {
		s.logger.Error("forgot password notification failed", "email", email, "error", err)
		return nil, goerrors.New(MsgCannotSendEmail, goerrors.CategoryOperation)
	}

	token, err := s.tokens.IssueResetToken(account.Email, false, s.cfg.GetScopedTokenExpiration())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, MsgResetPasswordFailure)
	}

	return &ForgotPasswordResult{
		ExpirationTime: *account.ResetCodeExpiresAt,
		Token:          token,
	}, nil
}

// ValidateResetOTP checks the supplied code against the outstanding
// reset challenge. On a match it mints a reset token carrying the
// verified_otp claim; the code itself stays stored until the reset
// completes.
func (s *Service) ValidateResetOTP(ctx context.Context, email, otp string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryNotFound, MsgGenericError)
	}

	switch ConsumeOTP(account.ResetCode, account.ResetCodeExpiresAt, otp) {
	case OTPExpired:
		return "", goerrors.New(MsgOTPExpired, goerrors.CategoryAuth)
	case OTPMismatch:
		return "", goerrors.New(MsgOTPInvalid, goerrors.CategoryAuth)
	}

	token, err := s.tokens.IssueResetToken(account.Email, true, s.cfg.GetScopedTokenExpiration())
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, MsgGenericError)
	}

	return token, nil
}

// ResetPassword finalizes the recovery flow: the bearer must carry the
// verified_otp claim, the challenge must still be unexpired and the
// replacement password must satisfy the registration length bounds.
// The new password is hashed, the challenge cleared, and an account
// that never verified its email is marked verified, a working reset
// email proves ownership of the inbox.
func (s *Service) ResetPassword(ctx context.Context, email string, otpVerified bool, password string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if !otpVerified {
		return goerrors.New(MsgGenericError, goerrors.CategoryAuth)
	}

	return s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := s.repo.Accounts().GetByEmailTx(ctx, tx, email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryNotFound, MsgGenericError)
		}

		if account.ResetCodeExpiresAt != nil && account.ResetCodeExpiresAt.Before(time.Now()) {
			return goerrors.New(MsgOTPExpired, goerrors.CategoryAuth)
		}

		if err := ValidateNewPassword(password); err != nil {
			return goerrors.New(MsgGenericError, goerrors.CategoryValidation)
		}

		hash, err := HashPassword(password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, MsgGenericError)
		}

		account.PasswordHash = hash
		account.ClearResetChallenge()
		if !account.EmailVerified {
			account.MarkEmailVerified()
		}

		if _, err := s.repo.Accounts().SaveTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, MsgGenericError)
		}
		return nil
	})
}

// RequestEmailVerification issues a verify challenge for the
// authenticated account and emails the code.
func (s *Service) RequestEmailVerification(ctx context.Context, accountID string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	account, err := s.repo.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrAccountNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, MsgVerifyEmailFailure)
	}

	code, err := IssueVerifyChallenge(account)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, MsgVerifyEmailFailure)
	}

	if _, err := s.repo.Accounts().Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, MsgVerifyEmailFailure)
	}

	if err := s.notifier.Send(ctx, account.Email, TemplateVerifyEmail, map[string]any{
		"code": code,
	}); err != nil {
		s.logger.Error("verify email notification failed", "account", accountID, "error", err)
		return goerrors.New(MsgCannotSendEmail, goerrors.CategoryOperation)
	}

	return nil
}

// ValidateEmailOTP consumes the verify challenge. Verification is
// terminal: a verified account rejects further attempts and a consumed
// code can never validate again.
func (s *Service) ValidateEmailOTP(ctx context.Context, accountID, otp string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	account, err := s.repo.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryNotFound, MsgGenericError)
	}

	if account.EmailVerified {
		return goerrors.New(MsgEmailConfirmed, goerrors.CategoryConflict)
	}

	if ConsumeOTP(account.EmailVerifyCode, nil, otp) != OTPValid {
		return goerrors.New(MsgOTPInvalid, goerrors.CategoryAuth)
	}

	account.MarkEmailVerified()
	if _, err := s.repo.Accounts().Save(ctx, account); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, MsgGenericError)
	}
	return nil
}
