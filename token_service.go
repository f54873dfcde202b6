package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// Default token lifetimes, in seconds. Identity tokens last a day,
// flow-scoped tokens an hour.
const (
	DefaultIdentityTokenTTL = 86400
	DefaultScopedTokenTTL   = 3600
)

// TokenService signs and validates the claim sets that carry identity
// and flow-stage state between requests. Tokens are stateless:
// validity is a function of signature and expiry alone.
type TokenService interface {
	IssueIdentityToken(accountID string, ttlSeconds int) (string, error)
	IssueResetToken(email string, otpVerified bool, ttlSeconds int) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	issuer     string
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, issuer string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		issuer:     issuer,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests to probe expiry
// boundaries.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	ts.now = now
	return ts
}

// IssueIdentityToken mints a token anchored on an account id.
func (ts *TokenServiceImpl) IssueIdentityToken(accountID string, ttlSeconds int) (string, error) {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultIdentityTokenTTL
	}
	claims := ts.baseClaims(accountID, ttlSeconds)
	claims.UID = accountID
	return ts.SignClaims(claims)
}

// IssueResetToken mints a reset-scope token anchored on an email
// address. otpVerified records that the bearer already passed the
// challenge step.
func (ts *TokenServiceImpl) IssueResetToken(email string, otpVerified bool, ttlSeconds int) (string, error) {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultScopedTokenTTL
	}
	claims := ts.baseClaims(email, ttlSeconds)
	claims.Email = email
	claims.VerifiedOTP = otpVerified
	return ts.SignClaims(claims)
}

func (ts *TokenServiceImpl) baseClaims(subject string, ttlSeconds int) *JWTClaims {
	now := ts.now()
	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlSeconds) * time.Second)),
		},
	}
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{jwt.WithTimeFunc(ts.now)}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrUnableToMapClaims
}
