package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Gate rejection messages.
const (
	MsgNoTokenProvided   = "No token provided"
	MsgTokenMalformatted = "Token malformatted"
	MsgTokenInvalid      = "Token invalid"
)

// ExtractBearerToken pulls the raw token out of the authorization
// header, enforcing the configured scheme.
func ExtractBearerToken(c *fiber.Ctx, scheme string) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, MsgNoTokenProvided)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", fiber.NewError(fiber.StatusBadRequest, MsgTokenMalformatted)
	}

	return parts[1], nil
}

// IdentityGate admits requests bearing a valid identity token. The
// account id claim lands in locals under the configured context key
// before any handler logic runs; rejection short-circuits the request
// with no downstream side effects.
func IdentityGate(cfg Config, tokens TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := ExtractBearerToken(c, cfg.GetAuthScheme())
		if err != nil {
			return rejectGate(c, err.Error())
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			return rejectGate(c, MsgTokenInvalid)
		}

		if claims.AccountID() == "" {
			return rejectGate(c, MsgTokenInvalid)
		}

		c.Locals(cfg.GetContextKey(), claims)
		return c.Next()
	}
}

// ResetGate admits requests bearing a valid reset-scope token, one
// anchored on an email claim. The verified_otp marker travels with the
// claims into locals.
func ResetGate(cfg Config, tokens TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := ExtractBearerToken(c, cfg.GetAuthScheme())
		if err != nil {
			return rejectGate(c, err.Error())
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			return rejectGate(c, MsgTokenInvalid)
		}

		if claims.AccountEmail() == "" {
			return rejectGate(c, MsgTokenInvalid)
		}

		c.Locals(cfg.GetContextKey(), claims)
		return c.Next()
	}
}

// ClaimsFromCtx retrieves the claims a gate stored for this request.
func ClaimsFromCtx(c *fiber.Ctx, key string) (AuthClaims, error) {
	claims, ok := c.Locals(key).(AuthClaims)
	if !ok || claims == nil {
		return nil, ErrUnableToMapClaims
	}
	return claims, nil
}

func rejectGate(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}
