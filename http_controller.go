package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the auth surface and the restricted probe on
// the app. Gates run strictly before their protected handlers.
func RegisterRoutes(app *fiber.App, controller *Controller) {
	identityGate := IdentityGate(controller.cfg, controller.tokens)
	resetGate := ResetGate(controller.cfg, controller.tokens)

	grp := app.Group("/auth")
	grp.Post("/", controller.Register)
	grp.Post("/authenticate", controller.Authenticate)
	grp.Post("/forgotPassword", controller.ForgotPassword)
	grp.Post("/validateOtpResetPassword", resetGate, controller.ValidateResetOTP)
	grp.Post("/resetPassword", resetGate, controller.ResetPassword)
	grp.Get("/verifyEmail", identityGate, controller.RequestEmailVerification)
	grp.Post("/validateOtpEmail", identityGate, controller.ValidateEmailOTP)

	app.Get("/restrictedAccess", identityGate, controller.RestrictedAccess)
}

// Controller adapts the flow service to the JSON-over-HTTP surface.
// Every handler error collapses to a 400 with a JSON error body.
type Controller struct {
	service *Service
	tokens  TokenService
	cfg     Config
	logger  Logger
}

// NewController builds the HTTP controller.
func NewController(service *Service, tokens TokenService, cfg Config) *Controller {
	return &Controller{
		service: service,
		tokens:  tokens,
		cfg:     cfg,
		logger:  defLogger{},
	}
}

// WithLogger overrides the default logger.
func (ctl *Controller) WithLogger(logger Logger) *Controller {
	if logger != nil {
		ctl.logger = logger
	}
	return ctl
}

// RegisterPayload is the account creation request body.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload is the authentication request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordPayload starts the recovery flow.
type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

// OTPPayload carries a supplied one-time code.
type OTPPayload struct {
	OTP string `json:"otp"`
}

// ResetPasswordPayload carries the replacement password.
type ResetPasswordPayload struct {
	Password string `json:"password"`
}

// Register handles POST /auth.
func (ctl *Controller) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if err := c.BodyParser(payload); err != nil {
		return ctl.fail(c, err, MsgRegistrationFailed)
	}

	account, token, err := ctl.service.Register(c.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		return ctl.fail(c, err, MsgRegistrationFailed)
	}

	return c.JSON(fiber.Map{
		"user":  account,
		"token": token,
	})
}

// Authenticate handles POST /auth/authenticate.
func (ctl *Controller) Authenticate(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		return ctl.fail(c, err, MsgAuthenticateFailed)
	}

	account, token, err := ctl.service.Authenticate(c.Context(), payload.Email, payload.Password)
	if err != nil {
		return ctl.fail(c, err, MsgAuthenticateFailed)
	}

	return c.JSON(fiber.Map{
		"user":  account,
		"token": token,
	})
}

// ForgotPassword handles POST /auth/forgotPassword.
func (ctl *Controller) ForgotPassword(c *fiber.Ctx) error {
	payload := new(ForgotPasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		return ctl.fail(c, err, MsgResetPasswordFailure)
	}

	result, err := ctl.service.ForgotPassword(c.Context(), payload.Email)
	if err != nil {
		return ctl.fail(c, err, MsgResetPasswordFailure)
	}

	return c.JSON(fiber.Map{
		"expirationTime": result.ExpirationTime,
		"token":          result.Token,
	})
}

// ValidateResetOTP handles POST /auth/validateOtpResetPassword behind
// the reset gate.
func (ctl *Controller) ValidateResetOTP(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c, ctl.cfg.GetContextKey())
	if err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	payload := new(OTPPayload)
	if err := c.BodyParser(payload); err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	token, err := ctl.service.ValidateResetOTP(c.Context(), claims.AccountEmail(), payload.OTP)
	if err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	return c.JSON(fiber.Map{"token": token})
}

// ResetPassword handles POST /auth/resetPassword behind the reset
// gate. The token must carry the verified_otp claim.
func (ctl *Controller) ResetPassword(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c, ctl.cfg.GetContextKey())
	if err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	payload := new(ResetPasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	if err := ctl.service.ResetPassword(c.Context(), claims.AccountEmail(), claims.OTPVerified(), payload.Password); err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	return c.Status(fiber.StatusOK).Send(nil)
}

// RequestEmailVerification handles GET /auth/verifyEmail behind the
// identity gate.
func (ctl *Controller) RequestEmailVerification(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c, ctl.cfg.GetContextKey())
	if err != nil {
		return ctl.fail(c, err, MsgVerifyEmailFailure)
	}

	if err := ctl.service.RequestEmailVerification(c.Context(), claims.AccountID()); err != nil {
		return ctl.fail(c, err, MsgVerifyEmailFailure)
	}

	return c.Status(fiber.StatusOK).Send(nil)
}

// ValidateEmailOTP handles POST /auth/validateOtpEmail behind the
// identity gate.
func (ctl *Controller) ValidateEmailOTP(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c, ctl.cfg.GetContextKey())
	if err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	payload := new(OTPPayload)
	if err := c.BodyParser(payload); err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	if err := ctl.service.ValidateEmailOTP(c.Context(), claims.AccountID(), payload.OTP); err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	return c.Status(fiber.StatusOK).Send(nil)
}

// RestrictedAccess handles GET /restrictedAccess behind the identity
// gate.
func (ctl *Controller) RestrictedAccess(c *fiber.Ctx) error {
	claims, err := ClaimsFromCtx(c, ctl.cfg.GetContextKey())
	if err != nil {
		return ctl.fail(c, err, MsgGenericError)
	}

	return c.JSON(fiber.Map{
		"message": "Welcome to the restricted area, id: " + claims.AccountID(),
	})
}

// fail converts any flow error into the uniform 400 JSON error body.
// Validation failures report every field message, as an array when
// more than one field failed.
func (ctl *Controller) fail(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		if len(validationErr.Messages) == 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Messages[0]})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Messages})
	}

	ctl.logger.Error("request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": userMessage(err, fallback)})
}
