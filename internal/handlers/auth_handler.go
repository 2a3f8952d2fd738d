package handlers

import (
	"errors"

	"github.com/damirov/blogger-platform/internal/config"
	"github.com/damirov/blogger-platform/internal/dto"
	"github.com/damirov/blogger-platform/internal/middleware"
	"github.com/damirov/blogger-platform/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler translates HTTP to the auth/session services. It owns no
// protocol logic: cookies in, tokens out, errors shaped as errorsMessages.
type AuthHandler struct {
	cfg      *config.Config
	auth     *services.AuthService
	sessions *services.SessionService
}

func NewAuthHandler(cfg *config.Config, auth *services.AuthService, sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth, sessions: sessions}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if req.LoginOrEmail == "" || req.Password == "" {
		return badRequest(c, "loginOrEmail and password are required", "loginOrEmail")
	}

	tokens, err := h.sessions.Login(req.LoginOrEmail, req.Password, c.IP(), c.Get("User-Agent", "unknown"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLoginOrEmail):
			return unauthorized(c, "Invalid credentials", "loginOrEmail")
		case errors.Is(err, services.ErrInvalidPassword):
			return unauthorized(c, "Invalid credentials", "password")
		case errors.Is(err, services.ErrEmailNotConfirmed):
			return unauthorized(c, "Email not confirmed", "email")
		}
		return serverError(c, "login", err)
	}

	setRefreshCookie(c, h.cfg, tokens.RefreshToken)
	return c.JSON(dto.LoginResponse{AccessToken: tokens.AccessToken})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	cookie := c.Cookies(refreshCookieName)
	if cookie == "" {
		return unauthorized(c, "Refresh token not provided", "refreshToken")
	}

	tokens, err := h.sessions.Refresh(cookie)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			return unauthorized(c, "Refresh token is invalid or revoked", "refreshToken")
		}
		return serverError(c, "refresh_token", err)
	}

	setRefreshCookie(c, h.cfg, tokens.RefreshToken)
	return c.JSON(dto.LoginResponse{AccessToken: tokens.AccessToken})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	cookie := c.Cookies(refreshCookieName)
	if cookie == "" {
		return unauthorized(c, "Refresh token not provided", "refreshToken")
	}

	if err := h.sessions.Logout(cookie); err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			return unauthorized(c, "Refresh token is invalid or already revoked", "refreshToken")
		}
		return serverError(c, "logout", err)
	}

	clearRefreshCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Registration(c *fiber.Ctx) error {
	var req dto.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if len(req.Login) < 3 || len(req.Login) > 10 {
		return badRequest(c, "login must be 3-10 characters", "login")
	}
	if len(req.Password) < 6 || len(req.Password) > 20 {
		return badRequest(c, "password must be 6-20 characters", "password")
	}
	if req.Email == "" {
		return badRequest(c, "email is required", "email")
	}

	if err := h.auth.Register(req.Login, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrLoginTaken):
			return badRequest(c, "User with this login already exists", "login")
		case errors.Is(err, services.ErrEmailTaken):
			return badRequest(c, "User with this email already exists", "email")
		}
		return serverError(c, "registration", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) RegistrationConfirmation(c *fiber.Ctx) error {
	var req dto.ConfirmationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	if err := h.auth.ConfirmEmail(req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrBadConfirmationCode):
			return badRequest(c, "Confirmation code is incorrect", "code")
		case errors.Is(err, services.ErrCodeExpired):
			return badRequest(c, "Confirmation code expired", "code")
		case errors.Is(err, services.ErrAlreadyConfirmed):
			return badRequest(c, "Email already confirmed", "code")
		}
		return serverError(c, "registration_confirmation", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) RegistrationEmailResending(c *fiber.Ctx) error {
	var req dto.EmailResendingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}

	if err := h.auth.ResendConfirmation(req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotFound):
			return badRequest(c, "User with this email not found", "email")
		case errors.Is(err, services.ErrAlreadyConfirmed):
			return badRequest(c, "Email already confirmed", "email")
		}
		return serverError(c, "registration_email_resending", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) PasswordRecovery(c *fiber.Ctx) error {
	var req dto.PasswordRecoveryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if req.Email == "" {
		return badRequest(c, "email is required", "email")
	}

	if err := h.auth.RecoverPassword(req.Email); err != nil {
		return serverError(c, "password_recovery", err)
	}
	// 204 regardless of whether the email exists.
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) NewPassword(c *fiber.Ctx) error {
	var req dto.NewPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", "")
	}
	if len(req.NewPassword) < 6 || len(req.NewPassword) > 20 {
		return badRequest(c, "newPassword must be 6-20 characters", "newPassword")
	}

	if err := h.auth.SetNewPassword(req.NewPassword, req.RecoveryCode); err != nil {
		switch {
		case errors.Is(err, services.ErrBadConfirmationCode):
			return badRequest(c, "Recovery code is incorrect", "recoveryCode")
		case errors.Is(err, services.ErrCodeExpired):
			return badRequest(c, "Recovery code expired", "recoveryCode")
		}
		return serverError(c, "new_password", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserIDFromContext(c)
	if err != nil {
		return unauthorized(c, "Invalid or expired access token", "authorization")
	}

	user, err := h.auth.UserByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return unauthorized(c, "User not found", "userId")
		}
		return serverError(c, "me", err)
	}

	return c.JSON(dto.MeResponse{
		UserID: user.ID.String(),
		Login:  user.Login,
		Email:  user.Email,
	})
}
