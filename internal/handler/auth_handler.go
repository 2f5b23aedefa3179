package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

// CookieOptions controls how the access-token cookie is written.
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthHandler serves login, registration, logout and the current user.
type AuthHandler struct {
	service service.AuthService
	cookie  CookieOptions
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, cookie CookieOptions, logger zerolog.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "accessToken"
	}
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints. The limiter, when set, guards the credential forms.
func (h *AuthHandler) Register(router fiber.Router, limiter fiber.Handler) {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Post("/login", limiter, h.login)
	router.Post("/register", limiter, h.register)
	router.Post("/logout", h.logout)
	router.Get("/me", middleware.WithAuth(h.me, middleware.AuthOptions{RequireUser: true}))
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	outcome, err := h.service.Login(requestContext(c), form, c.Query("redirectPath"))
	return h.finish(c, outcome, err)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	outcome, err := h.service.Register(requestContext(c), form, c.Query("redirectPath"))
	return h.finish(c, outcome, err)
}

func (h *AuthHandler) finish(c *fiber.Ctx, outcome dto.AuthOutcome, err error) error {
	if err != nil {
		return respondFailure(c, h.logger, err, outcome.FormResult)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    outcome.AccessToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	requestLogger(h.logger, c).Info().Str("redirect", outcome.Redirect).Msg("session established")
	return utils.SendSuccess(c, outcome.Toast.Message, outcome.FormResult)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SendSuccess(c, "logged out", h.service.Logout(utils.CurrentPath(c)))
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.CurrentUser(requestContext(c))
	if err != nil {
		return respondFailure(c, h.logger, err, nil)
	}
	return utils.SendSuccess(c, "current user", user)
}
