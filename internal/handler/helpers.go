package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/correlation"
	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return correlation.WithID(ctx, middleware.GetCorrelationID(c))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if id := middleware.GetCorrelationID(c); id != "" {
			logger = base.With().Str("correlation_id", id).Logger()
		}
	}
	return &logger
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, session.ErrUnauthenticated), upstream.IsKind(err, upstream.KindUnauthenticated):
		return fiber.StatusUnauthorized
	case upstream.IsKind(err, upstream.KindApplication):
		return fiber.StatusBadRequest
	case upstream.IsKind(err, upstream.KindTransport), upstream.IsKind(err, upstream.KindDecode):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondFailure answers with the view or form state so the client can render the toast and field errors.
func respondFailure(c *fiber.Ctx, logger zerolog.Logger, err error, data interface{}) error {
	status := errorStatus(err)
	if status == fiber.StatusUnauthorized {
		return utils.SendUnauthenticated(c, "")
	}

	message := upstream.Message(err)
	if status == fiber.StatusUnprocessableEntity {
		message = "Please fix the highlighted fields"
	}

	log := requestLogger(logger, c)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("dashboard request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("dashboard request rejected")
	}

	return utils.SendFailure(c, status, message, data)
}

func sendList[T any](c *fiber.Ctx, logger zerolog.Logger, message string, view dto.ListView[T], err error) error {
	if err != nil {
		return respondFailure(c, logger, err, view)
	}
	return utils.SendSuccess(c, message, view)
}

func sendForm(c *fiber.Ctx, logger zerolog.Logger, status int, result dto.FormResult, err error) error {
	if err != nil {
		return respondFailure(c, logger, err, result)
	}
	message := ""
	if result.Toast != nil {
		message = result.Toast.Message
	}
	return utils.SendSuccessWithStatus(c, status, message, result)
}
