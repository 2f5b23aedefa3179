package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/session"
)

// Session reads the access-token cookie and binds the session to the request context.
// Requests without the cookie continue anonymously; guards decide whether that is allowed.
func Session(decoder *session.Decoder, cookieName string, logger zerolog.Logger) fiber.Handler {
	if cookieName == "" {
		cookieName = "accessToken"
	}

	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Cookies(cookieName))
		if token == "" {
			return c.Next()
		}

		sess, err := decoder.FromToken(token)
		if err != nil && !errors.Is(err, session.ErrUnauthenticated) {
			logger.Debug().
				Err(err).
				Str("correlation_id", GetCorrelationID(c)).
				Msg("access token claims unreadable, forwarding as is")
		}

		if sess.User.ID != "" {
			c.Locals("user_id", sess.User.ID)
		}
		if sess.User.Role != "" {
			c.Locals("user_role", string(sess.User.Role))
		}

		c.SetUserContext(session.WithSession(c.UserContext(), sess))
		return c.Next()
	}
}
