package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/cache"
	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
)

const livePingInterval = 30 * time.Second

// InvalidationFeed delivers cache invalidation events.
type InvalidationFeed interface {
	Subscribe() (<-chan cache.Event, func())
}

// LiveHandler streams cache invalidations so open views know when to refetch.
type LiveHandler struct {
	feed   InvalidationFeed
	logger zerolog.Logger
}

// NewLiveHandler constructs the handler.
func NewLiveHandler(feed InvalidationFeed, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		feed:   feed,
		logger: logger.With().Str("component", "live_handler").Logger(),
	}
}

// Register attaches the websocket endpoint to the dashboard group.
func (h *LiveHandler) Register(router fiber.Router) {
	router.Use("/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/live", middleware.WithAuth(websocket.New(h.stream), middleware.AuthOptions{RequireUser: true}))
}

func (h *LiveHandler) stream(conn *websocket.Conn) {
	events, unsubscribe := h.feed.Subscribe()
	defer unsubscribe()

	logger := h.logger.With().
		Interface("user_id", conn.Locals("user_id")).
		Interface("correlation_id", conn.Locals("correlation_id")).
		Logger()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug().Err(err).Msg("live read loop ended")
				return
			}
		}
	}()

	if err := conn.WriteJSON(dto.LiveMessage{Type: dto.LiveMessageReady}); err != nil {
		logger.Debug().Err(err).Msg("live handshake failed")
		return
	}
	logger.Info().Msg("live stream connected")

	ticker := time.NewTicker(livePingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			message := dto.LiveMessage{Type: dto.LiveMessageInvalidate, Tag: event.Tag, InvalidatedAt: event.InvalidatedAt}
			if err := conn.WriteJSON(message); err != nil {
				logger.Debug().Err(err).Msg("live write loop terminated")
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				logger.Debug().Err(err).Msg("live ping failed")
				return
			}
		case <-closed:
			logger.Info().Msg("live stream disconnected")
			return
		}
	}
}
