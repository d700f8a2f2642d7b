package handler

import (
	"contract-review-fe/internal/constant"
	"contract-review-fe/internal/pkg/logger"
	"contract-review-fe/internal/pkg/serverutils"
	internalWS "contract-review-fe/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// NotificationHandler owns the WebSocket endpoint that streams toast
// lifecycle events to the browser.
type NotificationHandler struct {
	hub           *internalWS.Hub
	sessionSecret string
	logger        logger.ILogger
}

func NewNotificationHandler(hub *internalWS.Hub, sessionSecret string, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		hub:           hub,
		sessionSecret: sessionSecret,
		logger:        log,
	}
}

// ServeWs upgrades the connection after resolving the session id. The
// session token arrives either as a `token` query parameter or as the
// regular session cookie (same origin).
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	var sessionID uuid.UUID

	if tokenStr := c.Query("token"); tokenStr != "" {
		id, ok := serverutils.ParseSessionToken(tokenStr, h.sessionSecret)
		if !ok {
			h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		sessionID = id
	} else if id, ok := serverutils.ParseSessionToken(c.Cookies(constant.SessionCookieName), h.sessionSecret); ok {
		sessionID = id
	} else {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing session token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
