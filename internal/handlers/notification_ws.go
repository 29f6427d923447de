package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

// NotificationHandler streams hiring events over a websocket. Browsers cannot
// set headers on the upgrade request, so the token comes in ?token=.
type NotificationHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
	Log       *logrus.Logger
}

func NewNotificationHandler(hub *realtime.Hub, secret string, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Hub: hub, JWTSecret: secret, Log: log}
}

// Upgrade authenticates the caller before the protocol switch.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	claims, err := utils.ParseJWT(h.JWTSecret, c.Query("token"))
	if err != nil {
		return writeError(c, utils.E(utils.CodeUnauthorized, "NotificationHandler.Upgrade", "invalid or expired token", err))
	}
	c.Locals(middleware.LocalUserID, claims.UserID)
	return c.Next()
}

func (h *NotificationHandler) Stream(c *websocket.Conn) {
	raw, _ := c.Locals(middleware.LocalUserID).(string)
	uid, err := uuid.Parse(raw)
	if err != nil {
		_ = c.Close()
		return
	}

	h.Log.WithField("user_id", uid).Debug("ws: connected")
	h.Hub.Serve(c, uid)
	h.Log.WithField("user_id", uid).Debug("ws: disconnected")
}
