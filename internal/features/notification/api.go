package notification

import (
	"content-review/internal/config"
	"content-review/internal/middleware"
	"content-review/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) *NotificationApi {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	notifications := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	notifications.Get("/", h.controller.List)
	notifications.Get("/unread-count", h.controller.GetUnreadCount)
	notifications.Post("/read-all", h.controller.MarkAllAsRead)
	notifications.Post("/:id/read", h.controller.MarkAsRead)

	// Push channel. The auth middleware runs on the upgrade request; the
	// user id is copied into a plain local because claims don't survive
	// into the websocket handler.
	app.Use("/ws/notifications", middleware.AuthMiddleware(h.config.SkipAuth), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
				c.Locals("ws_user_id", claims.UserID)
			}
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/notifications", websocket.New(h.controller.HandleWebSocket))
}
