package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/controllers"
)

// NotificationRoutes sets up listing, marking as read and deleting notifications
func NotificationRoutes(api fiber.Router, h *controllers.Handler, protect fiber.Handler) {
	notification := api.Group("/notifications", protect)

	notification.Get("/", h.GetUserNotifications)
	notification.Put("/:id/read", h.MarkNotificationAsRead)
	notification.Delete("/:id", h.DeleteNotification)
}
