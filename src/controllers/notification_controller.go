package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/lib"
)

// GetUserNotifications returns the caller's notifications with related user and post data
func (h *Handler) GetUserNotifications(c *fiber.Ctx) error {
	notifications, err := h.svc.Notifications.List(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notifications)
}

func (h *Handler) MarkNotificationAsRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	notification, err := h.svc.Notifications.MarkRead(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notification)
}

func (h *Handler) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.svc.Notifications.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("Notification deleted successfully"))
}
