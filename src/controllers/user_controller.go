package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/models"
)

// GetSuggestedConnections returns a few users the caller is not connected to
func (h *Handler) GetSuggestedConnections(c *fiber.Ctx) error {
	users, err := h.svc.Users.Suggestions(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) GetPublicProfile(c *fiber.Ctx) error {
	user, err := h.svc.Users.Profile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile applies the fields present in the body to the caller's profile
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var update models.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return invalidBody(c)
	}

	user, err := h.svc.Users.UpdateProfile(c.UserContext(), currentUser(c), update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
