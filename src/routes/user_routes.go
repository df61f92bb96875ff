package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/controllers"
)

// UserRoutes sets up suggestions, public profiles and profile updates
func UserRoutes(api fiber.Router, h *controllers.Handler, protect fiber.Handler) {
	user := api.Group("/users", protect)

	user.Get("/suggestions", h.GetSuggestedConnections)
	user.Put("/profile", h.UpdateProfile)
	user.Get("/:username", h.GetPublicProfile)
}
