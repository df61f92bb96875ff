package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/controllers"
)

// AuthRoutes sets up signup, login, logout and the current user lookup
func AuthRoutes(api fiber.Router, h *controllers.Handler, protect fiber.Handler) {
	auth := api.Group("/auth")

	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", protect, h.GetCurrentUser)
}
