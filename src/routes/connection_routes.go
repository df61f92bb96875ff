package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/controllers"
)

// ConnectionRoutes sets up the connection request workflow and connection listing
func ConnectionRoutes(api fiber.Router, h *controllers.Handler, protect fiber.Handler) {
	connection := api.Group("/connections", protect)

	connection.Post("/request/:userId", h.SendConnectionRequest)
	connection.Put("/accept/:requestId", h.AcceptConnectionRequest)
	connection.Put("/reject/:requestId", h.RejectConnectionRequest)
	connection.Get("/requests", h.GetConnectionRequests)
	connection.Get("/status/:userId", h.GetConnectionStatus)
	connection.Get("/", h.GetUserConnections)
	connection.Delete("/:userId", h.RemoveConnection)
}
