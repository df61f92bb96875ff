package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/lib"
)

// SendConnectionRequest asks the user in :userId to connect
func (h *Handler) SendConnectionRequest(c *fiber.Ctx) error {
	recipientID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := h.svc.Connections.SendRequest(c.UserContext(), currentUser(c), recipientID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lib.MessageResponse("Connection request sent successfully"))
}

// AcceptConnectionRequest accepts a pending request addressed to the caller
func (h *Handler) AcceptConnectionRequest(c *fiber.Ctx) error {
	requestID, err := paramID(c, "requestId")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := h.svc.Connections.Accept(c.UserContext(), currentUser(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("Connection accepted successfully"))
}

// RejectConnectionRequest rejects a pending request addressed to the caller
func (h *Handler) RejectConnectionRequest(c *fiber.Ctx) error {
	requestID, err := paramID(c, "requestId")
	if err != nil {
		return respondError(c, err)
	}

	if _, err := h.svc.Connections.Reject(c.UserContext(), currentUser(c), requestID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("Connection request rejected"))
}

func (h *Handler) GetConnectionRequests(c *fiber.Ctx) error {
	requests, err := h.svc.Connections.ListIncoming(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

func (h *Handler) GetUserConnections(c *fiber.Ctx) error {
	connections, err := h.svc.Connections.ListConnections(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(connections)
}

func (h *Handler) RemoveConnection(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.svc.Connections.RemoveConnection(c.UserContext(), currentUser(c), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("Connection removed successfully"))
}

// GetConnectionStatus tells how the caller relates to :userId
func (h *Handler) GetConnectionStatus(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}

	status, err := h.svc.Connections.Status(c.UserContext(), currentUser(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}
