package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/services"
)

func (h *Handler) setSessionCookie(c *fiber.Ctx, token string) {
	ttl := h.svc.Auth.Tokens().TTL()
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.cfg.IsProduction(),
	})
}

// Signup registers a user, sets the session cookie and sends a welcome email
func (h *Handler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	user, token, err := h.svc.Auth.Signup(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login checks username and password and sets the session cookie
func (h *Handler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	user, token, err := h.svc.Auth.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"token":   token,
		"user":    user,
	})
}

// Logout expires the session cookie
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.cfg.IsProduction(),
	})
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user
func (h *Handler) GetCurrentUser(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
