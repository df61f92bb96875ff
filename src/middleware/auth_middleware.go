package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/services"
)

const userKey = "user"

// ProtectRoute resolves the session token (cookie first, then a Bearer
// header) to a user and attaches it to the request
func ProtectRoute(auth *services.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.UserContext(), sessionToken(c, cookieName))
		if err != nil {
			if services.KindOf(err) == services.KindAuthentication {
				return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse(err.Error()))
			}

			logrus.WithError(err).WithField("path", c.Path()).Error("authentication failed")
			return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Internal server error"))
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// CurrentUser returns the user attached by ProtectRoute
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
