package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/middleware"
	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/services"
)

// Handler serves the REST API on top of the service layer
type Handler struct {
	svc *services.Services
	cfg *config.Config
}

func NewHandler(svc *services.Services, cfg *config.Config) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

var statusByKind = map[services.Kind]int{
	services.KindValidation:     fiber.StatusBadRequest,
	services.KindConflict:       fiber.StatusBadRequest,
	services.KindAuthentication: fiber.StatusUnauthorized,
	services.KindAuthorization:  fiber.StatusForbidden,
	services.KindNotFound:       fiber.StatusNotFound,
}

// respondError answers with the status of a service error. Dependency
// failures and unknown errors are logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if status, ok := statusByKind[svcErr.Kind]; ok {
			return c.Status(status).JSON(lib.MessageResponse(svcErr.Message))
		}
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Locals("requestid"),
	}).Error("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Internal server error"))
}

// paramID parses a path parameter holding an object id
func paramID(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, services.ErrInvalidID
	}
	return id, nil
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
}

func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}
