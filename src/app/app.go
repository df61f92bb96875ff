package app

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/controllers"
	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/middleware"
	"github.com/theleywin/talentnest/src/routes"
	"github.com/theleywin/talentnest/src/services"
)

// image payloads travel as base64 inside JSON bodies
const bodyLimit = 10 * 1024 * 1024

// New builds the fiber application with every route registered
func New(svc *services.Services, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "TalentNest",
		BodyLimit:    bodyLimit,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     logrus.StandardLogger().WriterLevel(logrus.InfoLevel),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	h := controllers.NewHandler(svc, cfg)
	protect := middleware.ProtectRoute(svc.Auth, cfg.CookieName)

	api := app.Group("/api/v1")
	routes.AuthRoutes(api, h, protect)
	routes.UserRoutes(api, h, protect)
	routes.ConnectionRoutes(api, h, protect)
	routes.PostRoutes(api, h, protect)
	routes.NotificationRoutes(api, h, protect)

	return app
}

// errorHandler answers errors that escaped a handler, including fiber's own
// 404 and 405 errors and recovered panics
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(lib.MessageResponse(fe.Message))
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": c.Locals("requestid"),
	}).Error("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(lib.MessageResponse("Internal server error"))
}
