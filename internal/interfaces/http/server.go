package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-optimizer/internal/application/dto"
)

// ServerConfig opciones del servidor Fiber.
type ServerConfig struct {
	AppName     string
	SwaggerJSON []byte                          // vacío: sin /docs
	HealthCheck func(ctx context.Context) error // nil: /health siempre ok
}

// NewApp construye la app Fiber con recover, logging de peticiones, /health, /docs y las rutas de la API.
func NewApp(cfg ServerConfig, deps RouterDeps, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(logger))

	// Swagger UI: http://localhost:<port>/docs
	if len(cfg.SwaggerJSON) > 0 {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			FileContent: cfg.SwaggerJSON,
			Path:        "docs",
			Title:       "Inventory Optimizer API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if cfg.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := cfg.HealthCheck(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.AppName})
	})

	Router(app, deps)
	return app
}

// errorHandler responde los errores que escapan de los handlers (404 de ruta, panics recuperados).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return respondError(c, err)
}
