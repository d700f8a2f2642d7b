package server

import (
	"log"

	"contract-review-fe/internal/bootstrap"
	"contract-review-fe/internal/config"
	"contract-review-fe/internal/pkg/serverutils"
	"contract-review-fe/internal/session"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		// The upload cap is enforced in the session core; the body limit
		// only needs headroom for multipart framing on a max-size PDF.
		BodyLimit: session.MaxUploadBytes + 1024*1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Presentation assets
	app.Static("/", cfg.App.StaticDir)

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")
	api.Use(serverutils.SessionMiddleware(cfg.Session.JWTSecret))

	c.HealthController.RegisterRoutes(api)
	c.ReviewController.RegisterRoutes(api)
	c.NotificationHandler.RegisterRoutes(api)
}
