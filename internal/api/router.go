package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/veriface-labs/veriface/internal/api/docs"
	"github.com/veriface-labs/veriface/internal/api/handler"
	"github.com/veriface-labs/veriface/internal/api/middleware"
	"github.com/veriface-labs/veriface/internal/auth"
	"github.com/veriface-labs/veriface/internal/config"
)

type Dependencies struct {
	AuthService handler.AuthService
	JWTService  *auth.JWTService
	DB          *pgxpool.Pool
	Config      *config.Config
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "VeriFace API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var db handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure application routes if dependencies were provided
	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/api/v1")

	authHandler := handler.NewAuthHandler(r.deps.AuthService, r.deps.Config.MaxUploadBytes(), r.logger)

	// Face authentication routes (no token required)
	v1.Post("/auth/register-face", authHandler.RegisterFace)
	v1.Post("/auth/login/face", authHandler.LoginFace)
	v1.Post("/auth/token/refresh", authHandler.RefreshToken)

	// Authenticated routes
	v1.Get("/auth/me", middleware.Auth(r.deps.JWTService), authHandler.Me)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
