// Package server contains the HTTP handlers and route wiring of the API.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "unfake/docs" // swagger docs
	"unfake/internal/auth"
	"unfake/internal/bootstrap"
	"unfake/internal/cache"
	"unfake/internal/config"
	"unfake/internal/middleware"
	"unfake/internal/models"
	"unfake/internal/repository"
	"unfake/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	stores            *repository.Stores
	redis             *redis.Client
	cache             *cache.Cache
	promMiddleware    *fiberprometheus.FiberPrometheus
	authService       *service.AuthService
	postService       *service.PostService
	moderationService *service.ModerationService
}

// NewServer creates a new server instance, connecting the configured store and Redis.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	stores, redisClient, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, stores, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case caching is disabled.
func NewServerWithDeps(cfg *config.Config, stores *repository.Stores, redisClient *redis.Client) (*Server, error) {
	if stores == nil || stores.Users == nil || stores.Posts == nil || stores.Logs == nil {
		return nil, fmt.Errorf("server requires user, post and log repositories")
	}

	c := cache.New(redisClient)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	return &Server{
		config:            cfg,
		stores:            stores,
		redis:             redisClient,
		cache:             c,
		promMiddleware:    middleware.InitMetrics("unfake-api"),
		authService:       service.NewAuthService(stores.Users, tokens, c),
		postService:       service.NewPostService(stores.Posts, c),
		moderationService: service.NewModerationService(stores, c),
	}, nil
}

// NewApp builds a Fiber app with the standard error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName: "UNFAKE API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// after requestid and tracing so both ids reach the context
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := strings.Join(s.config.Origins(), ",")
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Welcome)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", s.Signup)
	authRoutes.Post("/login", s.Login)

	requireAuth := middleware.AuthRequired(s.authService)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", s.SearchPosts)
	posts.Post("/", requireAuth, s.CreatePost)
	posts.Post("/:id/vote", requireAuth, s.VotePost)

	admin := api.Group("/admin", requireAuth, middleware.AdminRequired())
	admin.Get("/stats", s.GetStats)
	admin.Get("/pending-posts", s.GetPendingPosts)
	admin.Get("/posts", s.GetAllPosts)
	admin.Put("/posts/:id/moderate", s.ModeratePost)
	admin.Delete("/posts/:id", s.DeletePost)
	admin.Get("/users", s.GetUsers)
	admin.Put("/users/:id/status", s.UpdateUserStatus)
	admin.Get("/user-chart-stats", s.GetUserChartStats)
	admin.Get("/logs", s.GetLogs)
}

// Welcome handles GET /
func (s *Server) Welcome(c *fiber.Ctx) error {
	return c.SendString("Welcome to the UNFAKE Backend API!")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. A missing Redis client is
// reported but does not fail readiness since the cache is optional.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if s.stores.Backend == nil {
		storeStatus = "unavailable"
	} else if err := s.stores.Backend.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if !s.cache.Enabled() {
		redisStatus = "disabled"
	} else if err := s.cache.Ping(ctx); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown closes the store and Redis connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stores.Backend != nil {
		if err := s.stores.Backend.Close(ctx); err != nil {
			middleware.Logger.Error("error closing store", "error", err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}
	middleware.Logger.Info("Server shutdown complete")
	return nil
}
