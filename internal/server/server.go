// Package server contains the HTTP handlers for the forum API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"agora/internal/bootstrap"
	"agora/internal/config"
	"agora/internal/featureflags"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/service"
	"agora/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *token.Manager
	featureFlags   *featureflags.Manager

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	topicRepo    repository.TopicRepository
	replyRepo    repository.ReplyRepository
	voteRepo     repository.VoteRepository
	messageRepo  repository.MessageRepository

	userService     *service.UserService
	categoryService *service.CategoryService
	topicService    *service.TopicService
	replyService    *service.ReplyService
	voteService     *service.VoteService
	messageService  *service.MessageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		return nil, fmt.Errorf("runtime initialization failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis first.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("agora-api"),
		tokens:         token.NewManager(cfg.JWTSecret, 24*time.Hour),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		categoryRepo:   repository.NewCategoryRepository(db),
		topicRepo:      repository.NewTopicRepository(db),
		replyRepo:      repository.NewReplyRepository(db),
		voteRepo:       repository.NewVoteRepository(db),
		messageRepo:    repository.NewMessageRepository(db),
	}

	server.userService = service.NewUserService(server.userRepo, server.tokens)
	server.categoryService = service.NewCategoryService(server.categoryRepo, server.topicRepo)
	server.topicService = service.NewTopicService(server.topicRepo, server.categoryRepo, server.replyRepo)
	server.replyService = service.NewReplyService(server.replyRepo, server.topicRepo)
	server.voteService = service.NewVoteService(server.voteRepo, server.replyRepo, server.topicRepo)
	server.messageService = service.NewMessageService(server.messageRepo, server.userRepo)

	return server, nil
}

// loadUser resolves a token subject to the stored account. Roles are read
// fresh on every request so a demotion or deletion applies immediately.
func (s *Server) loadUser(c *fiber.Ctx, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(c.Context(), username)
}

func (s *Server) authRequired() fiber.Handler {
	return middleware.AuthRequired(s.tokens, s.loadUser)
}

func (s *Server) optionalAuth() fiber.Handler {
	return middleware.OptionalAuth(s.tokens, s.loadUser)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Category routes. Browsing is public; the privacy filter inside the
	// service decides what an anonymous or customer viewer actually sees.
	categories := api.Group("/categories", s.optionalAuth())
	categories.Get("/", s.ListCategories)
	// Specific /:id/:resource routes BEFORE generic /:id route
	categories.Get("/:id/topics", s.ListCategoryTopics)
	categories.Post("/:id/topics", s.authRequired(), middleware.RateLimit(
		s.redis, 5, time.Minute, "create_topic"), s.CreateTopic)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", s.authRequired(), middleware.AdminRequired(), s.CreateCategory)
	categories.Put("/:id", s.authRequired(), middleware.AdminRequired(), s.UpdateCategory)
	categories.Delete("/:id", s.authRequired(), middleware.AdminRequired(), s.DeleteCategory)

	// Topic routes
	topics := api.Group("/topics", s.optionalAuth())
	topics.Get("/", s.ListTopics)
	topics.Get("/:id/replies/:replyId", s.GetTopicReply)
	topics.Get("/:id/replies", s.ListReplies)
	topics.Post("/:id/replies", s.authRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_reply"), s.CreateReply)
	topics.Put("/:id/best-reply", s.authRequired(), s.AssignBestReply)
	topics.Delete("/:id/best-reply", s.authRequired(), s.RemoveBestReply)
	topics.Get("/:id", s.GetTopic)
	topics.Put("/:id", s.authRequired(), s.UpdateTopic)
	topics.Delete("/:id", s.authRequired(), s.DeleteTopic)

	// Reply routes
	replies := api.Group("/replies", s.optionalAuth())
	replies.Post("/:id/vote", s.authRequired(), s.VoteOnReply)
	replies.Get("/:id", s.GetReply)
	replies.Put("/:id", s.authRequired(), s.UpdateReply)
	replies.Delete("/:id", s.authRequired(), s.DeleteReply)

	// Direct message routes
	messages := api.Group("/messages", s.authRequired())
	messages.Get("/conversations", s.ListConversationPartners)
	messages.Get("/with/:userId", s.GetConversation)
	messages.Post("/with/:userId", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)
	messages.Put("/:id", s.UpdateMessage)
	messages.Delete("/:id", s.DeleteMessage)

	// Feature flags evaluated for the calling user
	api.Get("/feature-flags", s.optionalAuth(), s.GetFeatureFlags)

	// User routes
	users := api.Group("/users", s.authRequired())
	users.Get("/username/:username", s.GetUserByUsername)
	users.Get("/", middleware.AdminRequired(), s.ListUsers)
	users.Get("/:id", middleware.AdminRequired(), s.GetUser)
	users.Put("/:id/role", middleware.AdminRequired(), s.UpdateUserRole)
	users.Delete("/:id", middleware.AdminRequired(), s.DeleteUser)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API serves without Redis; caches and rate limits degrade.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Agora Forum API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
