package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/winstgrad/miniapp-api/internal/api/handler"
	"github.com/winstgrad/miniapp-api/internal/api/middleware"
	"github.com/winstgrad/miniapp-api/internal/core/domain"
	"github.com/winstgrad/miniapp-api/internal/core/ports"
	"github.com/winstgrad/miniapp-api/internal/core/service"
	mongodb "github.com/winstgrad/miniapp-api/internal/infrastructure/db/mongo"
	redisdb "github.com/winstgrad/miniapp-api/internal/infrastructure/db/redis"
	"github.com/winstgrad/miniapp-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// notify enqueues a post-checkout notification; pass nil to disable.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger, notify func(ports.OrderNotification)) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("miniapp"))

	// --- Dependencies ---
	cookies := middleware.CookieOptions{Domain: cfg.Cookie.Domain, Secure: cfg.Cookie.Secure}

	userRepo := mongodb.NewUserRepository(db)
	catalogRepo := redisdb.NewCachedCatalogRepository(mongodb.NewCatalogRepository(db), rdb, log)
	orderRepo := mongodb.NewOrderRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)

	tokenService := service.NewTokenService(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour,
	)
	authService := service.NewAuthService(userRepo, tokenService, cfg.BotToken, log)
	orderService := service.NewOrderService(orderRepo, catalogRepo, log)
	reviewService := service.NewReviewService(reviewRepo, log)

	authHandler := handler.NewAuthHandler(authService, cookies)
	profileHandler := handler.NewProfileHandler(authService)
	catalogHandler := handler.NewCatalogHandler(catalogRepo)
	orderHandler := handler.NewOrderHandler(orderService, notify)
	reviewHandler := handler.NewReviewHandler(reviewService)

	session := middleware.Session(tokenService, userRepo, cookies)

	// --- Public routes ---
	e.POST("/api/telegram/auth", authHandler.Login)
	e.POST("/api/telegram/register", authHandler.Register)
	e.POST("/api/logout", authHandler.Logout)

	// --- Authenticated routes ---
	app := e.Group("/api", session)
	app.GET("/me", profileHandler.Me)
	app.POST("/profile", profileHandler.Update)
	app.GET("/catalog", catalogHandler.List)
	app.GET("/orders", orderHandler.List)
	app.POST("/orders", orderHandler.Create)
	app.POST("/reviews", reviewHandler.SubmitReview)
	app.POST("/feedback", reviewHandler.SubmitFeedback)

	// --- Staff routes ---
	staff := e.Group("/api/admin", session, middleware.RBAC(domain.RoleManager, domain.RoleAdmin))
	staff.GET("/orders", orderHandler.ListRecent)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
