package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/identity-service/internal/api/handler"
	"github.com/99minutos/identity-service/internal/api/middleware"
	"github.com/99minutos/identity-service/internal/core/ports"
	"github.com/99minutos/identity-service/internal/core/security"
	"github.com/99minutos/identity-service/internal/core/service"
)

// RouterConfig carries everything NewRouter needs to assemble the service.
// Users is the storage adapter selected in main; Mongo and Redis are
// optional handles that only feed the readiness probe.
type RouterConfig struct {
	Users     ports.UserRepository
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
	Mongo     *mongo.Database
	Redis     *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	hasher := security.NewBcryptHasher()
	codec := security.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	resolver := service.NewIdentityResolver(codec, cfg.Users, cfg.Logger)
	authService := service.NewAuthService(cfg.Users, hasher, codec, resolver, cfg.Logger)
	userService := service.NewUserService(cfg.Users, hasher, cfg.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authRequired := middleware.Auth(resolver)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authRequired)

	// --- Account routes (token required) ---
	users := e.Group("/v1/users", authRequired)
	users.PATCH("/me", userHandler.Update)
	users.PUT("/me/password", userHandler.ChangePassword)
	users.POST("/me/deactivate", userHandler.Deactivate)
	users.DELETE("/me", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the backing store up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
