package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/splitpay/auth-service/docs"
	"github.com/splitpay/auth-service/internal/api/handler"
	"github.com/splitpay/auth-service/internal/api/middleware"
	"github.com/splitpay/auth-service/internal/core/ports"
	"github.com/splitpay/auth-service/internal/core/service"
	mongodb "github.com/splitpay/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/splitpay/auth-service/internal/infrastructure/db/redis"
	"github.com/splitpay/auth-service/internal/infrastructure/password"
	"github.com/splitpay/auth-service/internal/infrastructure/token"
	"github.com/splitpay/auth-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all components wired
// and routes registered. Construction is explicit: every component receives
// its collaborators here, once, at startup.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit ports.AuditRecorder) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware, in order ---
	// echoprometheus sits outside RequestLogger: RequestLogger commits
	// domain errors to their mapped status before returning, so the
	// metrics record the status the client saw rather than a blanket 500.
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Correlation(log))
	e.Use(echoprometheus.NewMiddleware("auth"))
	e.Use(middleware.RequestLogger())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := password.NewArgon2Hasher()
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window, log)

	authService, err := service.NewAuthService(userRepo, hasher, issuer, limiter, audit, cfg.StoreTimeout)
	if err != nil {
		return nil, err
	}
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(issuer)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/healthz", healthHandler.Liveness)      // liveness  – is the process alive?
	e.GET("/readyz", readinessHandler.Readiness)   // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler()) // Prometheus pull endpoint

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
