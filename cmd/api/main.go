package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entescheme/ente-api/internal/config"
	"github.com/entescheme/ente-api/internal/handlers"
	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/middleware"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/entescheme/ente-api/internal/storage"
	"github.com/entescheme/ente-api/internal/storage/memory"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/entescheme/ente-api/docs"
)

// @title           Ente Scheme API
// @version         1.0
// @description     Citizen profiles, the welfare scheme catalogue and eligibility matching for the Ente Scheme portal.

// @contact.name   Ente Scheme Support
// @contact.email  support@entescheme.in

// @host      localhost:8081
// @BasePath  /v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

// @tag.name auth
// @tag.description Registration, login and email verification

// @tag.name profile
// @tag.description Citizen profiles

// @tag.name eligibility
// @tag.description Scheme matching

// @tag.name health
// @tag.description Health check operations

// backend is the set of stores the services run on.
type backend struct {
	profiles services.ProfileStore
	schemes  services.SchemeStore
	news     services.NewsStore
	users    services.UserStore
	otps     services.OTPStore
	audit    services.AuditSink
	checks   map[string]handlers.HealthCheck
	close    func(ctx context.Context)
}

func newBackend(cfg *config.Config) (*backend, error) {
	if cfg.StorageBackend == config.StorageMemory {
		logging.Logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &backend{
			profiles: store, schemes: store, news: store, users: store, otps: store, audit: store,
			checks: map[string]handlers.HealthCheck{},
			close:  func(context.Context) {},
		}, nil
	}

	if err := config.InitMongoDB(); err != nil {
		return nil, err
	}
	config.InitRedis()

	stores := storage.New(config.MongoDB, cfg)
	return &backend{
		profiles: stores.Profiles,
		schemes:  stores.Schemes,
		news:     stores.News,
		users:    stores.Users,
		otps:     stores.OTPs,
		audit:    stores.Audit,
		checks: map[string]handlers.HealthCheck{
			"mongodb": func(ctx context.Context) error { return config.MongoDB.Client().Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return config.Redis.Ping(ctx).Err() },
		},
		close: func(ctx context.Context) {
			if err := config.MongoDB.Client().Disconnect(ctx); err != nil {
				logging.Logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
			}
			if err := config.Redis.Close(); err != nil {
				logging.Logger.Warn("failed to close Redis", zap.Error(err))
			}
		},
	}, nil
}

func main() {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logging.Logger.Sync()

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	shutdownTracer, err := observability.InitTracer(context.Background(), cfg)
	if err != nil {
		logging.Logger.Error("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logging.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	be, err := newBackend(cfg)
	if err != nil {
		logging.Logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	logger := logging.Logger
	defer zap.RedirectStdLog(logger.Unwrap())()
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry, nil)

	refill := time.Minute
	if cfg.OTPRateLimit > 0 {
		refill = time.Minute / time.Duration(cfg.OTPRateLimit)
	}
	limiter := services.NewRateLimiter(cfg.OTPRateBurst, refill, logger.Named("otp_limiter"), nil)
	mailer := services.NewMailer(cfg.SendGridAPIKey, cfg.MailFromAddress, cfg.MailFromName, logger.Named("mailer"))
	otps := services.NewOTPService(be.otps, mailer, limiter, services.OTPConfig{
		TTL:                cfg.OTPTTL,
		ResendCooldown:     cfg.OTPResendCooldown,
		VerificationWindow: cfg.OTPVerificationWindow,
		MaxAttempts:        cfg.OTPMaxAttempts,
	}, logger.Named("otp"))

	users := services.NewUserService(be.users, tokens, otps, logger.Named("users"))
	profiles := services.NewProfileService(be.profiles, logger.Named("profiles"))
	schemeCache := services.NewSchemeCache(config.Redis, cfg.RedisTTL, cfg.LocalCacheTTL, logger.Named("scheme_cache"))
	schemes := services.NewSchemeService(be.schemes, schemeCache, logger.Named("schemes"))
	news := services.NewNewsService(be.news, logger.Named("news"))
	elig := services.NewEligibilityService(profiles, schemes, logger.Named("eligibility"))

	if cfg.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("failed to bootstrap admin account", zap.Error(err))
		}
		cancel()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-Match", "X-Request-ID"},
			ExposeHeaders:    []string{"ETag", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	var auditWorker *services.AuditWorker
	if cfg.AuditEnabled {
		auditWorker = services.NewAuditWorker(be.audit, cfg.AuditWorkers, cfg.AuditBufferSize, logger.Named("audit"))
		auditWorker.Start()
		router.Use(middleware.AuditMiddleware(auditWorker))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router.Group("/v1"), &handlers.Handlers{
		Auth:        handlers.NewAuthHandlers(logger, users, otps),
		Profile:     handlers.NewProfileHandlers(logger, profiles),
		Scheme:      handlers.NewSchemeHandlers(logger, schemes),
		News:        handlers.NewNewsHandlers(logger, news),
		Eligibility: handlers.NewEligibilityHandlers(logger, elig),
		Health:      handlers.NewHealthHandlers(logger, be.checks),
	}, tokens)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("storage", cfg.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if auditWorker != nil {
		auditWorker.Stop()
	}
	be.close(ctx)

	logger.Info("server exited gracefully")
}
