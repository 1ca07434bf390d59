package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/aligarduo/Naive-Dev/internal/handler"
	"github.com/aligarduo/Naive-Dev/internal/middleware"
	"github.com/aligarduo/Naive-Dev/internal/repository"
	"github.com/aligarduo/Naive-Dev/internal/service"
	"github.com/aligarduo/Naive-Dev/pkg/cache"
	"github.com/aligarduo/Naive-Dev/pkg/config"
	"github.com/aligarduo/Naive-Dev/pkg/database"
	"github.com/aligarduo/Naive-Dev/pkg/jobs"
	"github.com/aligarduo/Naive-Dev/pkg/logger"
	corsmiddleware "github.com/aligarduo/Naive-Dev/pkg/middleware/cors"
	reqidmiddleware "github.com/aligarduo/Naive-Dev/pkg/middleware/requestid"
	"github.com/aligarduo/Naive-Dev/pkg/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	mailSvc := service.NewMailService(cfg.SMTP, logr)
	mailQueue := jobs.New("verify-mail", func(ctx context.Context, m service.VerifyMail) error {
		return mailSvc.SendVerifyCode(ctx, m.To, m.Code, m.TTL)
	}, jobs.Config{Workers: 2, Retries: 3, Backoff: 5 * time.Second, Logger: logr})
	mailQueue.Start(context.Background())
	defer mailQueue.Stop()

	authSvc := service.NewAuthService(userRepo, cacheRepo, tokenSvc, service.NewQueuedMailSender(mailQueue), validate, logr, service.AuthConfig{
		AccessTokenExpiry:  cfg.JWT.AccessExpiry,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiry,
		ActiveTTL:          cfg.Session.ActiveTTL,
		AccessTTL:          cfg.Session.AccessTTL,
		RefreshTTL:         cfg.Session.RefreshTTL,
		VerifyCodeTTL:      cfg.Session.VerifyCodeTTL,
	})
	userSvc := service.NewUserService(userRepo, logr)

	limiter := newLimiter(cfg.RateLimit)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(limiter, metricsSvc))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.ClientContext())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)

	r.POST("/email/verify", middleware.Audit(logr, "email_verify"), authHandler.EmailVerify)
	r.POST("/signup", middleware.Audit(logr, "signup"), authHandler.SignUp)
	r.POST("/signin", middleware.Audit(logr, "signin"), authHandler.SignIn)
	r.POST("/renewal", middleware.Audit(logr, "renewal"), authHandler.Renewal)

	authed := r.Group("/", middleware.Authenticated(tokenSvc, cacheRepo, metricsSvc))
	authed.GET("/signout", middleware.Audit(logr, "signout"), authHandler.SignOut)
	authed.GET("/current", userHandler.Current)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newLimiter(cfg config.RateLimitConfig) ratelimit.Limiter {
	if cfg.Algorithm == "leaky_bucket" {
		return ratelimit.NewLeakyBucket(cfg.Capacity, cfg.LeakPerSecond)
	}
	return ratelimit.NewTokenBucket(cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval)
}
