// Package main runs the course-registration HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uni-zapisy/backend/config"
	"github.com/uni-zapisy/backend/internal/auth"
	"github.com/uni-zapisy/backend/internal/campaigns"
	"github.com/uni-zapisy/backend/internal/debug"
	"github.com/uni-zapisy/backend/internal/emaillog"
	"github.com/uni-zapisy/backend/internal/invites"
	"github.com/uni-zapisy/backend/internal/mailer"
	"github.com/uni-zapisy/backend/internal/middleware"
	"github.com/uni-zapisy/backend/internal/models"
	"github.com/uni-zapisy/backend/internal/registrations"
	"github.com/uni-zapisy/backend/internal/users"
	"github.com/uni-zapisy/backend/pkg/database"
	"github.com/uni-zapisy/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionExpireHours)
	mail := mailer.New(cfg.SMTP, cfg.App.Name, cfg.App.BackendURL, cfg.Auth.TokenExpireMinutes, logger)
	limiter := auth.NewMagicLinkLimiter(rdb.Client, time.Duration(cfg.Auth.MagicLinkCooldown)*time.Second)

	// Repositories
	userRepo := users.NewRepository(pool)
	inviteRepo := invites.NewRepository(pool)
	campaignRepo := campaigns.NewRepository(pool)
	registrationRepo := registrations.NewRepository(pool)
	authRepo := auth.NewRepository(pool)
	emailLogRepo := emaillog.NewRepository(pool)

	// Bootstrap starosta invitation (offline generator equivalent).
	if cfg.Auth.AdminInviteToken != "" {
		if err := inviteRepo.SeedAdminInvite(ctx, cfg.Auth.AdminInviteToken, 7*24*time.Hour); err != nil {
			logger.Fatal("seed admin invite", zap.Error(err))
		}
		logger.Info("admin invite seeded")
	}

	// Handlers
	authHandler := auth.NewHandler(authRepo, userRepo, inviteRepo, campaignRepo, emailLogRepo,
		jwtService, mail, limiter, cfg.Auth, cfg.App.FrontendURL, logger)
	userHandler := users.NewHandler(userRepo, campaignRepo, logger)
	inviteHandler := invites.NewHandler(inviteRepo, campaignRepo, cfg.App.FrontendURL, logger)
	campaignHandler := campaigns.NewHandler(campaignRepo, logger)
	registrationHandler := registrations.NewHandler(registrationRepo, inviteRepo, campaignRepo, userRepo, logger)
	emailLogHandler := emaillog.NewHandler(emailLogRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": cfg.App.Name + " dziala :v", "status": "ok"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register-with-invite", authHandler.RegisterWithInvite)
		authGroup.POST("/request-magic-link", authHandler.RequestMagicLink)
		authGroup.GET("/verify", authHandler.Verify)
	}

	// Protected API (session credential via Bearer header or cookie)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService, userRepo))
	{
		student := api.Group("/student")
		{
			student.POST("/register", registrationHandler.Submit)
			student.GET("/my-groups", registrationHandler.MyGroups)
		}

		usersGroup := api.Group("/users")
		{
			usersGroup.GET("/me", userHandler.Me)
			usersGroup.GET("/dashboard", userHandler.Dashboard)
			usersGroup.GET("/available-campaigns", userHandler.AvailableCampaigns)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/create-student-invite", inviteHandler.CreateStudentInvite)
			admin.GET("/invites", inviteHandler.List)
			admin.POST("/campaigns", campaignHandler.Create)
			admin.GET("/campaigns", campaignHandler.ListMine)
			admin.GET("/campaigns/:id/stats", campaignHandler.Stats)
			admin.PATCH("/campaigns/:id/groups/:groupID", campaignHandler.UpdateGroupLimit)
			admin.POST("/campaigns/:id/deactivate", campaignHandler.Deactivate)
			admin.GET("/email-logs", emailLogHandler.List)
		}
	}

	// Diagnostics (leaks secrets; only with DEBUG=true)
	if cfg.App.Debug {
		debugHandler := debug.NewHandler(cfg, pool, logger)
		dbg := router.Group("/debug")
		{
			dbg.GET("/info", debugHandler.Info)
			dbg.GET("/db", debugHandler.DB)
		}
		logger.Warn("debug router enabled, configuration is exposed")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
