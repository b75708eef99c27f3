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

	appcatalog "github.com/mamo-store/backend/internal/application/catalog"
	appidentity "github.com/mamo-store/backend/internal/application/identity"
	"github.com/mamo-store/backend/internal/infrastructure/auth"
	"github.com/mamo-store/backend/internal/infrastructure/config"
	aiclient "github.com/mamo-store/backend/internal/infrastructure/genai"
	"github.com/mamo-store/backend/internal/infrastructure/logger"
	"github.com/mamo-store/backend/internal/infrastructure/persistence"
	"github.com/mamo-store/backend/internal/interfaces/http/handler"
	"github.com/mamo-store/backend/internal/interfaces/http/middleware"
	"github.com/mamo-store/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting store server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected")

	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	sessions := auth.NewSessionService(cfg.JWT)
	productService := appcatalog.NewProductService(productRepo, log)
	loginService := appidentity.NewLoginService(userRepo, sessions, cfg.Store.AdminPIN, log)

	if err := productService.EnsureSeeded(context.Background()); err != nil {
		log.Fatal("Failed to seed catalog", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Session(sessions))

	r := router.NewRouter(engine).
		Register(handler.NewProductHandler(productService, log)).
		Register(handler.NewAuthHandler(loginService, log)).
		Register(handler.NewSystemHandler(db))

	// assistant endpoints come up only when an AI key is configured
	if cfg.AI.APIKey != "" {
		advisor, err := aiclient.NewClient(context.Background(), cfg.AI)
		if err != nil {
			log.Fatal("Failed to create AI client", zap.Error(err))
		}
		r.Register(handler.NewAssistantHandler(advisor, productService, log))
	} else {
		log.Warn("AI API key not configured, assistant endpoints disabled")
	}

	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
