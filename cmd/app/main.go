package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-server-go/internal/bootstrap"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/http/routes"
	"github.com/mo-amir99/course-server-go/internal/storage/memstore"
	"github.com/mo-amir99/course-server-go/pkg/cache"
	"github.com/mo-amir99/course-server-go/pkg/config"
	"github.com/mo-amir99/course-server-go/pkg/database"
	"github.com/mo-amir99/course-server-go/pkg/health"
	"github.com/mo-amir99/course-server-go/pkg/jobs"
	"github.com/mo-amir99/course-server-go/pkg/logger"
	"github.com/mo-amir99/course-server-go/pkg/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, logger.Options{
		Dir:        cfg.Log.Dir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]health.Pinger{}

	var stores bootstrap.Stores
	if cfg.UsesMemoryStore() {
		appLogger.Warn("using in-memory store, state is lost on restart")
		stores = bootstrap.MemoryStores(memstore.New())
	} else {
		db, err := database.Connect(ctx, cfg.Database, appLogger)
		if err != nil {
			appLogger.Error("database connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := database.Close(db, appLogger); err != nil {
				appLogger.Error("database close failed", slog.String("error", err.Error()))
			}
		}()

		if err := bootstrap.ApplyDatabaseMigrations(db, cfg, appLogger); err != nil {
			appLogger.Error("migrations failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		checks["database"] = databasePinger(db)
		stores = bootstrap.GormStores(db)
	}

	cacheClient, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// The catalog cache is optional; fall back to process memory.
		appLogger.Warn("redis unavailable, using in-memory catalog cache", slog.String("error", err.Error()))
		cacheClient = cache.NewMemoryCache()
	}
	defer cacheClient.Close()
	checks["cache"] = cacheClient

	if err := bootstrap.EnsureDefaultAdmin(ctx, user.NewService(stores.Users, appLogger), cfg.Admin, appLogger); err != nil {
		appLogger.Error("ensure default admin failed", slog.String("error", err.Error()))
	}

	// 300 requests per minute per IP overall, 20 login attempts per minute per IP.
	apiLimiter := middleware.NewRateLimiter(300, time.Minute)
	defer apiLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(20, time.Minute)
	defer loginLimiter.Stop()

	scheduler := jobs.NewScheduler(appLogger, time.Minute)

	router := routes.NewRouter(routes.Dependencies{
		Config:       cfg,
		Stores:       stores,
		Cache:        cacheClient,
		Checks:       checks,
		Logger:       appLogger,
		APILimiter:   apiLimiter,
		LoginLimiter: loginLimiter,
		Scheduler:    scheduler,
	})

	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("store", cfg.StoreDriver),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}
}

func databasePinger(db *gorm.DB) health.PingFunc {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
