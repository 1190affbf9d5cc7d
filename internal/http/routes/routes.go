package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-server-go/internal/bootstrap"
	"github.com/mo-amir99/course-server-go/internal/features/auth"
	"github.com/mo-amir99/course-server-go/internal/features/course"
	"github.com/mo-amir99/course-server-go/internal/features/feedback"
	"github.com/mo-amir99/course-server-go/internal/features/lesson"
	"github.com/mo-amir99/course-server-go/internal/features/like"
	"github.com/mo-amir99/course-server-go/internal/features/progress"
	"github.com/mo-amir99/course-server-go/internal/features/quiz"
	"github.com/mo-amir99/course-server-go/internal/features/user"
	"github.com/mo-amir99/course-server-go/internal/features/videoview"
	authmw "github.com/mo-amir99/course-server-go/internal/middleware"
	"github.com/mo-amir99/course-server-go/pkg/cache"
	"github.com/mo-amir99/course-server-go/pkg/config"
	"github.com/mo-amir99/course-server-go/pkg/health"
	"github.com/mo-amir99/course-server-go/pkg/jobs"
	"github.com/mo-amir99/course-server-go/pkg/metrics"
	"github.com/mo-amir99/course-server-go/pkg/middleware"
	"github.com/mo-amir99/course-server-go/pkg/request"
)

const (
	maxRequestBytes = 1 << 20
	pruneInterval   = time.Hour
)

// Dependencies carries everything the HTTP layer is built from.
type Dependencies struct {
	Config *config.Config
	Stores bootstrap.Stores
	Cache  cache.Client
	Checks map[string]health.Pinger
	Logger *slog.Logger

	// Optional per-IP throttles. Nil disables them.
	APILimiter   *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter

	// Scheduler receives the housekeeping jobs. Nil skips them.
	Scheduler *jobs.Scheduler

	// AuthOptions are passed to the auth gate, mostly to pin the clock in tests.
	AuthOptions []auth.Option
}

// NewRouter builds the engine with the global middleware stack and every route mounted.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	// Only configured proxies may supply the client address used by the login throttles.
	if err := router.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		deps.Logger.Error("invalid trusted proxies, trusting none", slog.String("error", err.Error()))
		_ = router.SetTrustedProxies(nil)
	}

	// request.Handler renders errors pushed by everything below it, panics included.
	router.Use(request.Handler(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxRequestBytes))
	router.Use(metrics.Middleware())

	Register(router, deps)
	router.NoRoute(request.NotFound)

	return router
}

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	logger := deps.Logger
	stores := deps.Stores

	// Probes stay outside /api so orchestrators can reach them without a token.
	healthHandler := health.NewHandler(deps.Checks, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)
	engine.GET("/metrics", metrics.Handler())

	api := engine.Group("/api")
	if deps.APILimiter != nil {
		api.Use(deps.APILimiter.Middleware())
	}

	// Services
	users := user.NewService(stores.Users, logger)
	authGate := auth.NewGate(stores.Auth, stores.Users, logger, auth.Policy{
		MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
		FailureWindow:     cfg.Auth.FailureWindow,
		MaxSessions:       cfg.Auth.MaxSessions,
		SessionIdle:       cfg.Auth.SessionIdle,
	}, deps.AuthOptions...)
	progressGate := progress.NewGate(stores.Progress, stores.Users, logger)
	catalog := course.NewCatalog(stores.Courses, deps.Cache, cfg.CatalogCacheTTL, logger)
	likes := like.NewService(stores.Likes, logger)
	views := videoview.NewRecorder(stores.Views, logger)
	lessons := lesson.NewService(stores.Lessons, stores.Courses, progressGate, likes, views, logger)
	quizzes := quiz.NewEngine(stores.Quizzes, stores.Lessons, progressGate, logger)
	feedbacks := feedback.NewService(stores.Feedback, stores.Courses, stores.Lessons, progressGate, logger)

	if deps.Scheduler != nil {
		deps.Scheduler.AddJob(auth.NewPruneJob(authGate), pruneInterval)
	}

	// Access chains
	authMiddleware := authmw.NewAuthMiddleware(authGate, cfg.JWTSecret, logger)
	acAll := authMiddleware.Authenticated()
	acAdmin := authMiddleware.Admin()

	var loginGuards []gin.HandlerFunc
	if deps.LoginLimiter != nil {
		loginGuards = append(loginGuards, deps.LoginLimiter.Middleware())
	}

	auth.RegisterRoutes(api, auth.NewHandler(authGate, logger, auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiry,
	}), loginGuards, acAll)
	user.RegisterRoutes(api, user.NewHandler(users, logger), acAdmin)
	progress.RegisterRoutes(api, progress.NewHandler(progressGate, logger), acAll)
	course.RegisterRoutes(api, course.NewHandler(catalog, logger), acAll, acAdmin)
	lesson.RegisterRoutes(api, lesson.NewHandler(lessons, logger), acAll, acAdmin)
	quiz.RegisterRoutes(api, quiz.NewHandler(quizzes, logger), acAll, acAdmin)
	feedback.RegisterRoutes(api, feedback.NewHandler(feedbacks, logger), acAll)
}
