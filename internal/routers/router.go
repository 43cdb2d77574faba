package routers

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/middleware"
	"github.com/paularynty/climaxlog/internal/service"
)

// SetupRouter wires the middleware chain and every /api group.
func SetupRouter(dep *dependency.Dependency) *gin.Engine {
	r := gin.New()

	r.Use(middleware.PanicHandler())

	logConfig := sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return slices.Contains(dep.Cfg.FrontendUrls, origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// health checks and scrapes stay outside the per-client budget
	rateLimiter := middleware.NewRateLimiter(dep.Cfg, "/api/ping", "/api/metrics")
	r.Use(rateLimiter.RateLimit())

	metrics := middleware.NewMetrics()
	r.Use(metrics.Middleware())

	r.Use(sloggin.NewWithConfig(dep.Logger, logConfig))
	r.Use(middleware.ErrorHandler())

	// Health check
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/api/metrics", metrics.Handler(dep.DB))

	UsersRouter(r.Group("/api/users"), dep)
	OrgasmsRouter(r.Group("/api/orgasms"), dep)
	ChastityRouter(r.Group("/api/chastity"), dep)
	StatsRouter(r.Group("/api/stats"), dep)
	FeedRouter(r.Group("/api/feed"), dep)
	DashboardRouter(r.Group("/api/dashboard"), dep)
	DevRouter(r.Group("/api/dev"), dep)

	return r
}

// authenticated returns a group behind bearer token auth.
func authenticated(r *gin.RouterGroup, dep *dependency.Dependency) *gin.RouterGroup {
	auth := r.Group("")
	auth.Use(middleware.Auth(dep, service.NewUserService(dep)))
	return auth
}
