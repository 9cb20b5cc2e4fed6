package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"archive-backend/internal/documents"
	"archive-backend/internal/services/health"
	"archive-backend/internal/shared/config"
	"archive-backend/internal/shared/metrics"
	"archive-backend/internal/shared/server/middleware"
	"archive-backend/internal/stats"
	"archive-backend/internal/users"
)

const searchRateLimitGroup = "SEARCH"

// RouterDeps carries the handlers mounted under /api.
type RouterDeps struct {
	Config          config.Config
	UserHandler     *users.Handler
	DocumentHandler *documents.Handler
	StatsHandler    *stats.Handler
	HealthHandler   *health.Handler
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: routeGroup,
			Limiter:  deps.RateLimiter,
			Rules:    rateLimitRules(deps.Config),
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.HealthHandler != nil {
		deps.HealthHandler.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.RegisterRoutes(api)
	}

	return r
}

func routeGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/documents/search" {
		return searchRateLimitGroup
	}
	return ""
}

// rateLimitRules returns no rules when the search limit is disabled (rps <= 0).
func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.SearchRateLimitRPS <= 0 {
		return nil
	}
	burst := cfg.SearchRateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	return map[string]middleware.RateLimitRule{
		searchRateLimitGroup: {Rate: cfg.SearchRateLimitRPS, Burst: burst},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
