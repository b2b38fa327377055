package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/documents"
	"resume-parser/internal/parses"
	"resume-parser/internal/services/health"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/server/middleware"
	"resume-parser/internal/shared/server/respond"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"
)

// RouterDeps carries the handlers and shared resources the router mounts.
type RouterDeps struct {
	Config          config.Config
	DB              *sql.DB
	DocumentHandler *documents.Handler
	ParseHandler    *parses.Handler
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Identity(healthPath, metricsPath),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:   rateLimitRules(cfg),
			Limiter: deps.Limiter,
			GroupFor: middleware.RouteGroups(map[string]string{
				"POST /api/v1/documents/:id/parse": middleware.GroupParse,
				"POST /api/v1/parse":               middleware.GroupParse,
				"GET /api/v1/parses/:id":           middleware.GroupPolling,
			}),
		}),
	)

	r.GET(metricsPath, metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(health.NewService(deps.DB, cfg.ParseMode)))
	registerMeRoutes(api)
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.ParseHandler != nil {
		deps.ParseHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitRules builds the per-group token buckets. A group with a
// non-positive rate is left unlimited.
func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rules := map[string]middleware.RateLimitRule{}
	if cfg.ParseRateRPS > 0 && cfg.ParseRateBurst > 0 {
		rules[middleware.GroupParse] = middleware.RateLimitRule{Rate: cfg.ParseRateRPS, Burst: cfg.ParseRateBurst}
	}
	if cfg.PollRateRPS > 0 && cfg.PollRateBurst > 0 {
		rules[middleware.GroupPolling] = middleware.RateLimitRule{Rate: cfg.PollRateRPS, Burst: cfg.PollRateBurst}
	}
	return rules
}

func healthHandler(svc *health.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := svc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
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
