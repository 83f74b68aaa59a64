package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ContractLens/internal/interfaces/http/handlers"
	"github.com/turtacn/ContractLens/internal/interfaces/http/middleware"
	"github.com/turtacn/ContractLens/pkg/errors"
)

// RouterConfig aggregates the handlers and middleware settings used to build
// the route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Mode string

	AnalysisHandler *handlers.AnalysisHandler
	TemplateHandler *handlers.TemplateHandler
	ReportHandler   *handlers.ReportHandler
	HealthHandler   *handlers.HealthHandler

	CORS        *middleware.CORSConfig
	Logging     middleware.LoggingConfig
	RateLimiter middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the gin engine.  Global middleware runs in the order
// request id, recovery, request logging, metrics, CORS, rate limiting.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogging(log, cfg.Logging))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Code:      errors.ErrCodeNotFound.String(),
			Message:   "route not found",
			RequestID: middleware.GetRequestID(c),
		})
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	if h := cfg.AnalysisHandler; h != nil {
		api.POST("/analyze", h.Analyze)
		api.POST("/analyze/file", h.AnalyzeFile)
	}
	if h := cfg.TemplateHandler; h != nil {
		api.GET("/templates", h.ListSME)
		api.GET("/templates/:id", h.DownloadSME)
		api.GET("/catalog/templates", h.ListClauses)
	}
	if h := cfg.ReportHandler; h != nil {
		api.GET("/reports/:request_id", h.Get)
		api.GET("/reports/:request_id/url", h.URL)
	}

	return r
}

//Personal.AI order the ending
