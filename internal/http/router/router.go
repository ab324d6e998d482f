package router

import (
	"context"
	"net/http"
	"time"

	apphttp "container_leads_backend/internal/http"
	"container_leads_backend/platform/httpkit"
	"container_leads_backend/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())

	if origins := app.Config.GetCORSOrigins(); len(origins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
			ExposeHeaders:    []string{httpkit.HeaderRequestID},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	engine.GET("/api/health", health(app.Health))
	if app.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics.Handler(app.Metrics)))
	}

	v1 := engine.Group("/api/v1")
	limiter := httpkit.NewIPRateLimiter(
		httpkit.PerMinute(app.Config.GetPublicRatePerMinute()),
		app.Config.GetPublicRateBurst(),
		app.Logger,
	)
	public := v1.Group("")
	public.Use(limiter.RateLimit())

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     v1,
		Public: public,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func health(checker apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
