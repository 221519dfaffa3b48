package http

import (
	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/montecarlo/pkg/metrics"
	"github.com/wyfcoding/montecarlo/pkg/middleware"
	"github.com/wyfcoding/montecarlo/pkg/ratelimit"
)

// RouterOptions 路由装配参数
type RouterOptions struct {
	Service SimulationRunner
	// Metrics 为 nil 时不暴露指标
	Metrics     *metrics.Metrics
	MetricsPath string
	// Limiter 为 nil 时不限流
	Limiter ratelimit.RateLimiter
	Limit   ratelimit.Limit
	Ready   func() bool
}

// NewRouter 装配 Gin 引擎：通用中间件、业务路由、探针与指标
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
	)
	if opts.Metrics != nil {
		r.Use(middleware.GinMetricsMiddleware(opts.Metrics))
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(opts.Metrics.Handler()))
	}

	var apiMiddlewares []gin.HandlerFunc
	if opts.Limiter != nil {
		apiMiddlewares = append(apiMiddlewares, middleware.RateLimitMiddleware(opts.Limiter, opts.Limit, opts.Metrics))
	}

	NewMonteCarloHandler(opts.Service).RegisterRoutes(r, apiMiddlewares...)
	RegisterHealthRoutes(r, opts.Ready)
	return r
}
