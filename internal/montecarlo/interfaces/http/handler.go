// Package http 蒙特卡洛模拟服务的 HTTP 接口
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/application"
	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
	"github.com/wyfcoding/montecarlo/pkg/logger"
)

const (
	// indexMessage 存活标识文案，与现有前端一致
	indexMessage = "API de Simulación MC Activa"
	// failureDetailPrefix 500 响应 detail 前缀，与现有前端一致
	failureDetailPrefix = "Error en simulación: "
)

// SimulateRequest 模拟请求体，字段名与前端保持一致
type SimulateRequest struct {
	InitialPrice float64 `json:"prc_actual" binding:"required,gt=0"`
	Volatility   float64 `json:"volat" binding:"required,gt=0"`
	HorizonDays  int     `json:"num_dias" binding:"required,gt=0"`
	NumPaths     int     `json:"num_sims" binding:"required,gt=0,lte=5000"`
}

// SimulationRunner 模拟用例接口，由 *application.MonteCarloService 实现
type SimulationRunner interface {
	RunSimulation(ctx context.Context, cmd application.SimulateCommand) (*domain.SimulationResult, error)
}

// MonteCarloHandler 负责处理模拟相关的 HTTP 请求
type MonteCarloHandler struct {
	svc SimulationRunner
}

// NewMonteCarloHandler 创建 HTTP 处理器
func NewMonteCarloHandler(svc SimulationRunner) *MonteCarloHandler {
	return &MonteCarloHandler{svc: svc}
}

// RegisterRoutes 注册路由，middlewares 仅作用于 /api 分组
func (h *MonteCarloHandler) RegisterRoutes(router gin.IRouter, middlewares ...gin.HandlerFunc) {
	router.GET("/", h.Index)

	api := router.Group("/api", middlewares...)
	{
		api.POST("/simulate", h.Simulate)
	}
}

// Index 服务存活标识
func (h *MonteCarloHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": indexMessage})
}

// Simulate 执行蒙特卡洛模拟
func (h *MonteCarloHandler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	res, err := h.svc.RunSimulation(c.Request.Context(), application.SimulateCommand{
		InitialPrice: req.InitialPrice,
		Volatility:   req.Volatility,
		HorizonDays:  req.HorizonDays,
		NumPaths:     req.NumPaths,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParameter) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to run simulation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": failureDetailPrefix + err.Error()})
		return
	}

	// 先编码再写状态码，编码失败 (如 NaN/Inf) 时返回 500
	body, err := json.Marshal(res)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to encode simulation result", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": failureDetailPrefix + err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// RegisterHealthRoutes 注册健康检查路由
// ready 返回 false 时 /sys/ready 返回 503
func RegisterHealthRoutes(router gin.IRouter, ready func() bool) {
	sys := router.Group("/sys")
	{
		sys.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		sys.GET("/ready", func(c *gin.Context) {
			if ready != nil && !ready() {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "READY"})
		})
	}
}
