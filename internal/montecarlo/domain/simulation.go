// Package domain 包含蒙特卡洛风险模拟服务的领域模型
package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultExpectedReturn 默认日预期收益率 (mu)
	DefaultExpectedReturn = 0.0001
	// MaxPaths 单次模拟允许的最大路径数
	MaxPaths = 5000
	// TimeStep 时间步长 (天)
	TimeStep = 1.0
	// SampleTarget 返回给前端的抽样路径目标数量
	SampleTarget = 100
)

var (
	// ErrInvalidParameter 输入参数不满足前置条件
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrNumericAnomaly 计算结果出现 NaN 或 Inf
	ErrNumericAnomaly = errors.New("numeric anomaly")
)

// SimulationRequest 蒙特卡洛模拟请求参数
type SimulationRequest struct {
	InitialPrice   float64 // 当前价格 (S0)
	Volatility     float64 // 日波动率 (sigma)
	HorizonDays    int     // 预测天数 (T)
	NumPaths       int     // 模拟路径数 (N)
	ExpectedReturn float64 // 日预期收益率 (mu)
}

// NewSimulationRequest 创建使用默认预期收益率的模拟请求
func NewSimulationRequest(initialPrice, volatility float64, horizonDays, numPaths int) SimulationRequest {
	return SimulationRequest{
		InitialPrice:   initialPrice,
		Volatility:     volatility,
		HorizonDays:    horizonDays,
		NumPaths:       numPaths,
		ExpectedReturn: DefaultExpectedReturn,
	}
}

// Validate 校验请求参数
func (r SimulationRequest) Validate() error {
	if !isFinite(r.InitialPrice) || r.InitialPrice <= 0 {
		return fmt.Errorf("%w: initial price must be positive and finite, got %v", ErrInvalidParameter, r.InitialPrice)
	}
	if !isFinite(r.Volatility) || r.Volatility <= 0 {
		return fmt.Errorf("%w: volatility must be positive and finite, got %v", ErrInvalidParameter, r.Volatility)
	}
	if r.HorizonDays <= 0 {
		return fmt.Errorf("%w: horizon days must be positive, got %d", ErrInvalidParameter, r.HorizonDays)
	}
	if r.NumPaths <= 0 || r.NumPaths > MaxPaths {
		return fmt.Errorf("%w: number of paths must be in (0, %d], got %d", ErrInvalidParameter, MaxPaths, r.NumPaths)
	}
	if !isFinite(r.ExpectedReturn) {
		return fmt.Errorf("%w: expected return must be finite, got %v", ErrInvalidParameter, r.ExpectedReturn)
	}
	return nil
}

// Cells 价格矩阵的单元格数量
func (r SimulationRequest) Cells() int64 {
	return int64(r.NumPaths) * int64(r.HorizonDays+1)
}

// SimulationResult 蒙特卡洛模拟结果
// JSON 字段名需与现有前端保持一致
type SimulationResult struct {
	InitialPrice float64     `json:"Prc_Ini"`
	NumPaths     int         `json:"N_Sims"`
	HorizonDays  int         `json:"T_Dias"`
	SampledPaths [][]float64 `json:"simulaciones"`
	MeanPath     []float64   `json:"ruta_prom"`
	P5Path       []float64   `json:"ruta_p5"`
	P95Path      []float64   `json:"ruta_p95"`
	VaRLoss      float64     `json:"Perdida_VaR"`
	VaRPrice     float64     `json:"Prc_VaR_P5"`
}

// checkAnomalies 检查汇总输出中的数值异常
// NaN/Inf 来自上溢；价格 <= 0 来自下溢，任一路径归零都会把末日 p5 拉到 0
func (r *SimulationResult) checkAnomalies() error {
	paths := []struct {
		name string
		path []float64
	}{
		{"mean", r.MeanPath},
		{"p5", r.P5Path},
		{"p95", r.P95Path},
	}
	for _, p := range paths {
		for t, v := range p.path {
			if !isFinite(v) {
				return fmt.Errorf("%w: %s path has %v at day %d", ErrNumericAnomaly, p.name, v, t)
			}
			if v <= 0 {
				return fmt.Errorf("%w: %s path is non-positive (%v) at day %d, prices underflowed", ErrNumericAnomaly, p.name, v, t)
			}
		}
	}
	if !isFinite(r.VaRLoss) || !isFinite(r.VaRPrice) {
		return fmt.Errorf("%w: value at risk is not finite (loss=%v, price=%v)", ErrNumericAnomaly, r.VaRLoss, r.VaRPrice)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
