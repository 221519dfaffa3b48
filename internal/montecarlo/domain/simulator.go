package domain

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// NormalSource 标准正态随机数来源
type NormalSource interface {
	NormFloat64() float64
}

// SourceFactory 为每次模拟创建独立的随机数来源
type SourceFactory func() NormalSource

// NewSeededSourceFactory 返回固定种子的随机数来源工厂，每次调用都从同一种子开始
// seed 为 0 时每个来源从全局随机源取独立种子
func NewSeededSourceFactory(seed uint64) SourceFactory {
	if seed == 0 {
		return func() NormalSource {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return func() NormalSource {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// SimulatorOption PathSimulator 可选配置
type SimulatorOption func(*PathSimulator)

// WithWorkers 设置路径维度的并行度
func WithWorkers(n int) SimulatorOption {
	return func(s *PathSimulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSourceFactory 注入随机数来源
func WithSourceFactory(f SourceFactory) SimulatorOption {
	return func(s *PathSimulator) {
		if f != nil {
			s.sources = f
		}
	}
}

// WithAnomalyCheck 是否在输出中检测 NaN/Inf 及非正价格
func WithAnomalyCheck(enabled bool) SimulatorOption {
	return func(s *PathSimulator) {
		s.checkAnomalies = enabled
	}
}

// PathSimulator 几何布朗运动路径模拟器
// 实例无可变共享状态，可被多个请求并发使用
type PathSimulator struct {
	workers        int
	sources        SourceFactory
	checkAnomalies bool
}

// NewPathSimulator 创建路径模拟器
func NewPathSimulator(opts ...SimulatorOption) *PathSimulator {
	s := &PathSimulator{
		workers:        runtime.GOMAXPROCS(0),
		sources:        NewSeededSourceFactory(0),
		checkAnomalies: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate 执行蒙特卡洛模拟并计算风险统计量
func (s *PathSimulator) Simulate(ctx context.Context, req SimulationRequest) (*SimulationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.buildMatrix(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.checkAnomalies {
		if i, t, v, found := m.firstInvalidPrice(); found {
			return nil, fmt.Errorf("%w: path %d has price %v at day %d", ErrNumericAnomaly, i, v, t)
		}
	}

	columns, err := s.columnStats(ctx, m, req.InitialPrice)
	if err != nil {
		return nil, err
	}

	days := req.HorizonDays + 1
	result := &SimulationResult{
		InitialPrice: req.InitialPrice,
		NumPaths:     req.NumPaths,
		HorizonDays:  req.HorizonDays,
		SampledPaths: m.SampleRows(SampleStep(req.NumPaths)),
		MeanPath:     make([]float64, days),
		P5Path:       make([]float64, days),
		P95Path:      make([]float64, days),
	}
	for t, c := range columns {
		result.MeanPath[t] = c.Mean
		result.P5Path[t] = c.P5
		result.P95Path[t] = c.P95
	}

	// 最后一列的 5% 分位数即为 VaR 价格
	var5Price := columns[req.HorizonDays].P5
	result.VaRLoss = round2(req.InitialPrice - var5Price)
	result.VaRPrice = round2(var5Price)

	if s.checkAnomalies {
		if err := result.checkAnomalies(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// buildMatrix 生成价格矩阵
// 正态随机数按路径顺序抽取，保证固定种子下结果与并行度无关
func (s *PathSimulator) buildMatrix(ctx context.Context, req SimulationRequest) (*PriceMatrix, error) {
	m := NewPriceMatrix(req.NumPaths, req.HorizonDays+1)

	// 1. 抽取随机数，暂存于第 1..T 列
	src := s.sources()
	for i := 0; i < m.Rows(); i++ {
		row := m.Row(i)
		for t := 1; t < len(row); t++ {
			row[t] = src.NormFloat64()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. 沿时间轴递推，路径间并行
	drift := (req.ExpectedReturn - 0.5*req.Volatility*req.Volatility) * TimeStep
	diffusion := req.Volatility * math.Sqrt(TimeStep)
	err := s.parallel(ctx, m.Rows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			row := m.Row(i)
			row[0] = req.InitialPrice
			for t := 1; t < len(row); t++ {
				row[t] = row[t-1] * math.Exp(drift+diffusion*row[t])
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build price matrix: %w", err)
	}
	return m, nil
}

// columnStats 按列计算截面统计量，列间并行
func (s *PathSimulator) columnStats(ctx context.Context, m *PriceMatrix, initialPrice float64) ([]ColumnStats, error) {
	out := make([]ColumnStats, m.Cols())
	// 第 0 列为常数列
	out[0] = ColumnStats{Mean: initialPrice, P5: initialPrice, P95: initialPrice}

	err := s.parallel(ctx, m.Cols()-1, func(lo, hi int) {
		buf := make([]float64, m.Rows())
		for t := lo + 1; t < hi+1; t++ {
			buf = m.Column(t, buf)
			out[t] = computeColumnStats(buf)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute path statistics: %w", err)
	}
	return out, nil
}

// parallel 将 [0, n) 切分成若干区间交给 worker 处理
func (s *PathSimulator) parallel(ctx context.Context, n int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	workers := min(s.workers, n)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
