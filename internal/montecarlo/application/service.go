package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
	"github.com/wyfcoding/montecarlo/pkg/logger"
	"github.com/wyfcoding/montecarlo/pkg/metrics"
)

// Limits 请求在进入模拟核心前需满足的资源上限
type Limits struct {
	MaxHorizonDays int
	MaxMatrixCells int64
	Timeout        time.Duration
}

// Simulator 路径模拟器接口，由 *domain.PathSimulator 实现
type Simulator interface {
	Simulate(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationResult, error)
}

// MonteCarloService 蒙特卡洛模拟应用服务
type MonteCarloService struct {
	simulator      Simulator
	publisher      domain.ResultPublisher
	metrics        *metrics.Metrics
	limits         Limits
	expectedReturn float64
	newID          func() string
}

// NewMonteCarloService 创建模拟服务
// publisher 与 m 可为 nil
func NewMonteCarloService(sim Simulator, publisher domain.ResultPublisher, m *metrics.Metrics, limits Limits, expectedReturn float64) *MonteCarloService {
	return &MonteCarloService{
		simulator:      sim,
		publisher:      publisher,
		metrics:        m,
		limits:         limits,
		expectedReturn: expectedReturn,
		newID:          uuid.NewString,
	}
}

// RunSimulation 执行一次模拟
// 用例流程：
// 1. 校验参数与资源上限
// 2. 在超时 context 下执行模拟
// 3. 记录指标
// 4. 发布模拟完成事件，发布失败只记录日志
func (s *MonteCarloService) RunSimulation(ctx context.Context, cmd SimulateCommand) (*domain.SimulationResult, error) {
	req := cmd.toRequest(s.expectedReturn)
	start := time.Now()

	if err := s.checkLimits(req); err != nil {
		s.record(metrics.OutcomeInvalid, req, time.Since(start))
		logger.Warn(ctx, "Simulation request rejected", "error", err)
		return nil, err
	}

	simCtx := ctx
	if s.limits.Timeout > 0 {
		var cancel context.CancelFunc
		simCtx, cancel = context.WithTimeout(ctx, s.limits.Timeout)
		defer cancel()
	}

	res, err := s.simulator.Simulate(simCtx, req)
	elapsed := time.Since(start)
	if err != nil {
		outcome := classify(err)
		s.record(outcome, req, elapsed)
		if outcome == metrics.OutcomeInvalid {
			logger.Warn(ctx, "Simulation request rejected", "error", err)
		} else {
			logger.Error(ctx, "Simulation failed",
				"outcome", outcome,
				"num_paths", req.NumPaths,
				"horizon_days", req.HorizonDays,
				"error", err,
			)
		}
		return nil, err
	}
	s.record(metrics.OutcomeSuccess, req, elapsed)

	logger.Info(ctx, "Simulation completed",
		"num_paths", req.NumPaths,
		"horizon_days", req.HorizonDays,
		"var_loss", res.VaRLoss,
		"var_price", res.VaRPrice,
		"duration", elapsed,
	)

	s.publish(ctx, req, res, elapsed)
	return res, nil
}

func (s *MonteCarloService) checkLimits(req domain.SimulationRequest) error {
	if s.limits.MaxHorizonDays > 0 && req.HorizonDays > s.limits.MaxHorizonDays {
		return fmt.Errorf("%w: horizon days must not exceed %d, got %d",
			domain.ErrInvalidParameter, s.limits.MaxHorizonDays, req.HorizonDays)
	}
	if s.limits.MaxMatrixCells > 0 && req.Cells() > s.limits.MaxMatrixCells {
		return fmt.Errorf("%w: simulation size %d cells exceeds limit of %d",
			domain.ErrInvalidParameter, req.Cells(), s.limits.MaxMatrixCells)
	}
	return nil
}

func (s *MonteCarloService) publish(ctx context.Context, req domain.SimulationRequest, res *domain.SimulationResult, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}
	event := domain.NewSimulationCompletedEvent(s.newID(), logger.RequestID(ctx), req, res, elapsed)
	err := s.publisher.PublishCompleted(ctx, event)
	if s.metrics != nil {
		s.metrics.RecordEventPublished(err)
	}
	if err != nil {
		logger.Error(ctx, "Failed to publish simulation completed event", "event_id", event.EventID, "error", err)
	}
}

func (s *MonteCarloService) record(outcome string, req domain.SimulationRequest, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSimulation(outcome, req.NumPaths, req.Cells(), d)
}

// classify 将错误映射为指标 outcome
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrNumericAnomaly):
		return metrics.OutcomeAnomaly
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
