package domain

import (
	"context"
	"time"
)

// SimulationCompletedEvent 模拟完成事件
type SimulationCompletedEvent struct {
	EventID        string    `json:"event_id"`
	RequestID      string    `json:"request_id,omitempty"`
	InitialPrice   float64   `json:"initial_price"`
	Volatility     float64   `json:"volatility"`
	HorizonDays    int       `json:"horizon_days"`
	NumPaths       int       `json:"num_paths"`
	ExpectedReturn float64   `json:"expected_return"`
	VaRLoss        float64   `json:"var_loss"`
	VaRPrice       float64   `json:"var_price"`
	DurationMs     int64     `json:"duration_ms"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewSimulationCompletedEvent 根据请求和结果构造事件
func NewSimulationCompletedEvent(eventID, requestID string, req SimulationRequest, res *SimulationResult, elapsed time.Duration) *SimulationCompletedEvent {
	return &SimulationCompletedEvent{
		EventID:        eventID,
		RequestID:      requestID,
		InitialPrice:   req.InitialPrice,
		Volatility:     req.Volatility,
		HorizonDays:    req.HorizonDays,
		NumPaths:       req.NumPaths,
		ExpectedReturn: req.ExpectedReturn,
		VaRLoss:        res.VaRLoss,
		VaRPrice:       res.VaRPrice,
		DurationMs:     elapsed.Milliseconds(),
		OccurredAt:     time.Now().UTC(),
	}
}

// ResultPublisher 模拟结果事件发布接口
type ResultPublisher interface {
	PublishCompleted(ctx context.Context, event *SimulationCompletedEvent) error
}
