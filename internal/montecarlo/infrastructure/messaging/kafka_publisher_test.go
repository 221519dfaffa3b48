package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
	"github.com/wyfcoding/montecarlo/pkg/mq"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaResultPublisher_PublishCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaResultPublisher(mq.NewProducerWithWriter(w, mq.KafkaConfig{}), "risk.montecarlo.completed")

	event := &domain.SimulationCompletedEvent{
		EventID:     "evt-1",
		RequestID:   "req-1",
		NumPaths:    500,
		HorizonDays: 30,
		VaRLoss:     12.34,
		VaRPrice:    87.66,
	}
	if err := p.PublishCompleted(context.Background(), event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != "risk.montecarlo.completed" {
		t.Errorf("unexpected topic %q", msg.Topic)
	}
	if string(msg.Key) != "evt-1" {
		t.Errorf("expected event id as key, got %q", msg.Key)
	}

	var decoded domain.SimulationCompletedEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not a completed event: %v", err)
	}
	if decoded.VaRLoss != 12.34 || decoded.NumPaths != 500 || decoded.RequestID != "req-1" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestKafkaResultPublisher_PropagatesError(t *testing.T) {
	sentinel := errors.New("leader not available")
	p := NewKafkaResultPublisher(mq.NewProducerWithWriter(&fakeWriter{err: sentinel}, mq.KafkaConfig{}), "t")

	err := p.PublishCompleted(context.Background(), &domain.SimulationCompletedEvent{EventID: "evt-2"})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestNoopPublisher(t *testing.T) {
	var p domain.ResultPublisher = NoopPublisher{}
	if err := p.PublishCompleted(context.Background(), &domain.SimulationCompletedEvent{}); err != nil {
		t.Errorf("noop publisher returned error: %v", err)
	}
}
