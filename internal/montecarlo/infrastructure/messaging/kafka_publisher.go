// Package messaging 将模拟完成事件发布到 Kafka
package messaging

import (
	"context"
	"fmt"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
)

// MessageSender 消息发送接口，由 *mq.KafkaProducer 实现
type MessageSender interface {
	SendMessage(ctx context.Context, topic string, key string, value any) error
}

// KafkaResultPublisher 实现 domain.ResultPublisher，事件以 event_id 作为消息 key
type KafkaResultPublisher struct {
	sender MessageSender
	topic  string
}

// NewKafkaResultPublisher 创建 Kafka 事件发布器
func NewKafkaResultPublisher(sender MessageSender, topic string) *KafkaResultPublisher {
	return &KafkaResultPublisher{sender: sender, topic: topic}
}

// PublishCompleted 发布模拟完成事件
func (p *KafkaResultPublisher) PublishCompleted(ctx context.Context, event *domain.SimulationCompletedEvent) error {
	if err := p.sender.SendMessage(ctx, p.topic, event.EventID, event); err != nil {
		return fmt.Errorf("failed to publish simulation completed event %s: %w", event.EventID, err)
	}
	return nil
}

// NoopPublisher 未启用 Kafka 时使用，丢弃所有事件
type NoopPublisher struct{}

// PublishCompleted 不做任何事
func (NoopPublisher) PublishCompleted(context.Context, *domain.SimulationCompletedEvent) error {
	return nil
}
