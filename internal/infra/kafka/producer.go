package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"yatube-go/internal/config"
	"yatube-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var producer *kafka.Writer

// 帖子事件类型
const (
	PostEventCreated = "post_created"
	PostEventUpdated = "post_updated"
	PostEventDeleted = "post_deleted"
)

// PostEvent 帖子变更事件消息体，worker 侧消费后同步搜索索引
type PostEvent struct {
	Type       string `json:"type"`
	PostID     int64  `json:"post_id"`
	AuthorID   int64  `json:"author_id"`
	OccurredAt int64  `json:"occurred_at"`
}

// InitProducer 初始化 Kafka 生产者
func InitProducer(cfg *config.KafkaConfig) error {
	producer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return nil
}

// SendPostEvent 发送帖子变更事件到指定 topic
func SendPostEvent(ctx context.Context, topic string, event *PostEvent) error {
	if producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal post event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("post-%d", event.PostID)),
		Value: payload,
	}

	if err := producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send post event: %w", err)
	}

	logger.Info("Post event sent",
		zap.Int64("post_id", event.PostID),
		zap.String("type", event.Type),
		zap.String("topic", topic),
	)

	return nil
}

// CloseProducer 关闭生产者
func CloseProducer() error {
	if producer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return producer.Close()
}
