package kafka

import (
	"context"
	"encoding/json"
	"time"

	"yatube-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PostEventHandler 处理帖子事件的回调函数
type PostEventHandler func(event *PostEvent) error

// StartPostEventConsumer 启动帖子事件消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后会自动停止
func StartPostEventConsumer(ctx context.Context, brokers []string, topic, groupID string, handler PostEventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka post event consumer stopped")
	}()

	logger.Info("Kafka post event consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var event PostEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal post event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handler(&event); err != nil {
			logger.Error("Failed to handle post event",
				zap.Int64("post_id", event.PostID),
				zap.String("type", event.Type),
				zap.Error(err),
			)
		}
	}
}
