// Package messaging 通知出口的实现
package messaging

import (
	"context"
	"log/slog"

	"github.com/xiebiao/bookrental/internal/domain/notification"
)

// Publisher 消息发布(pkg/mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// RabbitSink 把通知发布到RabbitMQ,routing key为通知类型
type RabbitSink struct {
	publisher Publisher
}

var _ notification.Sink = (*RabbitSink)(nil)

// NewRabbitSink 创建RabbitMQ通知出口
func NewRabbitSink(publisher Publisher) *RabbitSink {
	return &RabbitSink{publisher: publisher}
}

func (s *RabbitSink) Notify(ctx context.Context, msg notification.Message) error {
	return s.publisher.Publish(ctx, string(msg.Kind), msg)
}

// LogSink 未启用RabbitMQ时只写日志
type LogSink struct {
	log *slog.Logger
}

var _ notification.Sink = (*LogSink)(nil)

// NewLogSink 创建日志通知出口
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(ctx context.Context, msg notification.Message) error {
	s.log.InfoContext(ctx, "通知", "kind", msg.Kind, "text", msg.Text)
	return nil
}
