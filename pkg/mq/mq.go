// Package mq RabbitMQ消息发布
//
// 使用topic类型Exchange,routing key即消息类型(borrowing.created、report.daily等)
// 下游按需绑定队列;投递到Telegram等渠道不在本服务内
package mq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xiebiao/bookrental/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// channel 发布用到的amqp.Channel方法,测试时替换
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher 消息发布者
// amqp.Channel不支持并发发布,Publish内部加锁
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  channel
	exchange string
}

// NewPublisher 连接RabbitMQ并声明持久化的Exchange
func NewPublisher(url, exchange, exchangeType string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	slog.Info("消息发布者已创建", "exchange", exchange, "type", exchangeType)

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// Publish 序列化为JSON并发布持久化消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	labels := map[string]string{"exchange": p.exchange, "routing_key": routingKey}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	p.mu.Unlock()

	if err != nil {
		metrics.IncCounterVec(metrics.MessagesFailedTotal, labels)
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, labels)
	slog.DebugContext(ctx, "消息已发布", "routing_key", routingKey, "size", len(body))
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
