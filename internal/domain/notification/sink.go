// Package notification 通知出口(RabbitMQ / 日志)
package notification

import (
	"context"
	"time"
)

// Kind 通知类型,同时作为消息的routing key
type Kind string

const (
	KindBorrowingCreated Kind = "borrowing.created"
	KindPaymentSucceeded Kind = "payment.succeeded"
	KindReportDaily      Kind = "report.daily"
	KindReportMonthly    Kind = "report.monthly"
	KindReportDue        Kind = "report.due"
)

// Message 纯文本通知
type Message struct {
	Kind       Kind      `json:"kind"`
	Text       string    `json:"text"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMessage 创建通知
func NewMessage(kind Kind, text string) Message {
	return Message{
		Kind:       kind,
		Text:       text,
		OccurredAt: time.Now(),
	}
}

// Sink 通知发送接口
type Sink interface {
	Notify(ctx context.Context, msg Message) error
}
