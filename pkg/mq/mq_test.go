package mq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: "bookrental.events"}

	msg := map[string]string{"kind": "borrowing.created", "text": "alice@example.com 借阅了《Dune》"}
	require.NoError(t, p.Publish(context.Background(), "borrowing.created", msg))

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "bookrental.events", got.exchange)
	assert.Equal(t, "borrowing.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.JSONEq(t, `{"kind":"borrowing.created","text":"alice@example.com 借阅了《Dune》"}`, string(got.msg.Body))
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "bookrental.events"}

	err := p.Publish(context.Background(), "report.daily", map[string]int{"count": 1})
	assert.ErrorContains(t, err, "channel closed")
}

func TestPublisher_MarshalError(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{}, exchange: "bookrental.events"}

	err := p.Publish(context.Background(), "report.daily", make(chan int))
	assert.ErrorContains(t, err, "消息序列化失败")
}
