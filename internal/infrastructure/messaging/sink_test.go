package messaging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookrental/internal/domain/notification"
)

type recordingPublisher struct {
	keys     []string
	messages []interface{}
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, msg interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.messages = append(p.messages, msg)
	return nil
}

func TestRabbitSink_UsesKindAsRoutingKey(t *testing.T) {
	pub := &recordingPublisher{}
	sink := NewRabbitSink(pub)

	msg := notification.NewMessage(notification.KindPaymentSucceeded, "支付成功: 租金 10.00")
	require.NoError(t, sink.Notify(context.Background(), msg))

	assert.Equal(t, []string{"payment.succeeded"}, pub.keys)
	assert.Equal(t, msg, pub.messages[0])
}

func TestRabbitSink_PropagatesError(t *testing.T) {
	sink := NewRabbitSink(&recordingPublisher{err: errors.New("connection closed")})

	err := sink.Notify(context.Background(), notification.NewMessage(notification.KindReportDaily, "日报"))
	assert.Error(t, err)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sink.Notify(context.Background(), notification.NewMessage(notification.KindReportDue, "没有即将到期的借阅")))
	assert.Contains(t, buf.String(), "kind=report.due")
}
