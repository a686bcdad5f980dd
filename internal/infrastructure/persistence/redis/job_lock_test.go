package redis

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// 连不上Redis时释放失败要写日志,不能静默丢弃
func TestJobLock_ReleaseFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	lock := NewJobLock(client)
	lock.releaseFunc(context.Background(), "bookrental:job:sweep", "token")()

	assert.Contains(t, buf.String(), "释放任务锁失败")
	assert.Contains(t, buf.String(), "bookrental:job:sweep")
}
