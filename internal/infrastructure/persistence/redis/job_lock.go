package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// releaseScript 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JobLock 基于SET NX的分布式锁
// 多副本部署时保证同一个定时任务同一时刻只有一个实例在执行
type JobLock struct {
	client *redis.Client
}

// NewJobLock 创建任务锁
func NewJobLock(client *redis.Client) *JobLock {
	return &JobLock{client: client}
}

// TryLock 尝试获取锁,获取失败时返回false
// 返回的release函数用于提前释放;不调用时锁在ttl后自动过期
func (l *JobLock) TryLock(ctx context.Context, name string, ttl time.Duration) (bool, func(), error) {
	key := "bookrental:job:" + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, nil, apperrors.ErrRedisError.WithCause(err)
	}
	if !ok {
		return false, nil, nil
	}

	return true, l.releaseFunc(ctx, key, token), nil
}

// releaseFunc 释放失败只记日志,锁在ttl后自然过期
func (l *JobLock) releaseFunc(ctx context.Context, key, token string) func() {
	return func() {
		err := releaseScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, token).Err()
		if err != nil {
			slog.WarnContext(ctx, "释放任务锁失败", "key", key, "error", err)
		}
	}
}
