package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookrental/internal/infrastructure/config"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

// NewClient 创建Redis客户端,启动时Ping一次,连不上直接失败
func NewClient(cfg *config.Config) (*redis.Client, error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		ClientName:   "bookrental",
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})
	client.AddHook(tracingHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败(%s): %w", rc.Addr(), err)
	}

	slog.Info("Redis连接成功", "addr", rc.Addr(), "db", rc.DB)
	return client, nil
}

// tracingHook 每条命令一个Span,会话校验和任务锁的耗时能在链路里看到
type tracingHook struct{}

func (tracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (tracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := tracing.StartSpan(ctx, "redis."+cmd.Name(),
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", cmd.Name()),
		)
		err := next(ctx, cmd)
		if errors.Is(err, redis.Nil) {
			tracing.End(span, nil)
		} else {
			tracing.End(span, err)
		}
		return err
	}
}

func (tracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := tracing.StartSpan(ctx, "redis.pipeline",
			attribute.String("db.system", "redis"),
			attribute.Int("db.redis.num_cmd", len(cmds)),
		)
		err := next(ctx, cmds)
		tracing.End(span, err)
		return err
	}
}
