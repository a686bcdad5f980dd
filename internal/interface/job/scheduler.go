// Package job 周期任务调度
// 多实例部署时通过分布式锁保证同一任务同一时刻只有一个实例执行
package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookrental/pkg/metrics"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

// Locker 任务锁
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (bool, func(), error)
}

// Job 周期任务
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, now time.Time) error

	// Daily 每天只成功执行一次:锁名带上日期,成功后不释放,锁过期前其他实例和后续tick都会跳过
	Daily bool
}

// Scheduler 基于time.Ticker的调度器
type Scheduler struct {
	locker  Locker
	lockTTL time.Duration
	jobs    []Job
	now     func() time.Time

	wg sync.WaitGroup
}

// NewScheduler 创建调度器
func NewScheduler(locker Locker, lockTTL time.Duration, jobs ...Job) *Scheduler {
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	return &Scheduler{
		locker:  locker,
		lockTTL: lockTTL,
		jobs:    jobs,
		now:     time.Now,
	}
}

// Start 启动全部任务,ctx取消后停止;启动时立即执行一次
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	slog.Info("定时任务已启动", "jobs", len(s.jobs))
}

// Wait 等待所有任务退出
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		s.RunOnce(ctx, j)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce 抢锁并执行一次任务,返回是否真正执行
func (s *Scheduler) RunOnce(ctx context.Context, j Job) bool {
	now := s.now()
	name, ttl := "job:"+j.Name, s.lockTTL
	if j.Daily {
		name += ":" + now.Format("2006-01-02")
		ttl = 25 * time.Hour
	}

	ok, release, err := s.locker.TryLock(ctx, name, ttl)
	if err != nil {
		slog.WarnContext(ctx, "获取任务锁失败", "job", j.Name, "error", err)
		metrics.IncCounterVec(metrics.JobRunsTotal, map[string]string{"job": j.Name, "result": "lock_error"})
		return false
	}
	if !ok {
		metrics.IncCounterVec(metrics.JobRunsTotal, map[string]string{"job": j.Name, "result": "skipped"})
		return false
	}

	ctx, span := tracing.StartSpan(ctx, "job."+j.Name, attribute.String("job.name", j.Name))
	start := time.Now()
	err = j.Run(ctx, now)
	tracing.End(span, err)

	metrics.ObserveHistogramVec(metrics.JobDuration, map[string]string{"job": j.Name}, time.Since(start).Seconds())
	metrics.IncCounterVec(metrics.JobRunsTotal, map[string]string{"job": j.Name, "result": metrics.Result(err)})

	if err != nil {
		slog.ErrorContext(ctx, "定时任务执行失败", "job", j.Name, "error", err)
		release()
		return true
	}
	if !j.Daily {
		release()
	}
	return true
}
