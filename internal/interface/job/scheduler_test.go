package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/memory"
)

func TestScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()
	var runs int32
	j := Job{Name: "sweep", Interval: time.Minute, Run: func(context.Context, time.Time) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}}

	s := NewScheduler(memory.NewJobLock(), time.Minute)
	assert.True(t, s.RunOnce(ctx, j))
	assert.True(t, s.RunOnce(ctx, j), "普通任务执行完释放锁")
	assert.EqualValues(t, 2, atomic.LoadInt32(&runs))
}

func TestScheduler_SkipsWhenLocked(t *testing.T) {
	ctx := context.Background()
	locker := memory.NewJobLock()
	ok, release, _ := locker.TryLock(ctx, "job:sweep", time.Minute)
	assert.True(t, ok)
	defer release()

	s := NewScheduler(locker, time.Minute)
	ran := s.RunOnce(ctx, Job{Name: "sweep", Run: func(context.Context, time.Time) error {
		t.Fatal("其他实例持有锁时不应执行")
		return nil
	}})
	assert.False(t, ran)
}

func TestScheduler_DailyRunsOncePerDay(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var runs int32
	failNext := true
	j := Job{Name: "reports", Daily: true, Run: func(context.Context, time.Time) error {
		atomic.AddInt32(&runs, 1)
		if failNext {
			failNext = false
			return errors.New("broker down")
		}
		return nil
	}}

	s := NewScheduler(memory.NewJobLock(), time.Minute)
	s.now = func() time.Time { return day }

	assert.True(t, s.RunOnce(ctx, j))  // 失败,释放锁
	assert.True(t, s.RunOnce(ctx, j))  // 重试成功
	assert.False(t, s.RunOnce(ctx, j)) // 当天已发送

	assert.EqualValues(t, 2, atomic.LoadInt32(&runs), "跳过的一次不执行")

	s.now = func() time.Time { return day.AddDate(0, 0, 1) }
	assert.True(t, s.RunOnce(ctx, j))
	assert.EqualValues(t, 3, atomic.LoadInt32(&runs))
}

func TestScheduler_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs int32
	s := NewScheduler(memory.NewJobLock(), time.Minute, Job{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context, time.Time) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	})

	s.Start(ctx)
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Wait()
}
