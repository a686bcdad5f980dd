package job

import (
	"context"
	"time"

	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/application/report"
)

// SweepJob 过期支付会话扫描
func SweepJob(uc *apppayment.SweepExpiredUseCase, interval time.Duration) Job {
	return Job{
		Name:     "sweep_expired_payments",
		Interval: interval,
		Run: func(ctx context.Context, now time.Time) error {
			_, err := uc.Execute(ctx, now)
			return err
		},
	}
}

// ReportJob 日报/月报/到期提醒,每天发送一次
func ReportJob(uc *report.SendReportsUseCase, interval time.Duration) Job {
	return Job{
		Name:     "reports",
		Interval: interval,
		Daily:    true,
		Run:      uc.Execute,
	}
}
