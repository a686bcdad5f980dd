package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/pkg/metrics"
)

// SweepExpiredUseCase 把超过有效期仍未支付的会话标记为EXPIRED
// 由定时任务调用,不在请求路径上执行
type SweepExpiredUseCase struct {
	payments payment.Repository
}

// NewSweepExpiredUseCase 创建过期扫描用例
func NewSweepExpiredUseCase(payments payment.Repository) *SweepExpiredUseCase {
	return &SweepExpiredUseCase{payments: payments}
}

// Execute 返回本次标记的条数
func (uc *SweepExpiredUseCase) Execute(ctx context.Context, now time.Time) (int64, error) {
	n, err := uc.payments.ExpireStale(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.PaymentsExpiredTotal.Add(float64(n))
		slog.InfoContext(ctx, "支付会话已过期", "count", n)
	}
	return n, nil
}
