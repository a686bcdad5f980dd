package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/bookrental/internal/domain/notification"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/pkg/metrics"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

// ConfirmPaymentUseCase 网关回跳后确认付款
// 只有网关确认付款成功才会标记为PAID;已过期的会话只要网关确认已付款同样接受
type ConfirmPaymentUseCase struct {
	payments payment.Repository
	gateway  payment.Gateway
	notifier notification.Sink
	now      func() time.Time
}

// NewConfirmPaymentUseCase 创建确认付款用例
func NewConfirmPaymentUseCase(payments payment.Repository, gateway payment.Gateway, notifier notification.Sink) *ConfirmPaymentUseCase {
	return &ConfirmPaymentUseCase{
		payments: payments,
		gateway:  gateway,
		notifier: notifier,
		now:      time.Now,
	}
}

// Execute 确认付款
func (uc *ConfirmPaymentUseCase) Execute(ctx context.Context, sessionID string) (_ *PaymentDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, "payment.confirm")
	defer func() { tracing.End(span, err) }()

	p, err := uc.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if p.Status == payment.StatusPaid {
		return nil, payment.ErrAlreadyPaid
	}

	status, err := uc.gateway.ResolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if status != payment.IntentSucceeded {
		slog.InfoContext(ctx, "网关未确认付款", "session_id", sessionID, "intent", status.String())
		return nil, payment.ErrNotCompleted
	}

	// 条件更新:并发回调或与过期任务竞争时只有一方能成功
	if err := uc.payments.MarkPaid(ctx, sessionID, uc.now()); err != nil {
		return nil, err
	}

	paid, err := uc.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.PaymentsPaidTotal, map[string]string{"type": string(paid.Type)})
	slog.InfoContext(ctx, "支付成功", "payment_id", paid.ID, "type", paid.Type, "amount", paid.MoneyToPay.StringFixed(2))

	msg := notification.NewMessage(notification.KindPaymentSucceeded,
		fmt.Sprintf("支付成功: %s %s (借阅#%d)", typeLabel(paid.Type), paid.MoneyToPay.StringFixed(2), paid.BorrowingID))
	if err := uc.notifier.Notify(ctx, msg); err != nil {
		slog.WarnContext(ctx, "发送支付成功通知失败", "payment_id", paid.ID, "error", err)
	}

	dto := ToDTO(paid)
	return &dto, nil
}

func typeLabel(t payment.Type) string {
	if t == payment.TypeFine {
		return "罚款"
	}
	return "租金"
}
