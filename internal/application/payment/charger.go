package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/pkg/metrics"
)

// CallbackURLs 网关回跳地址
type CallbackURLs struct {
	Success string
	Cancel  string
}

// Charger 为借阅开启网关支付会话并记录待支付的支付记录
// 在事务ctx中调用时,支付记录随事务一起提交或回滚
type Charger struct {
	gateway  payment.Gateway
	payments payment.Repository
	urls     CallbackURLs
	now      func() time.Time
}

// NewCharger 创建Charger
func NewCharger(gateway payment.Gateway, payments payment.Repository, urls CallbackURLs) *Charger {
	return &Charger{
		gateway:  gateway,
		payments: payments,
		urls:     urls,
		now:      time.Now,
	}
}

// Open 创建会话并保存PENDING支付
// 金额为0时同样向网关申请会话(当天借当天还)
func (c *Charger) Open(ctx context.Context, borrowingID uint, title string, typ payment.Type, amount decimal.Decimal) (*payment.Payment, error) {
	if amount.IsNegative() {
		return nil, payment.ErrInvalidAmount
	}

	session, err := c.gateway.CreateSession(ctx, payment.SessionRequest{
		Reference:  payment.GenerateReference(borrowingID, typ),
		Title:      sessionTitle(title, typ),
		Amount:     amount.Round(2),
		SuccessURL: c.urls.Success,
		CancelURL:  c.urls.Cancel,
	})
	if err != nil {
		return nil, err
	}

	p, err := payment.NewPayment(borrowingID, typ, amount, session, c.now())
	if err != nil {
		return nil, err
	}
	if err := c.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.IncCounterVec(metrics.PaymentsCreatedTotal, map[string]string{"type": string(typ)})
	return p, nil
}

func sessionTitle(title string, typ payment.Type) string {
	if typ == payment.TypeFine {
		return fmt.Sprintf("逾期罚款《%s》", title)
	}
	return fmt.Sprintf("借阅《%s》", title)
}
