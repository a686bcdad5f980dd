// Package gateway 支付网关适配器
// Midtrans Snap托管收银台(生产/沙箱)与本地开发用的模拟网关,外层由熔断器保护
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/xiebiao/bookrental/internal/domain/payment"
)

// snapAPI snap.Client中用到的方法
type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// statusAPI coreapi.Client中用到的方法
type statusAPI interface {
	CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// Midtrans Snap收银台
// Reference作为order_id,同时也是本地保存的SessionID;查询状态时用它调用Core API
type Midtrans struct {
	snap   snapAPI
	status statusAPI
}

var _ payment.Gateway = (*Midtrans)(nil)

// NewMidtrans 创建Midtrans网关
func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(serverKey, env)

	var c coreapi.Client
	c.New(serverKey, env)

	return &Midtrans{snap: &s, status: &c}
}

// CreateSession 创建Snap交易
// gross_amount单位是印尼盾,没有辅币,与账本金额一一对应;带小数的金额直接拒绝,不做取整
func (m *Midtrans) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	if !req.Amount.IsInteger() {
		return nil, payment.ErrFractionalAmount.WithCause(fmt.Errorf("amount=%s", req.Amount.StringFixed(2)))
	}
	amount := req.Amount.IntPart()

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.Reference,
			GrossAmt: amount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.Reference,
				Name:  truncate(req.Title, 50),
				Price: amount,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: withSessionID(req.SuccessURL, req.Reference),
		},
	}

	resp, err := call(ctx, func() (*snap.Response, *midtrans.Error) {
		return m.snap.CreateTransaction(snapReq)
	})
	if err != nil {
		return nil, payment.ErrGatewayFailure.WithCause(err)
	}
	if resp == nil || resp.RedirectURL == "" {
		return nil, payment.ErrInvalidSession
	}

	return &payment.Session{
		ID:  req.Reference,
		URL: resp.RedirectURL,
	}, nil
}

// ResolveSession 通过Core API查询交易状态
func (m *Midtrans) ResolveSession(ctx context.Context, sessionID string) (payment.IntentStatus, error) {
	resp, err := call(ctx, func() (*coreapi.TransactionStatusResponse, *midtrans.Error) {
		return m.status.CheckTransaction(sessionID)
	})
	if err != nil {
		var merr *midtrans.Error
		if errors.As(err, &merr) && merr.StatusCode == http.StatusNotFound {
			return payment.IntentPending, payment.ErrSessionNotFound.WithCause(err)
		}
		return payment.IntentPending, payment.ErrGatewayFailure.WithCause(err)
	}
	if resp.StatusCode == "404" {
		return payment.IntentPending, payment.ErrSessionNotFound
	}

	return MapStatus(resp.TransactionStatus, resp.FraudStatus), nil
}

// MapStatus Midtrans交易状态映射
//
//	settlement / capture(fraud=accept) -> 成功
//	pending / capture(fraud=challenge)  -> 处理中
//	expire                              -> 已过期
//	deny / cancel / failure / 退款等     -> 失败
func MapStatus(transactionStatus, fraudStatus string) payment.IntentStatus {
	switch strings.ToLower(transactionStatus) {
	case "settlement":
		return payment.IntentSucceeded
	case "capture":
		if fraudStatus == "" || strings.EqualFold(fraudStatus, "accept") {
			return payment.IntentSucceeded
		}
		if strings.EqualFold(fraudStatus, "challenge") {
			return payment.IntentPending
		}
		return payment.IntentFailed
	case "pending", "authorize":
		return payment.IntentPending
	case "expire":
		return payment.IntentExpired
	default:
		return payment.IntentFailed
	}
}

type result[T any] struct {
	val T
	err *midtrans.Error
}

// call SDK不支持context,放到goroutine里执行,ctx取消时直接返回
//
// 返回后SDK请求仍在后台跑完:CreateTransaction超时时Midtrans侧可能已经建好交易,
// 而本地事务已回滚。这种孤儿会话没有对应的支付记录,回跳时FindBySessionID找不到,
// 永远不会被标记为PAID;用户在Snap页面付款的话需要人工在Midtrans后台退款。
func call[T any](ctx context.Context, fn func() (T, *midtrans.Error)) (T, error) {
	ch := make(chan result[T], 1)
	go func() {
		v, err := fn()
		ch <- result[T]{val: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return r.val, r.err
		}
		return r.val, nil
	}
}

// withSessionID 在回跳地址上附加session_id参数
func withSessionID(rawURL, sessionID string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
