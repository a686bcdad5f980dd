package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// SessionRequest 创建托管支付会话的参数
type SessionRequest struct {
	Reference  string          // 商户侧唯一单号,同时作为会话ID
	Title      string          // 展示给用户的商品名(书名)
	Amount     decimal.Decimal // 金额(两位小数)
	SuccessURL string          // 支付成功回跳地址
	CancelURL  string          // 取消支付回跳地址
}

// Session 网关返回的支付会话,过期时间固定为创建后SessionTTL
type Session struct {
	ID  string
	URL string
}

// IntentStatus 网关侧的付款状态
type IntentStatus int

const (
	IntentPending IntentStatus = iota
	IntentSucceeded
	IntentFailed
	IntentExpired
)

func (s IntentStatus) String() string {
	switch s {
	case IntentPending:
		return "pending"
	case IntentSucceeded:
		return "succeeded"
	case IntentFailed:
		return "failed"
	case IntentExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Gateway 支付网关适配器
// 任何错误都按可恢复错误处理,由调用方决定回滚;适配器内部不做重试
type Gateway interface {
	// CreateSession 创建托管支付会话
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)

	// ResolveSession 查询会话的付款状态
	ResolveSession(ctx context.Context, sessionID string) (IntentStatus, error)
}
