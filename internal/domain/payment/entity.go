package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionTTL 支付会话有效期,超过后由定时任务标记为EXPIRED
const SessionTTL = 24 * time.Hour

// Status 支付状态
type Status string

const (
	StatusPending Status = "PENDING" // 待支付
	StatusPaid    Status = "PAID"    // 已支付(终态)
	StatusExpired Status = "EXPIRED" // 会话已过期,未支付
)

// String 日志输出用
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "待支付"
	case StatusPaid:
		return "已支付"
	case StatusExpired:
		return "已过期"
	default:
		return "未知状态"
	}
}

// IsOutstanding 待支付和已过期都视为未结清,会阻止用户发起新的借阅
func (s Status) IsOutstanding() bool {
	return s == StatusPending || s == StatusExpired
}

// Type 支付类型
type Type string

const (
	TypePayment Type = "PAYMENT" // 借阅租金
	TypeFine    Type = "FINE"    // 逾期罚款
)

// Payment 支付记录(聚合根)
// 每条记录对应网关上的一个支付会话(SessionID)
type Payment struct {
	ID            uint
	BorrowingID   uint
	Type          Type
	Status        Status
	MoneyToPay    decimal.Decimal
	SessionURL    string
	SessionID     string
	SessionExpiry time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayment 根据网关返回的会话创建待支付记录
func NewPayment(borrowingID uint, typ Type, amount decimal.Decimal, session *Session, now time.Time) (*Payment, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if session == nil || session.ID == "" {
		return nil, ErrInvalidSession
	}

	return &Payment{
		BorrowingID:   borrowingID,
		Type:          typ,
		Status:        StatusPending,
		MoneyToPay:    amount.Round(2),
		SessionURL:    session.URL,
		SessionID:     session.ID,
		SessionExpiry: now.Add(SessionTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// transitions 合法的状态流转
// EXPIRED→PAID 只在网关确认已付款时发生(付款优先于过期)
var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusExpired},
	StatusExpired: {StatusPaid},
	StatusPaid:    {},
}

// CanTransitionTo 检查是否可以转换到目标状态
func (p *Payment) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[p.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (p *Payment) TransitionTo(target Status, now time.Time) error {
	if !p.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	p.Status = target
	p.UpdatedAt = now
	return nil
}

// MarkPaid 网关确认付款
func (p *Payment) MarkPaid(now time.Time) error {
	if p.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	if err := p.TransitionTo(StatusPaid, now); err != nil {
		return err
	}
	p.PaidAt = &now
	return nil
}

// IsSessionExpired 会话是否已超过有效期
func (p *Payment) IsSessionExpired(now time.Time) bool {
	return p.SessionExpiry.Before(now)
}

// Expire 过期处理,只有待支付且已超过有效期的记录才会被标记
func (p *Payment) Expire(now time.Time) error {
	if p.Status != StatusPending || !p.IsSessionExpired(now) {
		return ErrInvalidStatusTransition
	}
	return p.TransitionTo(StatusExpired, now)
}
