package gateway

import (
	"context"
	"sync"

	"github.com/xiebiao/bookrental/internal/domain/payment"
)

// Mock 本地开发用的模拟网关
// 收银台页面由 /mock-checkout 提供,访问后调用Complete把会话标记为已付款
type Mock struct {
	checkoutURL string

	mu       sync.Mutex
	sessions map[string]*mockSession
}

type mockSession struct {
	req    payment.SessionRequest
	status payment.IntentStatus
}

var _ payment.Gateway = (*Mock)(nil)

// NewMock 创建模拟网关
func NewMock(checkoutURL string) *Mock {
	return &Mock{
		checkoutURL: checkoutURL,
		sessions:    make(map[string]*mockSession),
	}
}

func (m *Mock) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[req.Reference] = &mockSession{req: req, status: payment.IntentPending}
	return &payment.Session{
		ID:  req.Reference,
		URL: withSessionID(m.checkoutURL, req.Reference),
	}, nil
}

func (m *Mock) ResolveSession(_ context.Context, sessionID string) (payment.IntentStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return payment.IntentPending, payment.ErrSessionNotFound
	}
	return s.status, nil
}

// Complete 模拟用户付款成功,返回应回跳的地址
func (m *Mock) Complete(sessionID string) (string, error) {
	return m.settle(sessionID, payment.IntentSucceeded)
}

// Cancel 模拟用户放弃付款,会话保持待支付
func (m *Mock) Cancel(sessionID string) (string, error) {
	return m.settle(sessionID, payment.IntentPending)
}

func (m *Mock) settle(sessionID string, status payment.IntentStatus) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return "", payment.ErrSessionNotFound
	}
	s.status = status
	if status == payment.IntentSucceeded {
		return withSessionID(s.req.SuccessURL, sessionID), nil
	}
	return withSessionID(s.req.CancelURL, sessionID), nil
}
