package gateway

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookrental/internal/domain/payment"
)

type fakeSnap struct {
	got  *snap.Request
	resp *snap.Response
	err  *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.got = req
	return f.resp, f.err
}

type fakeStatus struct {
	resp *coreapi.TransactionStatusResponse
	err  *midtrans.Error
}

func (f *fakeStatus) CheckTransaction(string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	return f.resp, f.err
}

func sessionRequest() payment.SessionRequest {
	return payment.SessionRequest{
		Reference:  "P-7-abcdef123456",
		Title:      "Dune",
		Amount:     decimal.RequireFromString("25000.00"),
		SuccessURL: "http://localhost:8080/api/v1/payments/success",
		CancelURL:  "http://localhost:8080/api/v1/payments/cancel",
	}
}

func TestMidtrans_CreateSession(t *testing.T) {
	s := &fakeSnap{resp: &snap.Response{Token: "tok", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok"}}
	m := &Midtrans{snap: s, status: &fakeStatus{}}

	session, err := m.CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)

	assert.Equal(t, "P-7-abcdef123456", session.ID)
	assert.Equal(t, "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok", session.URL)

	require.NotNil(t, s.got)
	assert.Equal(t, "P-7-abcdef123456", s.got.TransactionDetails.OrderID)
	// 金额原样传给网关,与账本的money_to_pay一致
	assert.EqualValues(t, 25000, s.got.TransactionDetails.GrossAmt)
	require.NotNil(t, s.got.Items)
	assert.EqualValues(t, 25000, (*s.got.Items)[0].Price)

	finish, err := url.Parse(s.got.Callbacks.Finish)
	require.NoError(t, err)
	assert.Equal(t, "P-7-abcdef123456", finish.Query().Get("session_id"))
}

func TestMidtrans_CreateSessionAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
		err    error
	}{
		{name: "整数金额", amount: "10.00", want: 10},
		{name: "零金额", amount: "0", want: 0},
		{name: "带小数拒绝", amount: "10.50", err: payment.ErrFractionalAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSnap{resp: &snap.Response{RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok"}}
			m := &Midtrans{snap: s, status: &fakeStatus{}}

			req := sessionRequest()
			req.Amount = decimal.RequireFromString(tt.amount)
			_, err := m.CreateSession(context.Background(), req)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, s.got, "拒绝的金额不应请求网关")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.got.TransactionDetails.GrossAmt)
			assert.Equal(t, tt.want, (*s.got.Items)[0].Price)
		})
	}
}

func TestMidtrans_CreateSessionFailure(t *testing.T) {
	m := &Midtrans{snap: &fakeSnap{err: &midtrans.Error{Message: "unauthorized", StatusCode: 401}}, status: &fakeStatus{}}

	_, err := m.CreateSession(context.Background(), sessionRequest())
	assert.ErrorIs(t, err, payment.ErrGatewayFailure)
}

type blockingSnap struct {
	release chan struct{}
}

func (b *blockingSnap) CreateTransaction(*snap.Request) (*snap.Response, *midtrans.Error) {
	<-b.release
	return &snap.Response{RedirectURL: "https://late"}, nil
}

func TestMidtrans_CreateSessionTimeout(t *testing.T) {
	s := &blockingSnap{release: make(chan struct{})}
	defer close(s.release)
	m := &Midtrans{snap: s, status: &fakeStatus{}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// 超时立即返回,SDK请求留在后台
	_, err := m.CreateSession(ctx, sessionRequest())
	assert.ErrorIs(t, err, payment.ErrGatewayFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMidtrans_ResolveSession(t *testing.T) {
	t.Run("已结算", func(t *testing.T) {
		m := &Midtrans{snap: &fakeSnap{}, status: &fakeStatus{resp: &coreapi.TransactionStatusResponse{
			StatusCode: "200", TransactionStatus: "settlement",
		}}}
		status, err := m.ResolveSession(context.Background(), "P-7-abc")
		require.NoError(t, err)
		assert.Equal(t, payment.IntentSucceeded, status)
	})

	t.Run("会话不存在", func(t *testing.T) {
		m := &Midtrans{snap: &fakeSnap{}, status: &fakeStatus{err: &midtrans.Error{Message: "not found", StatusCode: 404}}}
		_, err := m.ResolveSession(context.Background(), "missing")
		assert.ErrorIs(t, err, payment.ErrSessionNotFound)
	})

	t.Run("网关错误", func(t *testing.T) {
		m := &Midtrans{snap: &fakeSnap{}, status: &fakeStatus{err: &midtrans.Error{Message: "boom", StatusCode: 500}}}
		_, err := m.ResolveSession(context.Background(), "P-7-abc")
		assert.ErrorIs(t, err, payment.ErrGatewayFailure)
	})
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		status, fraud string
		want          payment.IntentStatus
	}{
		{"settlement", "", payment.IntentSucceeded},
		{"capture", "accept", payment.IntentSucceeded},
		{"capture", "challenge", payment.IntentPending},
		{"capture", "deny", payment.IntentFailed},
		{"pending", "", payment.IntentPending},
		{"expire", "", payment.IntentExpired},
		{"deny", "", payment.IntentFailed},
		{"cancel", "", payment.IntentFailed},
		{"failure", "", payment.IntentFailed},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatus(tt.status, tt.fraud))
		})
	}
}

func TestMock_Flow(t *testing.T) {
	m := NewMock("http://localhost:8080/mock-checkout")
	ctx := context.Background()

	session, err := m.CreateSession(ctx, sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/mock-checkout?session_id=P-7-abcdef123456", session.URL)

	status, err := m.ResolveSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.IntentPending, status)

	redirect, err := m.Complete(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1/payments/success?session_id=P-7-abcdef123456", redirect)

	status, err = m.ResolveSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.IntentSucceeded, status)

	_, err = m.ResolveSession(ctx, "missing")
	assert.ErrorIs(t, err, payment.ErrSessionNotFound)
}

type failingGateway struct {
	calls int
	err   error
}

func (g *failingGateway) CreateSession(context.Context, payment.SessionRequest) (*payment.Session, error) {
	g.calls++
	return nil, g.err
}

func (g *failingGateway) ResolveSession(context.Context, string) (payment.IntentStatus, error) {
	g.calls++
	return payment.IntentPending, g.err
}

func TestProtected_TripsAfterFailures(t *testing.T) {
	next := &failingGateway{err: errors.New("connection refused")}
	p := NewProtected(next, NewBreaker("test-trip", 1, 2, time.Minute, time.Minute), time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := p.CreateSession(ctx, sessionRequest())
		assert.ErrorIs(t, err, payment.ErrGatewayFailure)
	}

	_, err := p.CreateSession(ctx, sessionRequest())
	assert.ErrorIs(t, err, payment.ErrGatewayFailure)
	assert.Equal(t, 2, next.calls, "熔断后不应再调用网关")
}

func TestProtected_SessionNotFoundDoesNotTrip(t *testing.T) {
	next := &failingGateway{err: payment.ErrSessionNotFound}
	p := NewProtected(next, NewBreaker("test-not-found", 1, 1, time.Minute, time.Minute), time.Second)

	for i := 0; i < 3; i++ {
		_, err := p.ResolveSession(context.Background(), "missing")
		assert.ErrorIs(t, err, payment.ErrSessionNotFound)
	}
	assert.Equal(t, 3, next.calls)
}

func TestProtected_PassesThrough(t *testing.T) {
	mock := NewMock("http://localhost/mock-checkout")
	p := NewProtected(mock, NewBreaker("test-pass", 1, 5, time.Minute, time.Minute), time.Second)

	session, err := p.CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)
	status, err := p.ResolveSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.IntentPending, status)
}
