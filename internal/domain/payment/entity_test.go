package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newPending(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(7, TypePayment, decimal.RequireFromString("10.00"),
		&Session{ID: "P-7-abc", URL: "https://pay.example/P-7-abc"}, now)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	p := newPending(t)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, now.Add(24*time.Hour), p.SessionExpiry, "有效期固定为创建后24小时")
	assert.Equal(t, "10.00", p.MoneyToPay.StringFixed(2))

	_, err := NewPayment(7, TypeFine, decimal.NewFromInt(-1), &Session{ID: "x"}, now)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewPayment(7, TypeFine, decimal.NewFromInt(1), nil, now)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestPayment_StateMachine(t *testing.T) {
	t.Run("待支付到已支付", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkPaid(now))
		assert.Equal(t, StatusPaid, p.Status)
		require.NotNil(t, p.PaidAt)
		assert.ErrorIs(t, p.MarkPaid(now), ErrAlreadyPaid)
	})

	t.Run("未到期不能过期", func(t *testing.T) {
		p := newPending(t)
		assert.ErrorIs(t, p.Expire(now.Add(time.Hour)), ErrInvalidStatusTransition)
		assert.Equal(t, StatusPending, p.Status)
	})

	t.Run("过期后网关确认付款仍然生效", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.Expire(now.Add(25*time.Hour)))
		assert.Equal(t, StatusExpired, p.Status)
		assert.True(t, p.Status.IsOutstanding())

		require.NoError(t, p.MarkPaid(now.Add(26*time.Hour)))
		assert.Equal(t, StatusPaid, p.Status)
		assert.False(t, p.Status.IsOutstanding())
	})

	t.Run("已支付不会过期", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkPaid(now))
		assert.ErrorIs(t, p.Expire(now.Add(48*time.Hour)), ErrInvalidStatusTransition)
		assert.Equal(t, StatusPaid, p.Status)
	})
}

func TestGenerateReference(t *testing.T) {
	a := GenerateReference(42, TypePayment)
	b := GenerateReference(42, TypeFine)

	assert.Regexp(t, `^P-42-[0-9a-f]{12}$`, a)
	assert.Regexp(t, `^F-42-[0-9a-f]{12}$`, b)
	assert.LessOrEqual(t, len(a), 50)
}
