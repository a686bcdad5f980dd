package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/pkg/circuitbreaker"
	"github.com/xiebiao/bookrental/pkg/metrics"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

// Protected 给网关加上超时、熔断、指标和链路追踪
// 不做重试:失败直接返回给调用方,由调用方回滚事务
type Protected struct {
	next    payment.Gateway
	cb      *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

var _ payment.Gateway = (*Protected)(nil)

// NewProtected 包装网关
func NewProtected(next payment.Gateway, cb *circuitbreaker.CircuitBreaker, timeout time.Duration) *Protected {
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		slog.Warn("支付网关熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})
	return &Protected{next: next, cb: cb, timeout: timeout}
}

// NewBreaker 网关熔断器,会话不存在属于业务结果,不计入失败
func NewBreaker(name string, maxRequests, maxFailures uint32, interval, timeout time.Duration) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(maxFailures),
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, payment.ErrSessionNotFound)
		},
	})
}

func (p *Protected) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	var session *payment.Session
	err := p.do(ctx, "create_session", func(ctx context.Context) error {
		var err error
		session, err = p.next.CreateSession(ctx, req)
		return err
	}, attribute.String("payment.reference", req.Reference), attribute.String("payment.amount", req.Amount.StringFixed(2)))
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (p *Protected) ResolveSession(ctx context.Context, sessionID string) (payment.IntentStatus, error) {
	status := payment.IntentPending
	err := p.do(ctx, "resolve_session", func(ctx context.Context) error {
		var err error
		status, err = p.next.ResolveSession(ctx, sessionID)
		return err
	}, attribute.String("payment.session_id", sessionID))
	return status, err
}

func (p *Protected) do(ctx context.Context, operation string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) (err error) {
	ctx, span := tracing.StartSpan(ctx, "gateway."+operation, attrs...)
	defer func() { tracing.End(span, err) }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	breakerLabels := map[string]string{"name": p.cb.Name()}

	err = p.cb.Execute(func() error { return fn(ctx) })

	if errors.Is(err, circuitbreaker.ErrOpenState) {
		breakerLabels["result"] = "rejected"
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, breakerLabels)
		return payment.ErrGatewayFailure.WithCause(err)
	}

	breakerLabels["result"] = metrics.Result(err)
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, breakerLabels)
	metrics.IncCounterVec(metrics.GatewayRequestsTotal, map[string]string{"operation": operation, "result": metrics.Result(err)})
	metrics.ObserveHistogramVec(metrics.GatewayRequestDuration, map[string]string{"operation": operation}, time.Since(start).Seconds())

	if err != nil {
		slog.WarnContext(ctx, "支付网关调用失败", "operation", operation, "error", err)
		if !errors.Is(err, payment.ErrSessionNotFound) && !errors.Is(err, payment.ErrGatewayFailure) && !errors.Is(err, payment.ErrInvalidSession) {
			err = payment.ErrGatewayFailure.WithCause(err)
		}
	}
	return err
}
