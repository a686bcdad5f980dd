package gateway

import (
	"fmt"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/infrastructure/config"
)

// New 按配置创建网关,统一包上熔断器
// 使用模拟网关时同时返回*Mock,供 /mock-checkout 页面调用
func New(cfg *config.Config) (payment.Gateway, *Mock, error) {
	var (
		next payment.Gateway
		mock *Mock
	)

	switch cfg.Payment.Provider {
	case "midtrans":
		next = NewMidtrans(cfg.Payment.ServerKey, cfg.Payment.Production)
	case "mock":
		mock = NewMock(cfg.Payment.MockCheckoutURL)
		next = mock
	default:
		return nil, nil, fmt.Errorf("不支持的支付网关: %s", cfg.Payment.Provider)
	}

	cb := NewBreaker("payment-gateway-"+cfg.Payment.Provider,
		cfg.Breaker.MaxRequests,
		cfg.Breaker.MaxFailures,
		cfg.Breaker.Interval,
		cfg.Breaker.Timeout,
	)
	return NewProtected(next, cb, cfg.Payment.Timeout), mock, nil
}
