// Package metrics Prometheus指标
//
// 所有指标在包初始化时注册到默认Registry,由/metrics端点暴露
// 命名约定:Counter以_total结尾,Histogram以单位结尾(_seconds)
// 标签只使用有限取值(method、status、type),不要把user_id之类的字段放进标签
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookrental"

var (
	// HTTP

	// HTTPRequestsTotal 标签:method、path(路由模板)、status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP请求总数",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP请求耗时(秒)",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_progress",
		Help:      "正在处理的HTTP请求数",
	})

	// 借阅

	BorrowingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "borrowings_created_total",
		Help:      "借阅创建成功总数",
	})

	// BorrowingsRejectedTotal 标签:reason(not_available/blocked/gateway/other)
	BorrowingsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "borrowings_rejected_total",
		Help:      "借阅创建失败总数",
	}, []string{"reason"})

	// BorrowingsReturnedTotal 标签:overdue(true/false)
	BorrowingsReturnedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "borrowings_returned_total",
		Help:      "归还总数",
	}, []string{"overdue"})

	// 借阅创建包含网关调用,桶比普通请求大
	BorrowingCreationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "borrowing_creation_duration_seconds",
		Help:      "借阅创建耗时(秒)",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})

	// 支付

	// PaymentsCreatedTotal 标签:type(PAYMENT/FINE)
	PaymentsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_created_total",
		Help:      "支付会话创建总数",
	}, []string{"type"})

	// PaymentsPaidTotal 标签:type
	PaymentsPaidTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_paid_total",
		Help:      "支付确认总数",
	}, []string{"type"})

	PaymentsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_expired_total",
		Help:      "过期的支付会话总数",
	})

	FineAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fine_amount",
		Help:      "逾期罚款金额分布",
		Buckets:   []float64{1, 5, 10, 50, 100, 500},
	})

	// 支付网关

	// GatewayRequestsTotal 标签:operation(create_session/resolve_session)、result(success/failure)
	GatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "支付网关调用总数",
	}, []string{"operation", "result"})

	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "支付网关调用耗时(秒)",
		Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	// 熔断器

	// CircuitBreakerState 0=CLOSED 1=OPEN 2=HALF_OPEN
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "熔断器状态(0=CLOSED, 1=OPEN, 2=HALF_OPEN)",
	}, []string{"name"})

	// CircuitBreakerRequests 标签:name、result(success/failure/rejected)
	CircuitBreakerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_requests_total",
		Help:      "熔断器请求总数",
	}, []string{"name", "result"})

	// 消息队列

	MessagesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_published_total",
		Help:      "消息发布总数",
	}, []string{"exchange", "routing_key"})

	MessagesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_failed_total",
		Help:      "消息发布失败总数",
	}, []string{"exchange", "routing_key"})

	// 定时任务

	// JobRunsTotal 标签:job、result(success/failure/skipped)
	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "定时任务执行总数",
	}, []string{"job", "result"})

	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "定时任务耗时(秒)",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 30},
	}, []string{"job"})
)

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// Result 把成功与否转换为result标签
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
