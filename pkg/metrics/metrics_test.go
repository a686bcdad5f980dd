package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 指标是全局的,测试只比较前后差值

func TestCounter(t *testing.T) {
	before := counterValue(t, BorrowingsCreatedTotal)

	IncCounter(BorrowingsCreatedTotal)
	IncCounter(BorrowingsCreatedTotal)

	assert.Equal(t, before+2, counterValue(t, BorrowingsCreatedTotal))
}

func TestCounterVec(t *testing.T) {
	get := map[string]string{"method": "GET", "path": "/api/v1/borrowings", "status": "200"}
	post := map[string]string{"method": "POST", "path": "/api/v1/borrowings", "status": "200"}
	beforeGet := counterValue(t, HTTPRequestsTotal.With(get))
	beforePost := counterValue(t, HTTPRequestsTotal.With(post))

	IncCounterVec(HTTPRequestsTotal, get)
	IncCounterVec(HTTPRequestsTotal, get)
	IncCounterVec(HTTPRequestsTotal, post)

	assert.Equal(t, beforeGet+2, counterValue(t, HTTPRequestsTotal.With(get)))
	assert.Equal(t, beforePost+1, counterValue(t, HTTPRequestsTotal.With(post)))
}

func TestGauge(t *testing.T) {
	before := gaugeValue(t, HTTPRequestsInProgress)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	assert.Equal(t, before+1, gaugeValue(t, HTTPRequestsInProgress))
	DecGauge(HTTPRequestsInProgress)
}

func TestGaugeVec(t *testing.T) {
	labels := map[string]string{"name": "test-breaker"}

	SetGaugeVec(CircuitBreakerState, labels, 1)
	assert.Equal(t, float64(1), gaugeValue(t, CircuitBreakerState.With(labels)))

	SetGaugeVec(CircuitBreakerState, labels, 0)
	assert.Equal(t, float64(0), gaugeValue(t, CircuitBreakerState.With(labels)))
}

func TestHistogram(t *testing.T) {
	beforeCount, beforeSum := histogramValue(t, FineAmount)

	ObserveHistogram(FineAmount, 6)
	ObserveHistogram(FineAmount, 8)

	count, sum := histogramValue(t, FineAmount)
	assert.Equal(t, beforeCount+2, count)
	assert.InDelta(t, beforeSum+14, sum, 1e-9)
}

func TestHistogramVec(t *testing.T) {
	labels := map[string]string{"operation": "create_session"}
	observer := GatewayRequestDuration.With(labels).(prometheus.Histogram)
	beforeCount, _ := histogramValue(t, observer)

	ObserveHistogramVec(GatewayRequestDuration, labels, 0.2)

	count, _ := histogramValue(t, observer)
	assert.Equal(t, beforeCount+1, count)
}

func TestResult(t *testing.T) {
	assert.Equal(t, "success", Result(nil))
	assert.Equal(t, "failure", Result(errors.New("boom")))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func histogramValue(t *testing.T, h prometheus.Histogram) (uint64, float64) {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}
