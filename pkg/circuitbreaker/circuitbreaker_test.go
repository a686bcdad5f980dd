package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errGateway = errors.New("gateway unavailable")

func newTestBreaker(clock *fakeClock, trip uint32) *CircuitBreaker {
	return NewCircuitBreaker("midtrans", Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: ConsecutiveFailures(trip),
		Now:         clock.Now,
	})
}

func fail() error    { return errGateway }
func succeed() error { return nil }

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := newTestBreaker(&fakeClock{now: time.Now()}, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(succeed))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.EqualValues(t, 10, cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(&fakeClock{now: time.Now()}, 3)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errGateway)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断中不应该调用网关")
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock, 2)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock, 1)

	_ = cb.Execute(fail)
	clock.Advance(31 * time.Second)

	assert.ErrorIs(t, cb.Execute(fail), errGateway)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock, 1)

	_ = cb.Execute(fail)
	clock.Advance(31 * time.Second)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(func() error {
			<-release
			return nil
		})
	}()

	// 第一个探测请求还没结束时,第二个请求被拒绝
	assert.Eventually(t, func() bool { return cb.Counts().Requests == 1 }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, cb.Execute(succeed), ErrOpenState)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_WindowResetsCounts(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock, 3)

	_ = cb.Execute(fail)
	_ = cb.Execute(fail)
	clock.Advance(2 * time.Minute)
	_ = cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.EqualValues(t, 1, cb.Counts().ConsecutiveFailures)
}

func TestCircuitBreaker_IsSuccessfulIgnoresBusinessErrors(t *testing.T) {
	errNotFound := errors.New("session not found")
	cb := NewCircuitBreaker("midtrans", Config{
		ReadyToTrip:  ConsecutiveFailures(1),
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errNotFound) },
	})

	assert.ErrorIs(t, cb.Execute(func() error { return errNotFound }), errNotFound)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newTestBreaker(clock, 1)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, name+":"+from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	clock.Advance(31 * time.Second)
	_ = cb.Execute(succeed)

	assert.Equal(t, []string{
		"midtrans:CLOSED->OPEN",
		"midtrans:OPEN->HALF_OPEN",
		"midtrans:HALF_OPEN->CLOSED",
	}, transitions)
}
