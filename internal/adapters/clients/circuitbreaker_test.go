package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trippedBreaker returns an open breaker whose timeout has already elapsed.
func trippedBreaker(t *testing.T, halfOpenLimit int) *CircuitBreaker {
	t.Helper()

	now := time.Now()

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   1,
		Timeout:       time.Minute,
		HalfOpenLimit: halfOpenLimit,
	})
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Minute)

	return cb
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Minute, HalfOpenLimit: 1})

	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())

	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute, HalfOpenLimit: 1})

	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		record func(cb *CircuitBreaker)
		want   State
	}{
		{
			name:   "single probe success closes",
			limit:  1,
			record: func(cb *CircuitBreaker) { cb.RecordSuccess() },
			want:   StateClosed,
		},
		{
			name:   "probe failure reopens",
			limit:  2,
			record: func(cb *CircuitBreaker) { cb.RecordFailure() },
			want:   StateOpen,
		},
		{
			name:   "partial successes stay half-open",
			limit:  2,
			record: func(cb *CircuitBreaker) { cb.RecordSuccess() },
			want:   StateHalfOpen,
		},
		{
			name:  "enough successes close",
			limit: 2,
			record: func(cb *CircuitBreaker) {
				cb.RecordSuccess()
				require.True(t, cb.Allow())
				cb.RecordSuccess()
			},
			want: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := trippedBreaker(t, tt.limit)

			require.True(t, cb.Allow())
			assert.Equal(t, StateHalfOpen, cb.State())

			tt.record(cb)
			assert.Equal(t, tt.want, cb.State())
		})
	}
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb := trippedBreaker(t, 2)

	assert.True(t, cb.Allow())
	assert.True(t, cb.Allow())
	assert.False(t, cb.Allow())
}

func TestCircuitBreaker_StaysOpenBeforeTimeout(t *testing.T) {
	now := time.Now()

	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1})
	cb.now = func() time.Time { return now }

	cb.RecordFailure()
	now = now.Add(30 * time.Second)

	assert.False(t, cb.Allow())
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	changes := make(chan [2]State, 1)

	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1})
	cb.OnStateChange(func(from, to State) { changes <- [2]State{from, to} })

	cb.RecordFailure()

	select {
	case got := <-changes:
		assert.Equal(t, [2]State{StateClosed, StateOpen}, got)
	case <-time.After(time.Second):
		t.Fatal("state change callback not invoked")
	}
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 100, Timeout: time.Second, HalfOpenLimit: 10})

	var wg sync.WaitGroup

	for i := range 500 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if !cb.Allow() {
				return
			}

			if i%2 == 0 {
				cb.RecordSuccess()
			} else {
				cb.RecordFailure()
			}
		}()
	}

	wg.Wait()

	assert.Contains(t, []State{StateClosed, StateOpen, StateHalfOpen}, cb.State())
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}
