package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(source string) Options {
	return Options{
		Source:            source,
		MaxRetries:        2,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		ErrorThresholdPct: 50,
		VolumeThreshold:   4,
		ResetTimeout:      50 * time.Millisecond,
	}
}

func TestInvoker_SuccessPassesThrough(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	inv := NewInvoker[string](fastOptions("registry"), c, logger.Nop())

	got, err := inv.Do(context.Background(), "", func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, uint64(1), c.Snapshot()["registry"].Success)
}

func TestInvoker_RetriesThenExhausts(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("registry")
	opts.Retryable = func(error) bool { return true }
	inv := NewInvoker[string](opts, c, logger.Nop())

	calls := 0
	_, err := inv.Do(context.Background(), "", func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("flaky")
	})

	require.Error(t, err)
	// first attempt + MaxRetries retries
	assert.Equal(t, 3, calls)

	var exhausted *ExhaustedRetriesError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, uint64(1), c.Snapshot()["registry"].Failure)
}

func TestInvoker_NonRetryableFailsImmediately(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("registry")
	opts.Retryable = func(error) bool { return false }
	inv := NewInvoker[string](opts, c, logger.Nop())

	calls := 0
	fatal := errors.New("validation rejected")
	_, err := inv.Do(context.Background(), "", func(ctx context.Context) (string, error) {
		calls++
		return "", fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)

	var exhausted *ExhaustedRetriesError
	assert.False(t, errors.As(err, &exhausted))
}

func TestInvoker_AttemptTimeoutIsRetryable(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("registry")
	opts.AttemptTimeout = 10 * time.Millisecond
	inv := NewInvoker[string](opts, c, logger.Nop())

	calls := 0
	_, err := inv.Do(context.Background(), "", func(ctx context.Context) (string, error) {
		calls++
		<-ctx.Done()
		return "", ctx.Err()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 3, calls)
}

func TestInvoker_BreakerTripsAndShortCircuits(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("registry")
	opts.Retryable = func(error) bool { return false }
	inv := NewInvoker[string](opts, c, logger.Nop())

	calls := 0
	fail := func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("down")
	}

	// volume threshold is 4: these failures trip the breaker
	for i := 0; i < 4; i++ {
		_, _ = inv.Do(context.Background(), "", fail)
	}
	require.Equal(t, metrics.CircuitOpen, inv.State())
	require.Equal(t, 4, calls)

	// short-circuited: no network attempt
	_, err := inv.Do(context.Background(), "", fail)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 4, calls)
	assert.Equal(t, metrics.CircuitOpen, c.Snapshot()["registry"].CircuitState)
}

func TestInvoker_HalfOpenTrialRecovers(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("registry")
	opts.Retryable = func(error) bool { return false }
	inv := NewInvoker[string](opts, c, logger.Nop())

	var transitions []metrics.CircuitState
	inv.OnStateChange(func(from, to metrics.CircuitState) {
		transitions = append(transitions, to)
	})

	for i := 0; i < 4; i++ {
		_, _ = inv.Do(context.Background(), "", func(ctx context.Context) (string, error) {
			return "", errors.New("down")
		})
	}
	require.Equal(t, metrics.CircuitOpen, inv.State())

	// wait out the reset timeout, then one trial call is permitted
	time.Sleep(60 * time.Millisecond)

	got, err := inv.Do(context.Background(), "", func(ctx context.Context) (string, error) {
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, metrics.CircuitClosed, inv.State())
	assert.Contains(t, transitions, metrics.CircuitOpen)
	assert.Contains(t, transitions, metrics.CircuitHalfOpen)
	assert.Contains(t, transitions, metrics.CircuitClosed)
}

func TestInvoker_CacheNormalizesRequests(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("search")
	opts.Cache = &CachePolicy{TTL: time.Minute}
	inv := NewInvoker[string](opts, c, logger.Nop())

	upstream := 0
	call := func(ctx context.Context) (string, error) {
		upstream++
		return "lei 14.133/2021 results", nil
	}

	queries := []string{"Lei 14.133/2021", "  LEI 14.133/2021  ", "lei    14.133/2021"}
	for _, q := range queries {
		got, err := inv.Do(context.Background(), q, call)
		require.NoError(t, err)
		assert.Equal(t, "lei 14.133/2021 results", got)
	}

	assert.Equal(t, 1, upstream)
	snap := c.Snapshot()["search"]
	assert.Equal(t, uint64(2), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
}

func TestInvoker_FailureIsNeverCached(t *testing.T) {
	c := metrics.NewCollector(time.Minute, 16)
	opts := fastOptions("search")
	opts.Cache = &CachePolicy{TTL: time.Minute}
	opts.Retryable = func(error) bool { return false }
	inv := NewInvoker[string](opts, c, logger.Nop())

	upstream := 0
	_, err := inv.Do(context.Background(), "lei 8.666", func(ctx context.Context) (string, error) {
		upstream++
		return "", errors.New("provider down")
	})
	require.Error(t, err)

	// the second call for the same query must hit upstream again
	got, err := inv.Do(context.Background(), "lei 8.666", func(ctx context.Context) (string, error) {
		upstream++
		return "real answer", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "real answer", got)
	assert.Equal(t, 2, upstream)
}

func TestNormalizeRequest(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lei 14.133/2021", "lei 14.133/2021"},
		{"  LEI 14.133/2021  ", "lei 14.133/2021"},
		{"lei    14.133/2021", "lei 14.133/2021"},
		{"a\tb\nc", "a b c"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRequest(tt.in))
	}

	// equivalent inputs share one cache key
	assert.Equal(t, CacheKey("Lei 14.133/2021"), CacheKey("  lei   14.133/2021 "))
	assert.NotEqual(t, CacheKey("lei 14.133/2021"), CacheKey("lei 8.666/1993"))
}

func TestDefaultRetryable(t *testing.T) {
	assert.False(t, DefaultRetryable(nil))
	assert.False(t, DefaultRetryable(errors.New("bad request")))
	assert.True(t, DefaultRetryable(ErrTimeout))
	assert.True(t, DefaultRetryable(context.DeadlineExceeded))
}
