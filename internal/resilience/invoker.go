// SPDX-License-Identifier: Apache-2.0

// Package resilience wraps outbound calls to volatile remote dependencies
// in a uniform envelope: response caching, circuit breaking, and retry with
// capped exponential backoff and jitter. The registry API and the auxiliary
// search providers are wrapped identically; only the tuning differs.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"
)

// Options tunes one invoker. Zero values fall back to the documented
// defaults in NewInvoker.
type Options struct {
	// Source labels this dependency in metrics and logs ("registry",
	// "search", ...).
	Source string

	// MaxRetries is the number of additional attempts after the first
	// failing one. Applies to retryable errors only.
	MaxRetries uint64

	// BaseDelay seeds the exponential backoff; each retry waits
	// min(BaseDelay*2^attempt + jitter, MaxDelay).
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// AttemptTimeout bounds every single attempt. A timed-out attempt is
	// a retryable failure, subject to the retry budget.
	AttemptTimeout time.Duration

	// ErrorThresholdPct and VolumeThreshold control when the breaker
	// trips: the failure percentage is evaluated only once the breaker
	// has seen at least VolumeThreshold calls in its current window.
	ErrorThresholdPct float64
	VolumeThreshold   uint32

	// ResetTimeout is how long an open breaker waits before permitting
	// exactly one half-open trial call.
	ResetTimeout time.Duration

	// Retryable classifies errors; nil means DefaultRetryable. Fatal
	// classes (auth failures, validation) must return false so they fail
	// immediately without consuming the retry budget.
	Retryable func(error) bool

	// Cache enables response caching. A cache hit returns immediately and
	// never counts toward breaker statistics.
	Cache *CachePolicy
}

// StateChange notifies an observer of a breaker transition.
type StateChange func(from, to metrics.CircuitState)

// Invoker applies the resilience envelope to calls producing a T. One
// invoker guards one remote source; its breaker and cache are shared by all
// concurrent callers.
type Invoker[T any] struct {
	opts      Options
	breaker   *gobreaker.CircuitBreaker[T]
	cache     *gocache.Cache
	collector *metrics.Collector
	logger    *logger.Logger

	mu        sync.Mutex
	observers []StateChange
}

// NewInvoker constructs an Invoker for one remote source. Defaults:
// 3 retries, 200ms base delay, 5s cap, 50% error threshold over 10 calls,
// 30s reset timeout.
func NewInvoker[T any](opts Options, collector *metrics.Collector, log *logger.Logger) *Invoker[T] {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 200 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Second
	}
	if opts.ErrorThresholdPct <= 0 {
		opts.ErrorThresholdPct = 50
	}
	if opts.VolumeThreshold == 0 {
		opts.VolumeThreshold = 10
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = 30 * time.Second
	}
	if opts.Retryable == nil {
		opts.Retryable = DefaultRetryable
	}

	inv := &Invoker[T]{
		opts:      opts,
		collector: collector,
		logger:    log,
	}

	inv.breaker = gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        opts.Source,
		MaxRequests: 1,
		Interval:    opts.ResetTimeout,
		Timeout:     opts.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.VolumeThreshold {
				return false
			}
			failurePct := float64(counts.TotalFailures) / float64(counts.Requests) * 100
			return failurePct >= opts.ErrorThresholdPct
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			inv.notifyStateChange(mapState(from), mapState(to))
		},
	})

	if opts.Cache != nil && opts.Cache.TTL > 0 {
		inv.cache = gocache.New(opts.Cache.TTL, opts.Cache.TTL)
	}

	return inv
}

// Do executes call through the resilience envelope. request is the raw
// request text used for cache-key derivation; it is ignored when no cache
// policy is configured.
//
// Failure surfaces: ErrCircuitOpen (short-circuited, no network attempt),
// ErrTimeout (wrapped in the returned chain), and *ExhaustedRetriesError
// wrapping the last underlying error.
func (i *Invoker[T]) Do(ctx context.Context, request string, call func(context.Context) (T, error)) (T, error) {
	var key string
	if i.cache != nil {
		key = CacheKey(request)
		if v, ok := i.cache.Get(key); ok {
			i.collector.RecordCacheHit(i.opts.Source)
			return v.(T), nil
		}
		i.collector.RecordCacheMiss(i.opts.Source)
	}

	start := time.Now()
	result, err := i.breaker.Execute(func() (T, error) {
		return i.callWithRetry(ctx, call)
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %s", ErrCircuitOpen, i.opts.Source)
		}
		i.collector.RecordFailure(i.opts.Source, elapsed)
		i.logger.Warn().
			Str("source", i.opts.Source).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("remote call failed")
		return result, err
	}

	i.collector.RecordSuccess(i.opts.Source, elapsed)

	if i.cache != nil {
		i.cache.Set(key, result, gocache.DefaultExpiration)
	}

	return result, nil
}

func (i *Invoker[T]) callWithRetry(ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	var result T
	attempts := 0
	lastRetryable := false

	backoff := retry.NewExponential(i.opts.BaseDelay)
	backoff = retry.WithJitter(i.opts.BaseDelay/2, backoff)
	backoff = retry.WithCappedDuration(i.opts.MaxDelay, backoff)
	backoff = retry.WithMaxRetries(i.opts.MaxRetries, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		attemptCtx := ctx
		if i.opts.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, i.opts.AttemptTimeout)
			defer cancel()
		}

		r, callErr := call(attemptCtx)
		if callErr == nil {
			result = r
			return nil
		}

		if errors.Is(callErr, context.DeadlineExceeded) && ctx.Err() == nil {
			callErr = fmt.Errorf("%w: %v", ErrTimeout, callErr)
		}

		if i.opts.Retryable(callErr) {
			lastRetryable = true
			return retry.RetryableError(callErr)
		}
		lastRetryable = false
		return callErr
	})
	if err != nil {
		if lastRetryable && attempts > int(i.opts.MaxRetries) {
			return result, &ExhaustedRetriesError{Attempts: attempts, Err: err}
		}
		return result, err
	}

	return result, nil
}

// State returns the breaker's current state as the metrics gauge value.
func (i *Invoker[T]) State() metrics.CircuitState {
	return mapState(i.breaker.State())
}

// OnStateChange registers an observer notified on every breaker
// transition. Observers run synchronously inside the transition.
func (i *Invoker[T]) OnStateChange(fn StateChange) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.observers = append(i.observers, fn)
}

func (i *Invoker[T]) notifyStateChange(from, to metrics.CircuitState) {
	i.collector.SetCircuitState(i.opts.Source, to)
	i.logger.Info().
		Str("source", i.opts.Source).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("circuit breaker state changed")

	i.mu.Lock()
	observers := make([]StateChange, len(i.observers))
	copy(observers, i.observers)
	i.mu.Unlock()

	for _, fn := range observers {
		fn(from, to)
	}
}

func mapState(s gobreaker.State) metrics.CircuitState {
	switch s {
	case gobreaker.StateOpen:
		return metrics.CircuitOpen
	case gobreaker.StateHalfOpen:
		return metrics.CircuitHalfOpen
	default:
		return metrics.CircuitClosed
	}
}

// DefaultRetryable classifies network-shaped failures as retryable:
// attempt timeouts, cancelled-by-deadline errors, and net-level errors
// (resets, refused connections, DNS hiccups). Everything else fails
// immediately.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
