package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/mhellwig/forumpulse/internal/metrics"
)

// CircuitBreakerHook implements redis.Hook to add circuit breaker protection
// to all Redis operations. When the cache tier is down, the breaker fails
// calls fast so reads degrade to the authoritative store instead of stacking
// up on timeouts.
type CircuitBreakerHook struct {
	cb *gobreaker.CircuitBreaker
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

// NewCircuitBreakerHook creates the hook: the breaker opens at a 60% failure
// rate over at least 5 requests, and probes again after 30 seconds.
func NewCircuitBreakerHook() *CircuitBreakerHook {
	settings := gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"component", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerStateChanges.WithLabelValues(name, to.String()).Inc()
		},
	}

	return &CircuitBreakerHook{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		result, err := h.cb.Execute(func() (any, error) {
			return next(ctx, network, addr)
		})
		if err != nil {
			return nil, fmt.Errorf("redis dial: %w", err)
		}
		return result.(net.Conn), nil
	}
}

func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		var opErr error
		_, cbErr := h.cb.Execute(func() (any, error) {
			opErr = next(ctx, cmd)
			// redis.Nil is a miss, not a failure
			if opErr != nil && !errors.Is(opErr, goredis.Nil) {
				return nil, opErr
			}
			return nil, nil
		})
		if cbErr != nil && opErr == nil {
			// breaker is open; the command never ran
			return fmt.Errorf("redis circuit breaker: %w", cbErr)
		}
		return opErr
	}
}

func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		var opErr error
		_, cbErr := h.cb.Execute(func() (any, error) {
			opErr = next(ctx, cmds)
			if opErr != nil && !errors.Is(opErr, goredis.Nil) {
				return nil, opErr
			}
			return nil, nil
		})
		if cbErr != nil && opErr == nil {
			return fmt.Errorf("redis circuit breaker: %w", cbErr)
		}
		return opErr
	}
}
