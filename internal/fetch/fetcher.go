package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

// Fetcher returns a canonical-column price series for a ticker along with
// the name of the source that produced it. The core never sees raw source
// schemas; column normalization lives entirely inside this package.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, string, error)
}

// Source is one upstream price provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, error)
}

// MultiSource tries the primary source with bounded retries and linear
// backoff, then each fallback source once. Every source sits behind its own
// circuit breaker so a dead provider is skipped quickly across a shard
// instead of burning the retry budget on every ticker.
type MultiSource struct {
	primary    Source
	fallbacks  []Source
	breakers   map[string]*gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
	logger     *logger.Logger
}

// NewMultiSource creates a fetcher over a primary source and ordered
// fallbacks.
func NewMultiSource(primary Source, fallbacks []Source, maxRetries int, retryDelay time.Duration, log *logger.Logger) *MultiSource {
	breakers := make(map[string]*gobreaker.CircuitBreaker)
	for _, src := range append([]Source{primary}, fallbacks...) {
		breakers[src.Name()] = newBreaker(src.Name())
	}

	return &MultiSource{
		primary:    primary,
		fallbacks:  fallbacks,
		breakers:   breakers,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     log,
	}
}

// newBreaker builds a per-source circuit breaker: open after 5 consecutive
// failures, retry a single probe after 30 seconds.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// Fetch implements Fetcher.
func (m *MultiSource) Fetch(ctx context.Context, ticker string) (*contracts.PriceSeries, string, error) {
	var lastErr error

	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		series, err := m.fetchVia(ctx, m.primary, ticker)
		if err == nil {
			return series, m.primary.Name(), nil
		}
		lastErr = err

		m.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"source":  m.primary.Name(),
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Fetch attempt failed")

		if attempt < m.maxRetries {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(m.retryDelay * time.Duration(attempt)):
			}
		}
	}

	for _, src := range m.fallbacks {
		series, err := m.fetchVia(ctx, src, ticker)
		if err == nil {
			return series, src.Name(), nil
		}
		lastErr = err

		m.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"source": src.Name(),
			"error":  err.Error(),
		}).Warn("Fallback fetch failed")
	}

	return nil, "", fmt.Errorf("%w: %s: %v", contracts.ErrDataUnavailable, ticker, lastErr)
}

// fetchVia runs one source call through its circuit breaker and validates
// the result shape.
func (m *MultiSource) fetchVia(ctx context.Context, src Source, ticker string) (*contracts.PriceSeries, error) {
	result, err := m.breakers[src.Name()].Execute(func() (interface{}, error) {
		series, err := src.Fetch(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if series.Len() == 0 {
			return nil, fmt.Errorf("empty series")
		}
		if err := series.Validate(); err != nil {
			return nil, fmt.Errorf("malformed series: %w", err)
		}
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*contracts.PriceSeries), nil
}
