package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Config holds circuit breaker configuration
type Config struct {
	Name             string        // Name of the circuit breaker for logging and metrics
	MaxRequests      uint32        // Max requests allowed in half-open state
	Interval         time.Duration // Interval to clear counters in closed state
	Timeout          time.Duration // Time spent open before probing again
	FailureThreshold uint32        // Consecutive failures that open the circuit
	IsFailure        func(err error) bool
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Errors returned when the breaker rejects a call
var (
	ErrCircuitBreakerOpen = gobreaker.ErrOpenState
	ErrTooManyRequests    = gobreaker.ErrTooManyRequests
)

// CircuitBreaker guards calls to a flaky collaborator
type CircuitBreaker struct {
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

// New creates a new circuit breaker
func New(config Config) *CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(config.Name).Set(0)

	threshold := config.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	if config.IsFailure != nil {
		isFailure := config.IsFailure
		settings.IsSuccessful = func(err error) bool {
			return !isFailure(err)
		}
	}

	return &CircuitBreaker{
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
		name: config.Name,
	}
}

// Execute runs fn unless the circuit is open
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// IsRejection reports whether err came from the breaker rather than the call
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the current breaker state name
func (b *CircuitBreaker) State() string {
	return b.cb.State().String()
}

// Name returns the circuit breaker name
func (b *CircuitBreaker) Name() string {
	return b.name
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
