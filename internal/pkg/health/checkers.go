package health

import (
	"context"
	"errors"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/database"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/nats"
)

// Dependency statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Checker defines the interface for health checking dependencies
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker
type CheckerFunc func(ctx context.Context) error

// CheckHealth calls f
func (f CheckerFunc) CheckHealth(ctx context.Context) error { return f(ctx) }

// PostgresChecker returns a checker pinging the order directory
func PostgresChecker(client *database.PostgresClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.GetDB().PingContext(ctx)
	})
}

// RedisChecker returns a checker pinging the order cache
func RedisChecker(client *database.RedisClient) Checker {
	return CheckerFunc(client.Ping)
}

// NATSChecker returns a checker verifying the NATS connection is up
func NATSChecker(client *nats.Client) Checker {
	return CheckerFunc(func(context.Context) error {
		conn := client.GetConn()
		if conn == nil || !conn.IsConnected() {
			return errors.New("nats not connected")
		}
		return nil
	})
}

// Response represents the readiness response
type Response struct {
	Status       string                    `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	Service      string                    `json:"service"`
	Dependencies map[string]DependencyInfo `json:"dependencies"`
}

// DependencyInfo represents health info for a dependency
type DependencyInfo struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Service manages health checks for multiple dependencies
type Service struct {
	checkers map[string]Checker
}

// NewService creates a new health service
func NewService() *Service {
	return &Service{checkers: make(map[string]Checker)}
}

// AddChecker registers a health checker for a dependency
func (s *Service) AddChecker(name string, checker Checker) {
	s.checkers[name] = checker
}

// CheckAll performs health checks on all registered dependencies
func (s *Service) CheckAll(ctx context.Context) Response {
	response := Response{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyInfo, len(s.checkers)),
	}

	for name, checker := range s.checkers {
		if err := checker.CheckHealth(ctx); err != nil {
			logger.Error("Health check failed",
				logger.String("dependency", name),
				logger.Err(err))

			response.Dependencies[name] = DependencyInfo{Status: StatusUnhealthy, Error: err.Error()}
			response.Status = StatusUnhealthy
			continue
		}
		response.Dependencies[name] = DependencyInfo{Status: StatusHealthy}
	}

	return response
}
