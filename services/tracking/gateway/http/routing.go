package gateway_http

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/circuitbreaker"
	httpclient "github.com/piresc/ordertrack/internal/pkg/http"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
)

const routePath = "/route"

// RoutingClient is an HTTP client for the routing provider
type RoutingClient struct {
	client  *httpclient.Client
	timeout time.Duration
}

// NewRoutingClient creates a routing provider client guarded by a circuit breaker
func NewRoutingClient(routingServiceURL string, timeout time.Duration) *RoutingClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cbConfig := circuitbreaker.DefaultConfig("routing-provider")
	cbConfig.IsFailure = func(err error) bool {
		return err != nil && !errors.Is(err, context.Canceled)
	}
	breaker := circuitbreaker.New(cbConfig)

	return &RoutingClient{
		client: httpclient.NewClient(httpclient.Config{
			BaseURL: routingServiceURL,
			Timeout: timeout,
			Breaker: breaker,
		}),
		timeout: timeout,
	}
}

// Route asks the provider for a route from origin to destination
func (c *RoutingClient) Route(ctx context.Context, origin, destination models.Position) (*models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{
		"origin":      {formatPosition(origin)},
		"destination": {formatPosition(destination)},
	}

	start := time.Now()
	var route models.Route
	err := c.client.GetJSON(ctx, routePath, query, nil, &route)
	metrics.RouteDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "failure"
		if circuitbreaker.IsRejection(err) {
			outcome = "rejected"
		}
		metrics.RouteRequests.WithLabelValues(outcome).Inc()

		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		logger.Debug("Routing request failed",
			logger.String("outcome", outcome),
			logger.Err(err))
		return nil, fmt.Errorf("%w: %v", tracking.ErrRouteUnavailable, err)
	}

	metrics.RouteRequests.WithLabelValues("success").Inc()
	return &route, nil
}

func formatPosition(p models.Position) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
