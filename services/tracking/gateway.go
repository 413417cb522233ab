package tracking

import (
	"context"

	"github.com/piresc/ordertrack/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/ordertrack/services/tracking TrackingGW,RoutingGW

// TrackingGW defines the collaborators of the relay
type TrackingGW interface {
	// Identity
	VerifyCredential(ctx context.Context, credential string) (*models.Identity, error)

	// NATS Gateway
	PublishPositionRelayed(ctx context.Context, event *models.PositionRelayedEvent) error
}

// RoutingGW is the routing provider used by the customer-side ETA trigger
type RoutingGW interface {
	Route(ctx context.Context, origin, destination models.Position) (*models.Route, error)
}
