package tracking

import (
	"context"

	"github.com/piresc/ordertrack/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/ordertrack/services/tracking TrackingUC

// TrackingUC is the relay use case driven by the websocket, HTTP and NATS handlers
type TrackingUC interface {
	// Join authorizes the request and places conn in the order's channel
	Join(ctx context.Context, conn Conn, req *models.JoinRequest) (*models.Identity, error)
	// Report relays a courier position to the customers of its channel
	Report(ctx context.Context, conn Conn, report models.PositionReport) (*models.TrackedPosition, error)
	// Leave removes conn from whatever channel it is in
	Leave(conn Conn)

	// CloseOrder tears down the channel of a finished order
	CloseOrder(ctx context.Context, orderID, reason string) error
	// Snapshot returns the last known position for a participant of the order
	Snapshot(ctx context.Context, identity models.Identity, orderID string) (*models.PositionSnapshot, error)
}
