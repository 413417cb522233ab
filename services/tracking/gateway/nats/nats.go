package gateway_nats

import (
	"context"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/models"
	natspkg "github.com/piresc/ordertrack/internal/pkg/nats"
)

// NATSGateway publishes relay events to NATS
type NATSGateway struct {
	client *natspkg.Client
}

// NewNATSGateway creates a new NATS gateway
func NewNATSGateway(client *natspkg.Client) *NATSGateway {
	return &NATSGateway{
		client: client,
	}
}

// PublishPositionRelayed publishes a relayed courier position
func (g *NATSGateway) PublishPositionRelayed(ctx context.Context, event *models.PositionRelayedEvent) error {
	if g.client == nil {
		return nil
	}
	return g.client.PublishJSON(constants.SubjectPositionRelayed, event)
}
