package gateway

import (
	"github.com/piresc/ordertrack/internal/pkg/models"
	natspkg "github.com/piresc/ordertrack/internal/pkg/nats"
	"github.com/piresc/ordertrack/services/tracking"
	gateway_nats "github.com/piresc/ordertrack/services/tracking/gateway/nats"
)

// TrackingGW handles tracking gateway operations
type TrackingGW struct {
	*IdentityGateway
	*gateway_nats.NATSGateway
}

// NewTrackingGW creates a new gateway backed by the identity token settings and a NATS client
func NewTrackingGW(natsClient *natspkg.Client, jwtConfig models.JWTConfig) tracking.TrackingGW {
	return &TrackingGW{
		IdentityGateway: NewIdentityGateway(jwtConfig),
		NATSGateway:     gateway_nats.NewNATSGateway(natsClient),
	}
}
