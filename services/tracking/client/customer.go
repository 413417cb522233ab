package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	wspkg "github.com/piresc/ordertrack/internal/pkg/websocket"
	"github.com/piresc/ordertrack/services/tracking"
	"github.com/piresc/ordertrack/services/tracking/eta"
)

// Renderer receives what the customer should see
type Renderer interface {
	OnJoined(joined models.JoinedMessage)
	OnPosition(update models.PositionUpdateMessage)
	OnETA(eta models.ETA)
}

// CustomerSession follows one order and keeps the ETA current
type CustomerSession struct {
	session  *session
	router   tracking.RoutingGW
	renderer Renderer

	mu      sync.Mutex
	trigger *eta.Trigger
}

// NewCustomerSession creates a customer session. router may be nil to
// skip ETA computation.
func NewCustomerSession(cfg Config, router tracking.RoutingGW, renderer Renderer) *CustomerSession {
	return &CustomerSession{
		session:  newSession(cfg, models.RoleCustomer),
		router:   router,
		renderer: renderer,
	}
}

// Run joins as customer and renders updates until ctx ends or the relay
// ends the session.
func (c *CustomerSession) Run(ctx context.Context) error {
	defer c.stopTrigger()

	return c.session.run(ctx, callbacks{
		onJoined:  c.onJoined,
		onMessage: c.onMessage,
	})
}

func (c *CustomerSession) onJoined(_ context.Context, _ *wspkg.Client, joined models.JoinedMessage) {
	c.mu.Lock()
	if c.trigger == nil && c.router != nil {
		c.trigger = eta.NewTrigger(c.router, joined.Destination, c.renderer.OnETA)
	}
	c.mu.Unlock()

	c.renderer.OnJoined(joined)
}

func (c *CustomerSession) onMessage(msg models.WSMessage) {
	if msg.Event != constants.EventPositionUpdate {
		logger.Debug("Ignoring unexpected event", logger.String("event", msg.Event))
		return
	}

	var update models.PositionUpdateMessage
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		logger.Warn("Failed to decode position update", logger.Err(err))
		return
	}

	c.renderer.OnPosition(update)

	c.mu.Lock()
	trigger := c.trigger
	c.mu.Unlock()
	if trigger != nil {
		trigger.Submit(update.Position)
	}
}

func (c *CustomerSession) stopTrigger() {
	c.mu.Lock()
	trigger := c.trigger
	c.trigger = nil
	c.mu.Unlock()

	if trigger != nil {
		trigger.Stop()
	}
}
