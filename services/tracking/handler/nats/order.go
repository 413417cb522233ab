package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/models"
	natspkg "github.com/piresc/ordertrack/internal/pkg/nats"
	"github.com/piresc/ordertrack/services/tracking"
)

// OrderHandler consumes order lifecycle events
type OrderHandler struct {
	trackingUC tracking.TrackingUC
	natsClient *natspkg.Client
}

// NewOrderHandler creates a new order lifecycle handler
func NewOrderHandler(trackingUC tracking.TrackingUC, natsClient *natspkg.Client) *OrderHandler {
	return &OrderHandler{
		trackingUC: trackingUC,
		natsClient: natsClient,
	}
}

// InitNATSConsumers subscribes to order terminal state events
func (h *OrderHandler) InitNATSConsumers() error {
	if err := h.natsClient.QueueSubscribe(constants.SubjectOrderDelivered, constants.QueueGroupTracking, h.handleOrderDelivered); err != nil {
		return fmt.Errorf("failed to subscribe to order delivered events: %w", err)
	}
	if err := h.natsClient.QueueSubscribe(constants.SubjectOrderCancelled, constants.QueueGroupTracking, h.handleOrderCancelled); err != nil {
		return fmt.Errorf("failed to subscribe to order cancelled events: %w", err)
	}
	return nil
}

func (h *OrderHandler) handleOrderDelivered(data []byte) error {
	return h.closeOrder(data, constants.ReasonOrderDelivered)
}

func (h *OrderHandler) handleOrderCancelled(data []byte) error {
	return h.closeOrder(data, constants.ReasonOrderCancelled)
}

func (h *OrderHandler) closeOrder(data []byte, reason string) error {
	var event models.OrderLifecycleEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	if event.OrderID == "" {
		return errors.New("order event without order_id")
	}

	return h.trackingUC.CloseOrder(context.Background(), event.OrderID, reason)
}
