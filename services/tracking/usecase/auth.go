package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	"github.com/piresc/ordertrack/internal/pkg/models"
	nrpkg "github.com/piresc/ordertrack/internal/pkg/newrelic"
	"github.com/piresc/ordertrack/services/tracking"
)

// Join authorizes a join request and registers conn in the order's channel.
// On any error the registry is left untouched.
func (uc *TrackingUC) Join(ctx context.Context, conn tracking.Conn, req *models.JoinRequest) (*models.Identity, error) {
	var (
		identity *models.Identity
		order    *models.Order
	)

	err := nrpkg.WithSegment(ctx, "tracking.authorize", func() error {
		var err error
		identity, order, err = uc.authorize(ctx, req)
		return err
	})
	if err != nil {
		metrics.Joins.WithLabelValues(string(req.Role), joinOutcome(err)).Inc()
		return nil, err
	}

	res, err := uc.registry.Join(order.ID, req.Role, identity.UserID, conn, order.Destination())
	if err != nil {
		// closed by a lifecycle event after authorize read the order
		metrics.Joins.WithLabelValues(string(req.Role), joinOutcome(err)).Inc()
		return nil, err
	}
	if res.Evicted != nil {
		uc.limiters.Delete(res.Evicted.ID())
	}
	// a rejoin keeps its bucket
	uc.limiters.LoadOrStore(conn.ID(), uc.newLimiter())
	metrics.Joins.WithLabelValues(string(req.Role), "accepted").Inc()

	logger.Info("Participant joined order channel",
		logger.OrderID(order.ID),
		logger.ConnID(conn.ID()),
		logger.String("user_id", identity.UserID),
		logger.String("role", string(req.Role)),
		logger.Bool("has_last_position", res.LastPosition != nil))

	return identity, nil
}

// authorize checks the credential, the order and the participant role
func (uc *TrackingUC) authorize(ctx context.Context, req *models.JoinRequest) (*models.Identity, *models.Order, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", tracking.ErrInvalidRequest, err)
	}

	identity, err := uc.gw.VerifyCredential(ctx, req.Credential)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", tracking.ErrInvalidCredential, err)
	}
	if identity.Role != req.Role {
		return nil, nil, fmt.Errorf("%w: credential role %q, claimed %q", tracking.ErrNotAParticipant, identity.Role, req.Role)
	}

	order, err := uc.loadOrder(ctx, req.OrderID)
	if err != nil {
		return nil, nil, err
	}

	if !order.HasParticipant(identity.UserID, req.Role) {
		return nil, nil, fmt.Errorf("%w: user %s as %s on order %s", tracking.ErrNotAParticipant, identity.UserID, req.Role, order.ID)
	}

	return identity, order, nil
}

// loadOrder resolves a trackable order; finished orders count as not found
func (uc *TrackingUC) loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := uc.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, tracking.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if !order.Status.Trackable() {
		return nil, fmt.Errorf("%w: order %s is %s", tracking.ErrOrderNotFound, orderID, order.Status)
	}
	return order, nil
}

// Snapshot returns the channel view of an order to one of its participants
func (uc *TrackingUC) Snapshot(ctx context.Context, identity models.Identity, orderID string) (*models.PositionSnapshot, error) {
	order, err := uc.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.HasParticipant(identity.UserID, identity.Role) {
		return nil, fmt.Errorf("%w: user %s on order %s", tracking.ErrNotAParticipant, identity.UserID, orderID)
	}

	snap := uc.registry.Snapshot(order.ID)
	return &snap, nil
}

// CloseOrder tears down the channel of an order that reached a final state
func (uc *TrackingUC) CloseOrder(ctx context.Context, orderID, reason string) error {
	removed := uc.registry.Close(orderID, reason)

	if err := uc.orderRepo.InvalidateOrder(ctx, orderID); err != nil {
		logger.Warn("Failed to invalidate cached order",
			logger.OrderID(orderID),
			logger.Err(err))
	}

	logger.Info("Order channel closed by lifecycle event",
		logger.OrderID(orderID),
		logger.String("reason", reason),
		logger.Int("participants", removed))
	return nil
}

func joinOutcome(err error) string {
	switch {
	case errors.Is(err, tracking.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, tracking.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, tracking.ErrNotAParticipant):
		return "not_a_participant"
	case errors.Is(err, tracking.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal_error"
	}
}
