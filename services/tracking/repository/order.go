package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
)

// GetOrder returns the order, serving from cache when possible
func (r *OrderRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if order, ok := r.getCachedOrder(ctx, orderID); ok {
		return order, nil
	}

	order, err := r.queryOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := r.cacheOrder(ctx, order); err != nil {
		logger.Warn("Failed to cache order",
			logger.OrderID(orderID),
			logger.Err(err))
	}

	return order, nil
}

// InvalidateOrder drops the cached copy of an order
func (r *OrderRepo) InvalidateOrder(ctx context.Context, orderID string) error {
	if r.redisClient == nil {
		return nil
	}
	if err := r.redisClient.Delete(ctx, orderCacheKey(orderID)); err != nil {
		return fmt.Errorf("failed to invalidate order cache: %w", err)
	}
	return nil
}

func (r *OrderRepo) queryOrder(ctx context.Context, orderID string) (*models.Order, error) {
	query := `
		SELECT id, customer_id, COALESCE(courier_id, '') AS courier_id, status, delivery_lat, delivery_lng
		FROM orders
		WHERE id = $1
	`

	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", tracking.ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}
