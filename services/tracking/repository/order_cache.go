package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
)

func orderCacheKey(orderID string) string {
	return fmt.Sprintf(constants.KeyOrderCache, orderID)
}

// getCachedOrder reports a miss on any cache error so the database stays authoritative
func (r *OrderRepo) getCachedOrder(ctx context.Context, orderID string) (*models.Order, bool) {
	if r.redisClient == nil {
		return nil, false
	}

	fields, err := r.redisClient.HGetAll(ctx, orderCacheKey(orderID))
	if err != nil {
		logger.Warn("Order cache read failed",
			logger.OrderID(orderID),
			logger.Err(err))
		return nil, false
	}
	if len(fields) == 0 {
		return nil, false
	}

	order, err := decodeOrder(orderID, fields)
	if err != nil {
		logger.Warn("Discarding malformed cached order",
			logger.OrderID(orderID),
			logger.Err(err))
		return nil, false
	}
	return order, true
}

func (r *OrderRepo) cacheOrder(ctx context.Context, order *models.Order) error {
	if r.redisClient == nil {
		return nil
	}

	values := map[string]interface{}{
		constants.FieldCustomerID:  order.CustomerID,
		constants.FieldCourierID:   order.CourierID,
		constants.FieldStatus:      string(order.Status),
		constants.FieldDeliveryLat: strconv.FormatFloat(order.DeliveryLat, 'f', -1, 64),
		constants.FieldDeliveryLng: strconv.FormatFloat(order.DeliveryLng, 'f', -1, 64),
	}
	return r.redisClient.HSetWithTTL(ctx, orderCacheKey(order.ID), values, r.cfg.Tracking.OrderCacheTTL)
}

func decodeOrder(orderID string, fields map[string]string) (*models.Order, error) {
	lat, err := strconv.ParseFloat(fields[constants.FieldDeliveryLat], 64)
	if err != nil {
		return nil, fmt.Errorf("delivery_lat: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[constants.FieldDeliveryLng], 64)
	if err != nil {
		return nil, fmt.Errorf("delivery_lng: %w", err)
	}

	return &models.Order{
		ID:          orderID,
		CustomerID:  fields[constants.FieldCustomerID],
		CourierID:   fields[constants.FieldCourierID],
		Status:      models.OrderStatus(fields[constants.FieldStatus]),
		DeliveryLat: lat,
		DeliveryLng: lng,
	}, nil
}
