package tracking

import (
	"context"

	"github.com/piresc/ordertrack/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/ordertrack/services/tracking OrderRepo

// OrderRepo is the order-management lookup behind the authorization gate
type OrderRepo interface {
	// GetOrder returns ErrOrderNotFound when the order does not exist
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	InvalidateOrder(ctx context.Context, orderID string) error
}
