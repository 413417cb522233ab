package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/internal/utils"
	"github.com/piresc/ordertrack/services/tracking"
)

// PositionHandler serves the REST snapshot of an order's courier position
type PositionHandler struct {
	trackingUC tracking.TrackingUC
}

// NewPositionHandler creates a new position handler
func NewPositionHandler(trackingUC tracking.TrackingUC) *PositionHandler {
	return &PositionHandler{
		trackingUC: trackingUC,
	}
}

// GetPosition returns the last known courier position of an order to one of its participants
func (h *PositionHandler) GetPosition(c echo.Context) error {
	orderID := c.Param("orderID")
	if orderID == "" {
		return utils.BadRequestResponse(c, "Invalid order ID")
	}

	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || !models.Role(role).Valid() {
		return utils.UnauthorizedResponse(c, "Missing user credentials in token")
	}

	identity := models.Identity{UserID: userID, Role: models.Role(role)}
	snapshot, err := h.trackingUC.Snapshot(c.Request().Context(), identity, orderID)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrOrderNotFound):
			return utils.NotFoundResponse(c, "Order not found")
		case errors.Is(err, tracking.ErrNotAParticipant):
			return utils.ForbiddenResponse(c, "Not a participant of this order")
		default:
			logger.Error("Failed to get position snapshot",
				logger.OrderID(orderID),
				logger.String("user_id", userID),
				logger.Err(err))
			return utils.ErrorResponseHandler(c, http.StatusInternalServerError, "Failed to retrieve position")
		}
	}

	return utils.SuccessResponse(c, http.StatusOK, "Position retrieved successfully", snapshot)
}
