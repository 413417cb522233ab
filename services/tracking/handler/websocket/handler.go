package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	wspkg "github.com/piresc/ordertrack/internal/pkg/websocket"
	"github.com/piresc/ordertrack/services/tracking"
)

// TrackingHandler serves the /ws/tracking endpoint
type TrackingHandler struct {
	trackingUC tracking.TrackingUC
	wsManager  *wspkg.Manager
}

// NewTrackingHandler creates a new websocket tracking handler
func NewTrackingHandler(trackingUC tracking.TrackingUC, wsManager *wspkg.Manager) *TrackingHandler {
	return &TrackingHandler{
		trackingUC: trackingUC,
		wsManager:  wsManager,
	}
}

// HandleWebSocket upgrades the request and serves the connection until it drops.
// A dropped connection leaves its channel.
func (h *TrackingHandler) HandleWebSocket(c echo.Context) error {
	ctx := c.Request().Context()

	return h.wsManager.HandleConnection(c, func(client *wspkg.Client) error {
		defer h.trackingUC.Leave(client)

		logger.Debug("Tracking connection opened", logger.ConnID(client.ID()))
		h.serve(ctx, client)
		logger.Debug("Tracking connection closed",
			logger.ConnID(client.ID()),
			logger.Uint64("dropped_events", client.Dropped()))
		return nil
	})
}

// connState is what the read loop remembers about its connection
type connState struct {
	userID string
}

func (h *TrackingHandler) serve(ctx context.Context, client *wspkg.Client) {
	state := &connState{}

	for {
		msg, err := client.Next()
		if errors.Is(err, wspkg.ErrMalformedMessage) {
			h.wsManager.SendCategorizedError(client, err, constants.ErrorInvalidFormat, constants.ErrorSeverityClient, state.userID)
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Tracking connection dropped",
					logger.ConnID(client.ID()),
					logger.Err(err))
			}
			return
		}

		h.handleMessage(ctx, client, state, msg)
	}
}

func (h *TrackingHandler) handleMessage(ctx context.Context, client *wspkg.Client, state *connState, msg models.WSMessage) {
	switch msg.Event {
	case constants.EventJoin:
		h.handleJoin(ctx, client, state, msg.Data)
	case constants.EventPositionReport:
		h.handlePositionReport(ctx, client, state, msg.Data)
	case constants.EventLeave:
		h.trackingUC.Leave(client)
	default:
		h.wsManager.SendCategorizedError(client, errors.New("unknown event "+msg.Event),
			constants.ErrorInvalidFormat, constants.ErrorSeverityClient, state.userID)
	}
}

func (h *TrackingHandler) handleJoin(ctx context.Context, client *wspkg.Client, state *connState, data json.RawMessage) {
	var req models.JoinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.wsManager.SendCategorizedError(client, err, constants.ErrorInvalidFormat, constants.ErrorSeverityClient, state.userID)
		return
	}

	identity, err := h.trackingUC.Join(ctx, client, &req)
	if err != nil {
		if reason, ok := denyReason(err); ok {
			logger.Info("Join denied",
				logger.ConnID(client.ID()),
				logger.OrderID(req.OrderID),
				logger.String("role", string(req.Role)),
				logger.String("reason", reason))
			client.Send(constants.EventJoinDenied, models.JoinDeniedMessage{Reason: reason})
			return
		}
		if errors.Is(err, tracking.ErrInvalidRequest) {
			h.wsManager.SendCategorizedError(client, err, constants.ErrorValidationFailed, constants.ErrorSeverityClient, state.userID)
			return
		}
		h.wsManager.SendCategorizedError(client, err, constants.ErrorInternalError, constants.ErrorSeverityServer, state.userID)
		return
	}

	state.userID = identity.UserID
}

func (h *TrackingHandler) handlePositionReport(ctx context.Context, client *wspkg.Client, state *connState, data json.RawMessage) {
	var report models.PositionReport
	if err := json.Unmarshal(data, &report); err != nil {
		h.wsManager.SendCategorizedError(client, err, constants.ErrorInvalidFormat, constants.ErrorSeverityClient, state.userID)
		return
	}

	if _, err := h.trackingUC.Report(ctx, client, report); err != nil {
		code, severity := reportErrorCode(err)
		h.wsManager.SendCategorizedError(client, err, code, severity, state.userID)
	}
}

// denyReason maps join authorization failures to join_denied reasons
func denyReason(err error) (string, bool) {
	switch {
	case errors.Is(err, tracking.ErrInvalidCredential):
		return constants.DenyInvalidCredential, true
	case errors.Is(err, tracking.ErrOrderNotFound):
		return constants.DenyOrderNotFound, true
	case errors.Is(err, tracking.ErrNotAParticipant):
		return constants.DenyNotAParticipant, true
	default:
		return "", false
	}
}

func reportErrorCode(err error) (string, constants.ErrorSeverity) {
	switch {
	case errors.Is(err, tracking.ErrInvalidPosition):
		return constants.ErrorInvalidPosition, constants.ErrorSeverityClient
	case errors.Is(err, tracking.ErrRateLimited):
		return constants.ErrorRateLimitExceeded, constants.ErrorSeverityClient
	case errors.Is(err, tracking.ErrChannelGone):
		return constants.ErrorChannelGone, constants.ErrorSeverityClient
	case errors.Is(err, tracking.ErrNotCourier):
		return constants.ErrorNotCourier, constants.ErrorSeveritySecurity
	default:
		return constants.ErrorInternalError, constants.ErrorSeverityServer
	}
}
