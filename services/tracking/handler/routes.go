package handler

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/ordertrack/internal/pkg/jwt"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/internal/utils"
	httpHandler "github.com/piresc/ordertrack/services/tracking/handler/http"
	natsHandler "github.com/piresc/ordertrack/services/tracking/handler/nats"
	wsHandler "github.com/piresc/ordertrack/services/tracking/handler/websocket"
)

// Handler coordinates all protocol handlers for the tracking service
type Handler struct {
	positionHandler *httpHandler.PositionHandler
	trackingWS      *wsHandler.TrackingHandler
	orderNATS       *natsHandler.OrderHandler
	cfg             *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	positionHandler *httpHandler.PositionHandler,
	trackingWS *wsHandler.TrackingHandler,
	orderNATS *natsHandler.OrderHandler,
	cfg *models.Config,
) *Handler {
	return &Handler{
		positionHandler: positionHandler,
		trackingWS:      trackingWS,
		orderNATS:       orderNATS,
		cfg:             cfg,
	}
}

// GetJWTMiddleware returns the JWT middleware for REST endpoints. Identity
// fields are exposed as "user_id" and "role" on the echo context.
func (h *Handler) GetJWTMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(h.cfg.JWT.Secret),
		SuccessHandler: func(c echo.Context) {
			tokenString := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			claims, err := jwtpkg.ValidateToken(tokenString, h.cfg.JWT)
			if err != nil {
				return
			}
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return utils.ErrorResponseHandler(c, http.StatusUnauthorized, "Invalid or missing token")
		},
	})
}

// RegisterRoutes registers all HTTP and websocket routes.
// The websocket authenticates per join, not per upgrade.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/tracking", h.trackingWS.HandleWebSocket)

	trackingGroup := e.Group("/tracking", h.GetJWTMiddleware())
	trackingGroup.GET("/orders/:orderID/position", h.positionHandler.GetPosition)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.orderNATS.InitNATSConsumers()
}
