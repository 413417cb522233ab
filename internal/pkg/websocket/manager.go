package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/metrics"
	"github.com/piresc/ordertrack/internal/pkg/models"
)

// Manager upgrades HTTP requests to tracking connections and formats error frames
type Manager struct {
	upgrader websocket.Upgrader
	cfg      ClientConfig
}

// NewManager creates a new WebSocket manager
func NewManager(cfg models.TrackingConfig) *Manager {
	return &Manager{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		cfg: ClientConfig{
			SendQueueSize: cfg.SendQueueSize,
			WriteWait:     cfg.WriteWait,
			PongWait:      cfg.PongWait,
		},
	}
}

// HandleConnection upgrades the request and runs handleClient until it returns.
// The client is closed afterwards.
func (m *Manager) HandleConnection(c echo.Context, handleClient func(*Client) error) error {
	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", logger.Err(err))
		return err
	}

	client := NewClient(ws, m.cfg)
	metrics.ActiveConnections.Inc()
	defer func() {
		client.Close()
		metrics.ActiveConnections.Dec()
	}()

	return handleClient(client)
}

// SendErrorMessage queues an error frame for the client
func (m *Manager) SendErrorMessage(client *Client, code string, message string) bool {
	return client.Send(constants.EventError, models.WSErrorMessage{
		Code:    code,
		Message: message,
	})
}

// SendCategorizedError sends an error message based on severity level
func (m *Manager) SendCategorizedError(client *Client, err error, code string, severity constants.ErrorSeverity, userID string) bool {
	fields := []logger.Field{
		logger.ConnID(client.ID()),
		logger.String("user_id", userID),
		logger.String("error_code", code),
		logger.String("severity", severityString(severity)),
		logger.Err(err),
	}

	switch severity {
	case constants.ErrorSeverityClient:
		// Show detailed error to client for validation/input issues
		logger.Debug("WebSocket request rejected", fields...)
		return m.SendErrorMessage(client, code, err.Error())
	case constants.ErrorSeveritySecurity:
		logger.Warn("Security-related error occurred", fields...)
		return m.SendErrorMessage(client, code, "Access denied")
	default:
		logger.Error("WebSocket operation failed", fields...)
		return m.SendErrorMessage(client, code, "Operation failed")
	}
}

func severityString(severity constants.ErrorSeverity) string {
	switch severity {
	case constants.ErrorSeverityClient:
		return "client"
	case constants.ErrorSeverityServer:
		return "server"
	case constants.ErrorSeveritySecurity:
		return "security"
	default:
		return "unknown"
	}
}
