package models

import "encoding/json"

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSErrorMessage represents an error message sent over WebSocket
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JoinRequest is the payload of the join event
type JoinRequest struct {
	Credential string `json:"credential" validate:"required"`
	OrderID    string `json:"order_id" validate:"required,max=64"`
	Role       Role   `json:"role" validate:"required,oneof=courier customer"`
}

// JoinedMessage acknowledges a successful join
type JoinedMessage struct {
	OrderID     string   `json:"order_id"`
	Role        Role     `json:"role"`
	Destination Position `json:"destination"`
}

// JoinDeniedMessage tells the client why a join was refused
type JoinDeniedMessage struct {
	Reason string `json:"reason"`
}

// PositionUpdateMessage is the fan-out payload sent to customers
type PositionUpdateMessage struct {
	OrderID string `json:"order_id"`
	TrackedPosition
}

// ChannelNotice is sent on eviction and on channel teardown
type ChannelNotice struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// PositionSnapshot is the REST view of a channel's last known position
type PositionSnapshot struct {
	OrderID      string           `json:"order_id"`
	Active       bool             `json:"active"`
	CourierOn    bool             `json:"courier_online"`
	LastPosition *TrackedPosition `json:"last_position,omitempty"`
}
