package constants

import "time"

// WebSocket event types
const (
	// Common events
	EventError = "error"

	// Client to server
	EventJoin           = "join"
	EventPositionReport = "position_report"
	EventLeave          = "leave"

	// Server to client
	EventJoined         = "joined"
	EventJoinDenied     = "join_denied"
	EventPositionUpdate = "position_update"
	EventEvicted        = "evicted"
	EventChannelClosed  = "channel_closed"
)

// WebSocket error codes
const (
	ErrorInvalidFormat     = "invalid_format"
	ErrorValidationFailed  = "validation_failed"
	ErrorInternalError     = "internal_error"
	ErrorRateLimitExceeded = "rate_limit_exceeded"
	ErrorInvalidPosition   = "invalid_position"
	ErrorNotCourier        = "not_courier"
	ErrorChannelGone       = "channel_gone"
)

// Join denial reasons
const (
	DenyInvalidCredential = "invalid_credential"
	DenyOrderNotFound     = "order_not_found"
	DenyNotAParticipant   = "not_a_participant"
)

// Channel notice reasons
const (
	ReasonReplaced       = "replaced_by_new_connection"
	ReasonOrderDelivered = "order_delivered"
	ReasonOrderCancelled = "order_cancelled"
)

// ErrorSeverity decides how much error detail a client sees
type ErrorSeverity int

const (
	ErrorSeverityClient ErrorSeverity = iota
	ErrorSeverityServer
	ErrorSeveritySecurity
)

// Connection defaults
const (
	DefaultWriteWait     = 10 * time.Second
	DefaultPongWait      = 60 * time.Second
	DefaultSendQueueSize = 32
	MaxMessageSize       = 4096
)
